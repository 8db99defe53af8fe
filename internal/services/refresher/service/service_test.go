package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	perr "mgnrega/internal/platform/errors"
	kit "mgnrega/internal/platform/testkit"
)

type fakeTarget struct {
	mu    sync.Mutex
	stale map[string]bool
	fail  map[string]error
	warms map[string]int
}

func newTarget() *fakeTarget {
	return &fakeTarget{stale: map[string]bool{}, fail: map[string]error{}, warms: map[string]int{}}
}

func (f *fakeTarget) Stale(state string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stale[state]
}

func (f *fakeTarget) Warm(_ context.Context, state string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.warms[state]++
	if err := f.fail[state]; err != nil {
		return err
	}
	f.stale[state] = false
	return nil
}

func newSvc(target *fakeTarget, states ...string) (*Svc, *kit.Clock) {
	clock := kit.NewClock(time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC))
	s := New(target, Config{States: states, RetryBase: time.Minute, MaxDelay: 10 * time.Minute}, nil)
	s.now = clock.Now
	return s, clock
}

func TestNew_Defaults(t *testing.T) {
	kit.MustPanic(t, func() { New(nil, Config{}, nil) })

	s := New(newTarget(), Config{States: []string{" GOA ", "", "GOA", "KERALA"}}, nil)
	if len(s.cfg.States) != 2 || s.cfg.States[0] != "GOA" || s.cfg.States[1] != "KERALA" {
		t.Fatalf("states = %v", s.cfg.States)
	}
	if s.cfg.Interval != 15*time.Minute || s.cfg.RetryBase != 30*time.Second || s.cfg.MaxDelay != time.Hour {
		t.Fatalf("defaults = %+v", s.cfg)
	}
}

func TestTick_WarmsOnlyStaleStates(t *testing.T) {
	target := newTarget()
	target.stale["GOA"] = true
	s, _ := newSvc(target, "GOA", "KERALA")

	if n := s.Tick(context.Background()); n != 1 {
		t.Fatalf("warmed %d", n)
	}
	if target.warms["GOA"] != 1 || target.warms["KERALA"] != 0 {
		t.Fatalf("warms = %v", target.warms)
	}
	if n := s.Tick(context.Background()); n != 0 {
		t.Fatalf("second tick warmed %d", n)
	}
	st := s.Status()
	if st[0].LastOK.IsZero() || !st[1].LastOK.IsZero() {
		t.Fatalf("status = %+v", st)
	}
}

func TestTick_BacksOffAfterFailure(t *testing.T) {
	target := newTarget()
	target.stale["GOA"] = true
	target.fail["GOA"] = errors.New("upstream down")
	s, clock := newSvc(target, "GOA")
	ctx := context.Background()

	s.Tick(ctx)
	s.Tick(ctx)
	if target.warms["GOA"] != 1 {
		t.Fatalf("retried before backoff elapsed: %d", target.warms["GOA"])
	}
	st := s.Status()[0]
	if st.Attempts != 1 || st.LastError != "upstream down" || !st.NextAt.Equal(clock.Now().Add(time.Minute)) {
		t.Fatalf("status = %+v", st)
	}

	clock.Advance(time.Minute)
	s.Tick(ctx)
	if target.warms["GOA"] != 2 {
		t.Fatalf("warms = %d", target.warms["GOA"])
	}
	if got := s.Status()[0].NextAt; !got.Equal(clock.Now().Add(2 * time.Minute)) {
		t.Fatalf("second backoff next = %v", got)
	}

	delete(target.fail, "GOA")
	clock.Advance(2 * time.Minute)
	if n := s.Tick(ctx); n != 1 {
		t.Fatalf("recovery warmed %d", n)
	}
	if st := s.Status()[0]; st.Attempts != 0 || st.LastError != "" {
		t.Fatalf("status after recovery = %+v", st)
	}
}

func TestTick_PermanentFailureWaitsMaxDelay(t *testing.T) {
	target := newTarget()
	target.stale["GOA"] = true
	target.fail["GOA"] = perr.New(perr.ErrorCodeValidation, "export has no header")
	s, clock := newSvc(target, "GOA")

	s.Tick(context.Background())
	if got := s.Status()[0].NextAt; !got.Equal(clock.Now().Add(10 * time.Minute)) {
		t.Fatalf("next = %v", got)
	}
}

func TestTick_StopsOnCancel(t *testing.T) {
	target := newTarget()
	target.stale["GOA"] = true
	s, _ := newSvc(target, "GOA")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if n := s.Tick(ctx); n != 0 || target.warms["GOA"] != 0 {
		t.Fatalf("cancelled tick warmed %d", n)
	}
}

func TestRun_ReturnsOnCancel(t *testing.T) {
	target := newTarget()
	target.stale["GOA"] = true
	s, _ := newSvc(target, "GOA")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		target.mu.Lock()
		n := target.warms["GOA"]
		target.mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("first pass never ran")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v", err)
	}
}

func TestBackoffFor(t *testing.T) {
	cases := []struct {
		attempts int
		want     time.Duration
	}{
		{-1, time.Second},
		{0, time.Second},
		{3, 8 * time.Second},
		{10, time.Minute},
		{64, time.Minute},
	}
	for _, c := range cases {
		if got := backoffFor(c.attempts, time.Second, time.Minute); got != c.want {
			t.Errorf("backoffFor(%d) = %v, want %v", c.attempts, got, c.want)
		}
	}
}
