// Package service keeps configured states warm in the result cache
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	perr "mgnrega/internal/platform/errors"
	"mgnrega/internal/platform/logger"
	"mgnrega/internal/services/districts/domain"
)

// Config controls which states are refreshed and how often
type Config struct {
	States    []string
	Interval  time.Duration
	RetryBase time.Duration
	MaxDelay  time.Duration
}

// StateStatus is the refresher's view of one state
type StateStatus struct {
	State     string    `json:"state"`
	Attempts  int       `json:"attempts"`
	LastOK    time.Time `json:"lastOk,omitzero"`
	NextAt    time.Time `json:"nextAt,omitzero"`
	LastError string    `json:"lastError,omitempty"`
}

// Svc walks the configured states on every tick and warms the stale ones
type Svc struct {
	target domain.WarmPort
	cfg    Config
	log    *logger.Logger
	now    func() time.Time

	mu     sync.Mutex
	status map[string]*StateStatus
}

// New constructs the refresher; states are trimmed and de-duplicated
func New(target domain.WarmPort, cfg Config, log *logger.Logger) *Svc {
	if target == nil {
		panic("refresher.Service requires a non nil WarmPort")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Minute
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 30 * time.Second
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = time.Hour
	}
	if log == nil {
		log = logger.Named("refresher")
	}
	s := &Svc{target: target, log: log, now: time.Now, status: map[string]*StateStatus{}}
	for _, st := range cfg.States {
		st = strings.TrimSpace(st)
		if st == "" || s.status[st] != nil {
			continue
		}
		s.status[st] = &StateStatus{State: st}
		s.cfg.States = append(s.cfg.States, st)
	}
	s.cfg.Interval, s.cfg.RetryBase, s.cfg.MaxDelay = cfg.Interval, cfg.RetryBase, cfg.MaxDelay
	return s
}

// Run ticks until ctx is done; the first pass runs immediately
func (s *Svc) Run(ctx context.Context) error {
	if len(s.cfg.States) == 0 {
		s.log.Info().Msg("refresher: no states configured")
		<-ctx.Done()
		return ctx.Err()
	}
	s.log.Info().Strs("states", s.cfg.States).Dur("interval", s.cfg.Interval).Msg("refresher: start")

	s.Tick(ctx)
	t := time.NewTicker(s.cfg.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.Tick(ctx)
		}
	}
}

// Tick warms every due, stale state and returns how many were warmed
func (s *Svc) Tick(ctx context.Context) int {
	warmed := 0
	for _, st := range s.cfg.States {
		if ctx.Err() != nil {
			return warmed
		}
		if !s.due(st) || !s.target.Stale(st) {
			continue
		}
		start := s.now()
		if err := s.target.Warm(logger.WithState(ctx, st), st); err != nil {
			s.failed(st, err)
			continue
		}
		s.succeeded(st)
		warmed++
		s.log.Debug().Str("state", st).Dur("took", s.now().Sub(start)).Msg("refresher: state warmed")
	}
	return warmed
}

// Status snapshots every configured state in configuration order
func (s *Svc) Status() []StateStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StateStatus, 0, len(s.cfg.States))
	for _, st := range s.cfg.States {
		out = append(out, *s.status[st])
	}
	return out
}

func (s *Svc) due(st string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.now().Before(s.status[st].NextAt)
}

func (s *Svc) succeeded(st string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss := s.status[st]
	ss.Attempts = 0
	ss.LastError = ""
	ss.LastOK = s.now()
	ss.NextAt = time.Time{}
}

func (s *Svc) failed(st string, err error) {
	s.mu.Lock()
	ss := s.status[st]
	back := backoffFor(ss.Attempts, s.cfg.RetryBase, s.cfg.MaxDelay)
	if !perr.Retryable(err) {
		back = s.cfg.MaxDelay
	}
	ss.Attempts++
	ss.LastError = trimErr(err)
	ss.NextAt = s.now().Add(back)
	attempts := ss.Attempts
	s.mu.Unlock()

	s.log.Warn().Err(err).Str("state", st).Int("attempts", attempts).Dur("backoff", back).Msg("refresher: warm failed")
}

func trimErr(err error) string {
	const n = 300
	msg := err.Error()
	if len(msg) <= n {
		return msg
	}
	return msg[:n]
}

func backoffFor(attempts int, base, ceiling time.Duration) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	if attempts > 30 {
		return ceiling
	}
	return min(base<<uint(attempts), ceiling)
}
