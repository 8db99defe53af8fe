package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"mgnrega/internal/platform/testkit"
)

func TestOpen_BackendConfigErrors(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		cfg  Config
	}{
		{"pg bad url", Config{PG: PGConfig{Enabled: true, URL: "://bad"}}},
		{"ch empty dsn", Config{CH: CHConfig{Enabled: true}}},
		{"mongo empty uri", Config{Mongo: MongoConfig{Enabled: true, DB: "mgnrega"}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Open(ctx, c.cfg); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestOpenPG_GivesUpAfterRetries(t *testing.T) {
	var slept []time.Duration
	testkit.Swap(t, &sleep, func(d time.Duration) { slept = append(slept, d) })

	// nothing listens on port 1
	_, err := Open(context.Background(), Config{PG: PGConfig{
		Enabled:        true,
		URL:            "postgres://u:p@127.0.0.1:1/mgnrega?sslmode=disable&connect_timeout=1",
		ConnectRetries: 3,
		PingTimeout:    time.Second,
	}})
	if err == nil || !strings.Contains(err.Error(), "after 3 attempts") {
		t.Fatalf("err = %v", err)
	}
	if len(slept) != 3 || slept[1] != 2*slept[0] {
		t.Fatalf("backoff = %v", slept)
	}
}
