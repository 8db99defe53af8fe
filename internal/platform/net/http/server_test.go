package http_test

import (
	"context"
	"testing"
	"time"

	"mgnrega/internal/platform/config"
	phttp "mgnrega/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestNewServer_AddrAndOptions(t *testing.T) {
	t.Setenv("API_PORT", ":12345")
	called := false
	srv := phttp.NewServer(config.New(), func(*chi.Mux) { called = true })
	if !called {
		t.Fatalf("expected option hook to run")
	}
	if srv.Addr() != ":12345" {
		t.Fatalf("addr = %q", srv.Addr())
	}
	if srv.Router() == nil {
		t.Fatalf("router is nil")
	}
}

func TestServer_RunStopsOnContextCancel(t *testing.T) {
	t.Setenv("API_PORT", "127.0.0.1:0")
	srv := phttp.NewServer(config.New())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestServer_RunReturnsListenError(t *testing.T) {
	t.Setenv("API_PORT", "127.0.0.1:abc")
	srv := phttp.NewServer(config.New())
	if err := srv.Run(context.Background()); err == nil {
		t.Fatalf("expected listen error")
	}
}
