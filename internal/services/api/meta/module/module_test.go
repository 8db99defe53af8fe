package module

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	modkit "mgnrega/internal/modkit"
	"mgnrega/internal/modkit/httpkit"
	"mgnrega/internal/platform/cache"
	phttp "mgnrega/internal/platform/net/http"
	"mgnrega/internal/platform/store"

	"github.com/go-chi/chi/v5"
)

type entries int

func (e entries) Entries() int { return int(e) }

type pingCH struct{ err error }

func (p pingCH) Exec(context.Context, string, ...any) error                { return nil }
func (p pingCH) Insert(context.Context, string, []string, [][]any) error   { return nil }
func (p pingCH) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (p pingCH) Close() error                                              { return nil }
func (p pingCH) Ping(context.Context) error                                { return p.err }

func serve(t *testing.T, m *Module, path string) (int, map[string]any) {
	t.Helper()
	root := phttp.AdaptChi(chi.NewRouter())
	m.MountRoutes(root)
	rec := httptest.NewRecorder()
	root.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var env httpkit.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s: %v", path, err)
	}
	data, _ := env.Data.(map[string]any)
	return rec.Code, data
}

func TestHealthAndVersion(t *testing.T) {
	m := New(modkit.Deps{})
	code, data := serve(t, m, "/meta/health")
	if code != http.StatusOK || data["ok"] != true || data["service"] != ServiceName {
		t.Fatalf("health = %d %v", code, data)
	}
	if code, data := serve(t, m, "/meta/version"); code != http.StatusOK || data["service"] != ServiceName {
		t.Fatalf("version = %d %v", code, data)
	}
}

func TestReady(t *testing.T) {
	ok := New(modkit.Deps{Store: &store.Store{CH: pingCH{}}})
	code, data := serve(t, ok, "/meta/ready")
	if code != http.StatusOK || data["status"] != "ok" {
		t.Fatalf("ready = %d %v", code, data)
	}
	checks, _ := data["checks"].([]any)
	if len(checks) != 3 {
		t.Fatalf("checks = %v", checks)
	}
	if pg := checks[0].(map[string]any); pg["status"] != "skipped" {
		t.Fatalf("pg check = %v", pg)
	}

	bad := New(modkit.Deps{Store: &store.Store{CH: pingCH{err: errors.New("connection refused")}}})
	code, data = serve(t, bad, "/meta/ready")
	if code != http.StatusServiceUnavailable || data["status"] != "fail" {
		t.Fatalf("failing ready = %d %v", code, data)
	}

	none := New(modkit.Deps{})
	if code, data := serve(t, none, "/meta/ready"); code != http.StatusOK || data["status"] != "ok" {
		t.Fatalf("no store ready = %d %v", code, data)
	}
}

func TestServiceReportsCacheEntries(t *testing.T) {
	m := New(modkit.Deps{}, modkit.WithPorts[entries](7))
	if _, data := serve(t, m, "/meta/service"); data["cacheEntries"] != float64(7) {
		t.Fatalf("service = %v", data)
	}

	c := cache.New(context.Background(), cache.Options{})
	_, _ = c.Get(context.Background(), "k", func(context.Context) (json.RawMessage, error) { return json.RawMessage(`1`), nil })
	m = New(modkit.Deps{Cache: c})
	if _, data := serve(t, m, "/meta/service"); data["cacheEntries"] != float64(1) {
		t.Fatalf("service from raw cache = %v", data)
	}
	if m.Name() != "meta" || m.Prefix() != "/meta" || m.Ports() != nil {
		t.Fatalf("surface")
	}
}
