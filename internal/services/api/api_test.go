package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"mgnrega/internal/adapters/source"
	"mgnrega/internal/platform/cache"
	"mgnrega/internal/platform/config"
	"mgnrega/internal/platform/metrics"
	phttp "mgnrega/internal/platform/net/http"
	kit "mgnrega/internal/platform/testkit"
	refreshermod "mgnrega/internal/services/refresher/module"

	"github.com/go-chi/chi/v5"
)

func newServer(t *testing.T, metricsOn bool) http.Handler {
	t.Helper()
	csv, err := os.ReadFile("../districts/service/testdata/maharashtra.csv")
	if err != nil {
		t.Fatal(err)
	}
	rec := metrics.New()
	root := phttp.AdaptChi(chi.NewRouter())
	Mount(root, Options{
		Config:        config.New().Prefix("CORE_API_TEST_"),
		Cache:         cache.New(context.Background(), cache.Options{Observer: rec}),
		Metrics:       rec,
		Source:        source.Static(csv),
		FinYear:       "2024-2025",
		EnableSwagger: true,
		EnableMetrics: metricsOn,
	})
	return root.Mux()
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestMount_EndToEnd(t *testing.T) {
	h := newServer(t, true)

	rec := get(h, "/api/v1/mgnrega/states/MAHARASHTRA/districts/PUNE")
	if rec.Code != http.StatusOK {
		t.Fatalf("district = %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("request id header missing")
	}
	kit.MustContain(t, rec.Body.String(), `"districtName":"PUNE"`)

	rec = get(h, "/api/v1/meta/service")
	if rec.Code != http.StatusOK {
		t.Fatalf("meta = %d", rec.Code)
	}
	kit.MustContain(t, rec.Body.String(), `"cacheEntries":2`)

	rec = get(h, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics = %d", rec.Code)
	}
	body := rec.Body.String()
	kit.MustContain(t, body, `mgnrega_cache_requests_total{result="miss"} 2`)
	kit.MustContain(t, body, `route="/api/v1/mgnrega/states/{state}/districts/{district}"`)

	rec = get(h, "/api/docs/doc.json")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/mgnrega/states/{state}/summary") {
		t.Fatalf("doc.json = %d", rec.Code)
	}
}

func TestMount_MetricsDisabled(t *testing.T) {
	h := newServer(t, false)
	if rec := get(h, "/metrics"); rec.Code != http.StatusNotFound {
		t.Fatalf("metrics should be off, got %d", rec.Code)
	}
	if rec := get(h, "/debug/pprof/"); rec.Code != http.StatusNotFound {
		t.Fatalf("profiler should be off, got %d", rec.Code)
	}
}

func TestMount_Refresher(t *testing.T) {
	root := phttp.AdaptChi(chi.NewRouter())
	opt := Options{
		Config:  config.New().Prefix("CORE_API_TEST_"),
		Cache:   cache.New(context.Background(), cache.Options{}),
		Source:  source.Static("state_name,district_name\n"),
		FinYear: "2024-2025",
	}
	if got := Mount(root, opt); got.Refresher != nil {
		t.Fatal("refresher should be off by default")
	}

	root = phttp.AdaptChi(chi.NewRouter())
	opt.Refresh = refreshermod.Options{Enabled: true, States: []string{"MAHARASHTRA"}}
	got := Mount(root, opt)
	if got.Refresher == nil {
		t.Fatal("enabled refresher was not returned")
	}
	rec := get(root.Mux(), "/api/v1/refresher/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	kit.MustContain(t, rec.Body.String(), `"state":"MAHARASHTRA"`)
	kit.MustContain(t, rec.Body.String(), `"enabled":true`)
}
