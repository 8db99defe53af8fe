package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "mgnrega/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestMount_ServesSpecWithVersion(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	Mount(r, true, WithVersion("1.2.3"))

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var spec map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &spec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	info, _ := spec["info"].(map[string]any)
	if info["version"] != "1.2.3" {
		t.Fatalf("version = %v", info["version"])
	}
	paths, _ := spec["paths"].(map[string]any)
	if _, ok := paths["/mgnrega/states/{state}/compare"]; !ok {
		t.Fatalf("compare path missing from spec")
	}

	redirect := httptest.NewRecorder()
	r.Mux().ServeHTTP(redirect, httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	if redirect.Code != http.StatusPermanentRedirect {
		t.Fatalf("redirect status = %d", redirect.Code)
	}
}

func TestMount_Disabled(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	Mount(r, false)

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
