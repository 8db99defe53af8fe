package module

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"mgnrega/internal/adapters/source"
	modkit "mgnrega/internal/modkit"
	"mgnrega/internal/modkit/httpkit"
	mod "mgnrega/internal/modkit/module"
	"mgnrega/internal/platform/cache"
	perr "mgnrega/internal/platform/errors"
	phttp "mgnrega/internal/platform/net/http"
	"mgnrega/internal/services/districts/domain"

	"github.com/go-chi/chi/v5"
)

func newAPI(t *testing.T) (http.Handler, *Module) {
	t.Helper()
	b, err := os.ReadFile("../service/testdata/maharashtra.csv")
	if err != nil {
		t.Fatal(err)
	}
	deps := modkit.Deps{Cache: cache.New(context.Background(), cache.Options{})}
	m := New(deps, source.Static(b), "2024-2025")

	root := phttp.AdaptChi(chi.NewRouter())
	httpkit.MountAPIV1(root, httpkit.CommonStack(httpkit.StackOptions{}), m.MountRoutes)
	return root.Mux(), m
}

func do(t *testing.T, h http.Handler, method, path, body string) (int, httpkit.Envelope) {
	t.Helper()
	var rd *bytes.Buffer
	if body != "" {
		rd = bytes.NewBufferString(body)
	} else {
		rd = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env httpkit.Envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code, env
}

func decode[T any](t *testing.T, data any) T {
	t.Helper()
	b, _ := json.Marshal(data)
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return out
}

func TestRoutes_Reads(t *testing.T) {
	h, _ := newAPI(t)

	code, env := do(t, h, http.MethodGet, "/api/v1/mgnrega/states/MAHARASHTRA/districts", "")
	if code != http.StatusOK {
		t.Fatalf("names status = %d", code)
	}
	if names := decode[[]string](t, env.Data); len(names) != 3 || names[0] != "AHMEDNAGAR" {
		t.Fatalf("names = %v", names)
	}

	code, env = do(t, h, http.MethodGet, "/api/v1/mgnrega/states/MAHARASHTRA/districts/PUNE", "")
	if code != http.StatusOK {
		t.Fatalf("district status = %d", code)
	}
	rec := decode[domain.DistrictRecord](t, env.Data)
	if rec.DistrictName != "PUNE" || rec.CurrentMonthData.Month != "Sep" {
		t.Fatalf("record = %+v", rec)
	}

	code, env = do(t, h, http.MethodGet, "/api/v1/mgnrega/states/MAHARASHTRA/districts/GONDIA", "")
	if code != http.StatusNotFound || env.Code != perr.ErrorCodeNotFound {
		t.Fatalf("unknown district = %d %+v", code, env)
	}

	code, env = do(t, h, http.MethodGet, "/api/v1/mgnrega/states/MAHARASHTRA/summary", "")
	if code != http.StatusOK {
		t.Fatalf("summary status = %d", code)
	}
	if sum := decode[domain.StateSummary](t, env.Data); sum.DistrictCount != 3 {
		t.Fatalf("summary = %+v", sum)
	}

	code, _ = do(t, h, http.MethodGet, "/api/v1/mgnrega/states/GOA/summary", "")
	if code != http.StatusNotFound {
		t.Fatalf("empty state summary = %d", code)
	}
}

func TestRoutes_Compare(t *testing.T) {
	h, _ := newAPI(t)

	code, env := do(t, h, http.MethodPost, "/api/v1/mgnrega/states/MAHARASHTRA/compare", `{"districts":["PUNE","nashik"]}`)
	if code != http.StatusOK {
		t.Fatalf("compare status = %d %+v", code, env)
	}
	recs := decode[[]domain.DistrictRecord](t, env.Data)
	if len(recs) != 2 || recs[0].DistrictName != "nashik" {
		t.Fatalf("compare = %+v", recs)
	}

	for _, body := range []string{`{"districts":[]}`, `{"districts":["  "]}`, `{"names":["PUNE"]}`, ``} {
		code, _ := do(t, h, http.MethodPost, "/api/v1/mgnrega/states/MAHARASHTRA/compare", body)
		if code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d", body, code)
		}
	}
}

func TestRoutes_CacheAdmin(t *testing.T) {
	h, m := newAPI(t)
	do(t, h, http.MethodGet, "/api/v1/mgnrega/states/MAHARASHTRA/districts/PUNE", "")

	code, env := do(t, h, http.MethodGet, "/api/v1/mgnrega/cache", "")
	if code != http.StatusOK {
		t.Fatalf("cache info status = %d", code)
	}
	if info := decode[domain.CacheInfo](t, env.Data); info.Count != 2 {
		t.Fatalf("info = %+v", info)
	}

	code, env = do(t, h, http.MethodDelete, "/api/v1/mgnrega/cache/records_MAHARASHTRA_2024-2025", "")
	res := decode[domain.InvalidateResult](t, env.Data)
	if code != http.StatusOK || !res.Existed || res.Key != "records_MAHARASHTRA_2024-2025" || res.Remaining != 1 {
		t.Fatalf("delete = %d %+v", code, res)
	}
	_, env = do(t, h, http.MethodDelete, "/api/v1/mgnrega/cache/comparative_MAHARASHTRA_A%2CB%20C", "")
	if res = decode[domain.InvalidateResult](t, env.Data); res.Existed || res.Key != "comparative_MAHARASHTRA_A,B C" {
		t.Fatalf("delete unknown = %+v", res)
	}

	code, env = do(t, h, http.MethodPost, "/api/v1/mgnrega/cache/invalidate", `{"key":"district_MAHARASHTRA_PUNE"}`)
	res = decode[domain.InvalidateResult](t, env.Data)
	if code != http.StatusOK || !res.Existed || res.Remaining != 0 {
		t.Fatalf("invalidate = %d %+v", code, res)
	}

	code, env = do(t, h, http.MethodPost, "/api/v1/mgnrega/cache/invalidate", `{}`)
	res = decode[domain.InvalidateResult](t, env.Data)
	if code != http.StatusOK || !res.All || res.Remaining != 0 {
		t.Fatalf("invalidate all = %d %+v", code, res)
	}
	if stats := mod.MustPortsOf[domain.CacheStats](m); stats.Entries() != 0 {
		t.Fatalf("entries = %d", stats.Entries())
	}
}

func TestModule_Surface(t *testing.T) {
	_, m := newAPI(t)
	if m.Name() != "districts" || m.Prefix() != "/mgnrega" {
		t.Fatalf("name/prefix = %q %q", m.Name(), m.Prefix())
	}
	if _, ok := mod.PortsOf[domain.ServicePort](m); !ok {
		t.Fatalf("districts port missing")
	}
	if m.Service().FinYear() != "2024-2025" {
		t.Fatalf("fin year = %q", m.Service().FinYear())
	}
}
