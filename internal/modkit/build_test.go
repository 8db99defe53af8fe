package modkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"mgnrega/internal/modkit/httpkit"
	phttp "mgnrega/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestBuild_Defaults(t *testing.T) {
	t.Parallel()

	b := Build()
	if b.Name != "" || b.Prefix != "" || b.Ports != nil || len(b.Mw) != 0 {
		t.Fatalf("unexpected defaults: %+v", b)
	}
	// default Register is a no-op
	b.Register(nil)
}

func TestBuild_LaterOptionsWin(t *testing.T) {
	t.Parallel()

	type ports struct{ X int }
	b := Build(
		WithName("districts"), WithPrefix("/mgnrega"),
		WithName("override"),
		WithPorts(ports{X: 7}),
	)
	if b.Name != "override" || b.Prefix != "/mgnrega" {
		t.Fatalf("name/prefix = %q %q", b.Name, b.Prefix)
	}
	if p, ok := b.Ports.(ports); !ok || p.X != 7 {
		t.Fatalf("ports = %#v", b.Ports)
	}
}

func TestBuild_MiddlewaresCopied(t *testing.T) {
	t.Parallel()

	mw := func(next http.Handler) http.Handler { return next }
	opt := WithMiddlewares(mw, mw)
	b1 := Build(opt)
	b1.Mw[0] = nil
	b2 := Build(opt)
	if len(b2.Mw) != 2 || b2.Mw[0] == nil {
		t.Fatalf("middleware slice shared between builds")
	}
}

func TestMount_AppliesPrefixMiddlewareAndRegisters(t *testing.T) {
	t.Parallel()

	tag := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Module", "on")
			next.ServeHTTP(w, r)
		})
	}
	b := Build(
		WithPrefix("/meta"),
		WithMiddlewares(tag),
		WithRegister(func(r phttp.Router) {
			r.Get("/extra", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })
		}),
	)

	root := phttp.AdaptChi(chi.NewRouter())
	Mount(root, b, func(r httpkit.Router) {
		r.Get("/own", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	})

	for path, want := range map[string]int{"/meta/own": 200, "/meta/extra": 202} {
		rec := httptest.NewRecorder()
		root.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != want {
			t.Fatalf("%s = %d, want %d", path, rec.Code, want)
		}
		if rec.Header().Get("X-Module") != "on" {
			t.Fatalf("%s: module middleware not applied", path)
		}
	}
}

func TestDeps_LoggerFallsBackToNamed(t *testing.T) {
	t.Parallel()

	if (Deps{}).Logger("x") == nil {
		t.Fatalf("expected a logger")
	}
}
