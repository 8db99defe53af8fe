// Package swaggerkit serves the embedded OpenAPI document and the swagger UI
package swaggerkit

import (
	_ "embed"
	"encoding/json"
	"net/http"

	phttp "mgnrega/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// DocsPath is where the UI lives; the document is DocsPath + "/doc.json"
const DocsPath = "/api/docs"

//go:embed openapi.json
var openapi []byte

// SpecMutator edits the decoded document before it is written
type SpecMutator func(map[string]any)

// WithVersion stamps info.version, normally the build version
func WithVersion(v string) SpecMutator {
	return func(spec map[string]any) {
		if info, ok := spec["info"].(map[string]any); ok && v != "" {
			info["version"] = v
		}
	}
}

// Mount adds the UI, its redirect and the document when enabled
func Mount(r phttp.Router, enabled bool, mutators ...SpecMutator) {
	if !enabled {
		return
	}
	doc := DocsPath + "/doc.json"
	r.Get(DocsPath, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, DocsPath+"/", http.StatusPermanentRedirect)
	})
	r.Get(doc, serveDoc(mutators...))
	r.Handle(DocsPath+"/*", httpSwagger.Handler(httpSwagger.URL(doc)))
}

func serveDoc(mutators ...SpecMutator) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal(openapi, &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}
		for _, m := range mutators {
			m(spec)
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}
