package http

import (
	stdhttp "net/http"
	"strings"

	mw "github.com/go-chi/chi/v5/middleware"
)

// DefaultProfilerPrefix is where pprof lives when no prefix is given
const DefaultProfilerPrefix = "/debug"

// MountProfiler serves chi's pprof and expvar bundle under prefix when enabled
// the bundle expects to own the path root, so the prefix is stripped first
func MountProfiler(r Router, prefix string, enabled bool) {
	if !enabled {
		return
	}
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		prefix = DefaultProfilerPrefix
	}
	h := stdhttp.StripPrefix(prefix, mw.Profiler())
	r.Handle(prefix, h)
	r.Handle(prefix+"/*", h)
}
