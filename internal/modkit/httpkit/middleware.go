package httpkit

import (
	"net/http"
	"time"

	"mgnrega/internal/platform/net/middleware"
)

// StackOptions tunes the per scope middleware stack
type StackOptions struct {
	// Timeout bounds how long a request waits, the cache keeps computing past it
	Timeout time.Duration
	// Slow marks access log lines at warn level
	Slow time.Duration
	// Observe receives route level timings, normally the metrics recorder
	Observe     func(method, route string, status int, elapsed time.Duration)
	CORSOrigins []string
}

// CommonStack returns the baseline middleware slice for a versioned API scope
// request ids, real ip, and panic recovery are already on the root mux
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	return []func(http.Handler) http.Handler{
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.Slow, Observe: o.Observe}),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.StripSlashes(),
		middleware.Timeout(o.Timeout),
	}
}
