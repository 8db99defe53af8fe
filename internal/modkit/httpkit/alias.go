// Package httpkit is the http surface modules program against; it re-exports
// the platform seam so feature packages never import platform/net/http
package httpkit

import (
	"net/http"

	phttp "mgnrega/internal/platform/net/http"
)

type (
	// Envelope wraps every json response
	Envelope = phttp.Envelope

	// Response lets a handler pick its status, e.g. 503 from readiness
	Response = phttp.Response

	// Router is the routing seam
	Router = phttp.Router
)

// Param returns the decoded path parameter; district names may carry spaces
func Param(r *http.Request, name string) string { return phttp.Param(r, name) }
