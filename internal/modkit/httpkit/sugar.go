package httpkit

import (
	"net/http"

	phttp "mgnrega/internal/platform/net/http"
)

// Get registers an enveloped read
func Get(r Router, path string, h func(*http.Request) (any, error)) { phttp.GetJSON(r, path, h) }

// Delete registers an enveloped delete keyed by the path
func Delete(r Router, path string, h func(*http.Request) (any, error)) {
	phttp.DeleteJSON(r, path, h)
}

// PostJSON registers a bound and validated JSON write
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PostJSON(r, path, h)
}
