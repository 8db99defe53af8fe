// Package source fetches the raw MGNREGA csv export from a file or an http url
package source

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	perr "mgnrega/internal/platform/errors"
	"mgnrega/internal/platform/logger"
)

// DefaultTimeout bounds one http fetch when no timeout is configured
const DefaultTimeout = 30 * time.Second

// maxBody caps how much csv text one fetch will buffer
const maxBody = 256 << 20

// Fetcher returns the full csv text of the export
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// HTTPFetcher downloads the export from a static url
type HTTPFetcher struct {
	URL    string
	Client *http.Client
}

// NewHTTPFetcher builds an HTTPFetcher with a client timeout, d <= 0 uses DefaultTimeout
func NewHTTPFetcher(u string, d time.Duration) *HTTPFetcher {
	if d <= 0 {
		d = DefaultTimeout
	}
	return &HTTPFetcher{URL: u, Client: &http.Client{Timeout: d}}
}

// Fetch returns the response body; non 2xx statuses are Unavailable
func (f *HTTPFetcher) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "source: bad url %q", f.URL)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

	start := time.Now()
	resp, err := f.Client.Do(req)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnavailable, "source: fetch failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", perr.Unavailablef("source: unexpected status %d for %s", resp.StatusCode, f.URL)
	}

	gz := strings.HasSuffix(req.URL.Path, ".gz") || resp.Header.Get("Content-Type") == "application/gzip"
	text, err := readAll(resp.Body, gz)
	if err != nil {
		return "", err
	}
	logger.C(ctx).Debug().
		Str("url", f.URL).
		Int("bytes", len(text)).
		Dur("elapsed", time.Since(start)).
		Msg("source fetched")
	return text, nil
}

// FileFetcher reads the export from local disk, useful for fixtures and offline runs
type FileFetcher struct {
	Path string
}

// Fetch reads the whole file; a missing file is Unavailable like a failed download
func (f FileFetcher) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "source: open %s", f.Path)
	}
	defer func() { _ = fh.Close() }()
	return readAll(fh, strings.HasSuffix(f.Path, ".gz"))
}

// FromLocation picks a fetcher by scheme: http and https download, file:// or a bare path reads disk
func FromLocation(loc string, timeout time.Duration) (Fetcher, error) {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return nil, perr.InvalidArgf("source: empty location")
	}
	u, err := url.Parse(loc)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 { // windows drive letters parse as a scheme
		return FileFetcher{Path: loc}, nil
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return NewHTTPFetcher(loc, timeout), nil
	case "file":
		return FileFetcher{Path: u.Path}, nil
	default:
		return nil, perr.InvalidArgf("source: unsupported scheme %q", u.Scheme)
	}
}

// Open is FromLocation plus an optional mirror directory for http locations
func Open(loc string, timeout time.Duration, mirrorDir string) (Fetcher, error) {
	f, err := FromLocation(loc, timeout)
	if err != nil || strings.TrimSpace(mirrorDir) == "" {
		return f, err
	}
	if h, ok := f.(*HTTPFetcher); ok {
		return NewMirror(h.URL, mirrorDir, timeout), nil
	}
	return f, nil
}

// Static serves fixed text, handy in tests and for stdin input
type Static string

// Fetch returns the text unchanged
func (s Static) Fetch(context.Context) (string, error) { return string(s), nil }

func readAll(r io.Reader, gz bool) (string, error) {
	if gz {
		zr, err := gzip.NewReader(r)
		if err != nil {
			return "", perr.Wrap(err, perr.ErrorCodeUnavailable, "source: gzip header")
		}
		defer func() { _ = zr.Close() }()
		r = zr
	}
	b, err := io.ReadAll(io.LimitReader(r, maxBody+1))
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnavailable, "source: read body")
	}
	if len(b) > maxBody {
		return "", perr.Unavailablef("source: export larger than %d bytes", maxBody)
	}
	return string(b), nil
}
