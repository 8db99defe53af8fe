package source

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	perr "mgnrega/internal/platform/errors"
	"mgnrega/internal/platform/logger"
)

// Mirror downloads the export into a local file and revalidates it with
// If-None-Match / If-Modified-Since on every fetch. When the upstream is down
// the last good copy is served
type Mirror struct {
	URL    string
	Dir    string
	Client *http.Client
	now    func() time.Time
}

// mirrorMeta is the sidecar written next to the mirrored file
type mirrorMeta struct {
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	Size         int64     `json:"size,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
	LastChecked  time.Time `json:"last_checked"`
}

// NewMirror keeps a copy of u under dir
func NewMirror(u, dir string, timeout time.Duration) *Mirror {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Mirror{URL: u, Dir: dir, Client: &http.Client{Timeout: timeout}, now: time.Now}
}

func (m *Mirror) paths() (data, meta string) {
	name := filepath.Base(strings.SplitN(m.URL, "?", 2)[0])
	if name == "" || name == "." || name == "/" {
		name = "export.csv"
	}
	data = filepath.Join(m.Dir, name)
	return data, data + ".meta"
}

// Fetch revalidates the local copy and returns its text
func (m *Mirror) Fetch(ctx context.Context) (string, error) {
	dataPath, metaPath := m.paths()
	meta, _ := loadMeta(metaPath)
	_, statErr := os.Stat(dataPath)
	haveCopy := statErr == nil

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.URL, nil)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "source: bad url %q", m.URL)
	}
	if haveCopy && meta != nil {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	resp, err := m.Client.Do(req)
	if err != nil {
		return m.fallback(ctx, dataPath, haveCopy, perr.Wrap(err, perr.ErrorCodeUnavailable, "source: fetch failed"))
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotModified && haveCopy:
		if meta == nil {
			meta = &mirrorMeta{}
		}
		meta.LastChecked = m.now().UTC()
		_ = saveMeta(metaPath, meta)
		logger.C(ctx).Debug().Str("url", m.URL).Msg("source not modified")
		return FileFetcher{Path: dataPath}.Fetch(ctx)

	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		if err := m.store(resp, dataPath, metaPath); err != nil {
			return m.fallback(ctx, dataPath, haveCopy, err)
		}
		return FileFetcher{Path: dataPath}.Fetch(ctx)

	default:
		return m.fallback(ctx, dataPath, haveCopy, perr.Unavailablef("source: unexpected status %d for %s", resp.StatusCode, m.URL))
	}
}

func (m *Mirror) fallback(ctx context.Context, dataPath string, haveCopy bool, cause error) (string, error) {
	if !haveCopy {
		return "", cause
	}
	logger.C(ctx).Warn().Err(cause).Str("path", dataPath).Msg("upstream unavailable, serving mirrored copy")
	return FileFetcher{Path: dataPath}.Fetch(ctx)
}

// store writes the body through a .part file so a torn download never replaces a good copy
func (m *Mirror) store(resp *http.Response, dataPath, metaPath string) error {
	if err := os.MkdirAll(filepath.Dir(dataPath), 0o755); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "source: mirror dir")
	}
	tmp := dataPath + ".part"
	defer func() { _ = os.Remove(tmp) }()

	out, err := os.Create(tmp)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "source: mirror create")
	}
	n, werr := io.Copy(out, io.LimitReader(resp.Body, maxBody+1))
	cerr := out.Close()
	switch {
	case werr != nil:
		return perr.Wrap(werr, perr.ErrorCodeUnavailable, "source: mirror download")
	case cerr != nil:
		return perr.Wrap(cerr, perr.ErrorCodeUnavailable, "source: mirror close")
	case n > maxBody:
		return perr.Unavailablef("source: export larger than %d bytes", maxBody)
	}
	if err := os.Rename(tmp, dataPath); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "source: mirror rename")
	}

	now := m.now().UTC()
	_ = saveMeta(metaPath, &mirrorMeta{
		ETag:         strings.TrimSpace(resp.Header.Get("ETag")),
		LastModified: strings.TrimSpace(resp.Header.Get("Last-Modified")),
		Size:         n,
		FetchedAt:    now,
		LastChecked:  now,
	})
	return nil
}

func loadMeta(path string) (*mirrorMeta, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m mirrorMeta
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func saveMeta(path string, m *mirrorMeta) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	tmp := path + ".part"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
