package cache

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	perr "mgnrega/internal/platform/errors"
)

// FilePersister keeps the blob in one JSON file
type FilePersister struct {
	Path string
}

// NewFilePersister returns a persister writing to path
func NewFilePersister(path string) *FilePersister { return &FilePersister{Path: path} }

// Load reads the blob, a missing file is ErrNoBlob
func (f *FilePersister) Load(_ context.Context) ([]byte, error) {
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoBlob
	}
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "read %s", f.Path)
	}
	return b, nil
}

// Save writes through a .part sibling and renames so readers never see a torn file
func (f *FilePersister) Save(_ context.Context, blob []byte) error {
	if dir := filepath.Dir(f.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnavailable, "create %s", dir)
		}
	}
	tmp := f.Path + ".part"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		_ = os.Remove(tmp)
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "write %s", tmp)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		_ = os.Remove(tmp)
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "rename %s", tmp)
	}
	return nil
}
