package cache

import (
	"context"

	perr "mgnrega/internal/platform/errors"
)

// DefaultNamespace keys the single persisted blob in every backend
const DefaultNamespace = "mgnrega_cache"

// Persister stores the whole cache map as one JSON blob
type Persister interface {
	// Load returns ErrNoBlob when nothing was saved yet
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, blob []byte) error
}

// ErrNoBlob reports that no snapshot exists, the cache starts empty
var ErrNoBlob = perr.New(perr.ErrorCodeNotFound, "cache blob not found")
