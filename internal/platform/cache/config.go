package cache

import (
	"context"
	"time"

	"mgnrega/internal/platform/config"
	perr "mgnrega/internal/platform/errors"
	"mgnrega/internal/platform/store"
)

// Backend names accepted by MGNREGA_CACHE_BACKEND
const (
	BackendFile  = "file"
	BackendPG    = "pg"
	BackendMongo = "mongo"
)

// Settings is the cache section of the environment
type Settings struct {
	TTL         time.Duration
	Backend     string
	Path        string
	Namespace   string
	Collection  string
	StmtTimeout time.Duration
}

// SettingsFrom reads MGNREGA_CACHE_* from root
func SettingsFrom(root config.Conf) Settings {
	c := root.Prefix("MGNREGA_CACHE_")
	return Settings{
		TTL:         c.MayDuration("TTL", DefaultTTL),
		Backend:     c.MayEnum("BACKEND", BackendFile, BackendFile, BackendPG, BackendMongo),
		Path:        c.MayString("PATH", "./.cache/"+DefaultNamespace+".json"),
		Namespace:   c.MayString("NAMESPACE", DefaultNamespace),
		Collection:  root.Prefix("SERVICE_MONGO_").MayString("COLLECTION", DefaultCollection),
		StmtTimeout: c.MayDuration("STMT_TIMEOUT", 5*time.Second),
	}
}

// Persister builds the configured backend from the opened store.
// The pg backend creates its table on the way up
func (s Settings) Persister(ctx context.Context, st *store.Store) (Persister, error) {
	switch s.Backend {
	case "", BackendFile:
		return NewFilePersister(s.Path), nil
	case BackendPG:
		if st == nil || st.PG == nil {
			return nil, perr.InvalidArgf("cache backend pg needs SERVICE_PGSQL_DBURL")
		}
		p := NewPGPersister(st.PG, s.Namespace, s.StmtTimeout)
		if err := p.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return p, nil
	case BackendMongo:
		if st == nil || st.Mongo == nil {
			return nil, perr.InvalidArgf("cache backend mongo needs SERVICE_MONGO_URI")
		}
		return NewMongoPersister(st.Mongo.Collection(s.Collection), s.Namespace), nil
	default:
		return nil, perr.InvalidArgf("unknown cache backend %q", s.Backend)
	}
}
