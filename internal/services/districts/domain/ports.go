package domain

import "context"

// ServicePort is consumed by handlers, the ingest command, and other modules
type ServicePort interface {
	Records(ctx context.Context, state string) ([]DistrictRecord, error)
	District(ctx context.Context, state, district string) (DistrictRecord, error)
	Compare(ctx context.Context, state string, districts []string) ([]DistrictRecord, error)
	StateSummary(ctx context.Context, state string) (StateSummary, error)
	DistrictNames(ctx context.Context, state string) ([]string, error)
}

// AdminPort clears and inspects the cache
type AdminPort interface {
	Invalidate(ctx context.Context, key string) InvalidateResult
	InvalidateAll(ctx context.Context) InvalidateResult
	CacheInfo() CacheInfo
}

// Source yields the raw csv export
type Source interface {
	Fetch(ctx context.Context) (string, error)
}

// CacheStats is the cross module port meta reads
type CacheStats interface {
	Entries() int
}

// WarmPort lets background workers keep a state's standing entries fresh
type WarmPort interface {
	Stale(state string) bool
	Warm(ctx context.Context, state string) error
}
