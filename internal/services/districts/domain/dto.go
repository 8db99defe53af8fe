package domain

import "time"

// CompareInput names the districts to line up side by side
type CompareInput struct {
	Districts []string `json:"districts" validate:"required,min=1,max=20,dive,notblank" example:"PUNE,NASHIK"`
}

// InvalidateInput selects one cache key; empty clears everything
type InvalidateInput struct {
	Key string `json:"key" validate:"omitempty,max=512" example:"district_MAHARASHTRA_PUNE"`
}

// InvalidateResult reports what an invalidation did
type InvalidateResult struct {
	Key       string `json:"key,omitempty"`
	All       bool   `json:"all"`
	Existed   bool   `json:"existed"`
	Remaining int    `json:"remaining"`
}

// CacheKey is one cached key and its age
type CacheKey struct {
	Key      string    `json:"key"`
	StoredAt time.Time `json:"storedAt"`
	Fresh    bool      `json:"fresh"`
}

// CacheInfo is the admin view of the cache
type CacheInfo struct {
	TTL   string     `json:"ttl" example:"24h0m0s"`
	Count int        `json:"count"`
	Keys  []CacheKey `json:"keys"`
}
