// Package cache is the keyed, time-bounded, persisted result cache that sits
// in front of every dataset computation. Fresh entries are served as is,
// misses are computed once per key no matter how many callers wait, and a
// failed recomputation falls back to the last good value when there is one.
package cache

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	perr "mgnrega/internal/platform/errors"
	"mgnrega/internal/platform/logger"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long an entry is served without recomputation
const DefaultTTL = 24 * time.Hour

// Entry is one cached computation result
type Entry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Compute produces the JSON payload for a key
type Compute func(ctx context.Context) (json.RawMessage, error)

// Result classifies how a Get was answered
type Result string

// Get outcomes reported to the Observer
const (
	ResultHit   Result = "hit"
	ResultMiss  Result = "miss"
	ResultStale Result = "stale"
	ResultError Result = "error"
)

// Observer receives cache outcomes, normally the prometheus recorder
type Observer interface {
	CacheResult(r Result)
	ComputeDuration(d time.Duration)
}

// Options configures a Cache
type Options struct {
	// TTL defaults to DefaultTTL
	TTL time.Duration
	// Now defaults to time.Now
	Now func() time.Time
	// Persister may be nil for a memory only cache
	Persister Persister
	Observer  Observer
	Logger    *logger.Logger
}

// Cache is safe for concurrent use
type Cache struct {
	ttl time.Duration
	now func() time.Time
	p   Persister
	obs Observer
	log *logger.Logger

	mu      sync.RWMutex
	entries map[string]Entry
	version uint64

	group singleflight.Group

	saveMu    sync.Mutex
	savedUpTo uint64
}

// New builds a cache and loads the persisted snapshot
// an unreadable or corrupt snapshot leaves the cache empty and is only logged
func New(ctx context.Context, opt Options) *Cache {
	c := &Cache{
		ttl:     opt.TTL,
		now:     opt.Now,
		p:       opt.Persister,
		obs:     opt.Observer,
		log:     opt.Logger,
		entries: map[string]Entry{},
	}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.log == nil {
		c.log = logger.Named("cache")
	}
	c.load(ctx)
	return c
}

func (c *Cache) load(ctx context.Context) {
	if c.p == nil {
		return
	}
	raw, err := c.p.Load(ctx)
	switch {
	case perr.IsCode(err, perr.ErrorCodeNotFound):
		c.log.Debug().Msg("no persisted cache, starting empty")
		return
	case err != nil:
		c.log.Warn().Err(err).Msg("persisted cache unreadable, starting empty")
		return
	}
	var entries map[string]Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		c.log.Warn().Err(err).Int("bytes", len(raw)).Msg("persisted cache corrupt, starting empty")
		return
	}
	for k, e := range entries {
		if k == "" || e.Timestamp.IsZero() || !json.Valid(e.Data) {
			c.log.Warn().Str("key", k).Msg("dropping malformed persisted entry")
			delete(entries, k)
		}
	}
	c.entries = entries
	c.log.Info().Int("entries", len(entries)).Msg("persisted cache loaded")
}

// TTL returns the freshness window
func (c *Cache) TTL() time.Duration { return c.ttl }

func (c *Cache) lookup(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *Cache) fresh(key string) (Entry, bool) {
	e, ok := c.lookup(key)
	if !ok || c.now().Sub(e.Timestamp) >= c.ttl {
		return Entry{}, false
	}
	return e, true
}

// Get returns the payload for key, computing it when absent or expired
// ctx bounds only this caller's wait; the computation itself keeps running so
// other waiters and later callers still get the stored result
func (c *Cache) Get(ctx context.Context, key string, compute Compute) (json.RawMessage, error) {
	if e, ok := c.fresh(key); ok {
		c.observe(ResultHit)
		return e.Data, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		return c.fill(context.WithoutCancel(ctx), key, compute)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(json.RawMessage), nil
	}
}

// fill runs inside the single flight for key
func (c *Cache) fill(ctx context.Context, key string, compute Compute) (json.RawMessage, error) {
	// a flight that finished just before this one started may have stored it
	if e, ok := c.fresh(key); ok {
		c.observe(ResultHit)
		return e.Data, nil
	}

	start := time.Now()
	data, err := compute(ctx)
	if c.obs != nil {
		c.obs.ComputeDuration(time.Since(start))
	}
	if err == nil && !json.Valid(data) {
		err = perr.JSONErrf("computed value for %q is not valid json", key)
	}
	if err != nil {
		if stale, ok := c.lookup(key); ok {
			c.observe(ResultStale)
			logger.C(ctx).Warn().Err(err).
				Str("key", key).
				Time("cached_at", stale.Timestamp).
				Msg("compute failed, serving stale entry")
			return stale.Data, nil
		}
		c.observe(ResultError)
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = Entry{Data: data, Timestamp: c.now()}
	c.version++
	c.mu.Unlock()
	c.observe(ResultMiss)

	c.persist(ctx)
	return data, nil
}

func (c *Cache) observe(r Result) {
	if c.obs != nil {
		c.obs.CacheResult(r)
	}
}

// persist writes the whole map; concurrent writers are serialized and an
// older snapshot never overwrites a newer one
func (c *Cache) persist(ctx context.Context) {
	if c.p == nil {
		return
	}
	c.mu.RLock()
	ver := c.version
	raw, err := json.Marshal(c.entries)
	c.mu.RUnlock()
	if err != nil {
		c.log.Error().Err(err).Msg("encode cache snapshot")
		return
	}

	c.saveMu.Lock()
	defer c.saveMu.Unlock()
	if ver < c.savedUpTo {
		return
	}
	if err := c.p.Save(ctx, raw); err != nil {
		c.log.Warn().Err(err).Int("bytes", len(raw)).Msg("persist cache failed")
		return
	}
	c.savedUpTo = ver
}

// Clear drops one key and persists; unknown keys are a no op
func (c *Cache) Clear(ctx context.Context, key string) {
	c.mu.Lock()
	if _, ok := c.entries[key]; !ok {
		c.mu.Unlock()
		return
	}
	delete(c.entries, key)
	c.version++
	c.mu.Unlock()
	c.persist(ctx)
}

// ClearAll drops every entry and persists the empty map
func (c *Cache) ClearAll(ctx context.Context) {
	c.mu.Lock()
	c.entries = map[string]Entry{}
	c.version++
	c.mu.Unlock()
	c.persist(ctx)
}

// Keys returns the cached keys sorted
func (c *Cache) Keys() []string {
	c.mu.RLock()
	out := make([]string, 0, len(c.entries))
	for k := range c.entries {
		out = append(out, k)
	}
	c.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Len returns the number of entries, fresh or stale
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Peek returns the entry for key without computing or checking age
func (c *Cache) Peek(key string) (Entry, bool) { return c.lookup(key) }

// IsFresh reports whether key would be served without recomputation
func (c *Cache) IsFresh(key string) bool {
	_, ok := c.fresh(key)
	return ok
}
