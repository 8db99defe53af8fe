package cache

import (
	"context"
	"encoding/json"

	perr "mgnrega/internal/platform/errors"
)

// GetAs is Get for a typed value, encoded as JSON in the cache
// an entry that no longer decodes into T is dropped and recomputed once
func GetAs[T any](ctx context.Context, c *Cache, key string, compute func(context.Context) (T, error)) (T, error) {
	fn := func(ctx context.Context) (json.RawMessage, error) {
		v, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "encode %q", key)
		}
		return b, nil
	}

	var out T
	for attempt := 0; ; attempt++ {
		raw, err := c.Get(ctx, key, fn)
		if err != nil {
			return out, err
		}
		err = json.Unmarshal(raw, &out)
		if err == nil {
			return out, nil
		}
		if attempt > 0 {
			return out, perr.Wrapf(err, perr.ErrorCodeJSON, "decode %q", key)
		}
		c.log.Warn().Err(err).Str("key", key).Msg("cached entry does not decode, recomputing")
		c.Clear(ctx, key)
		out = *new(T)
	}
}
