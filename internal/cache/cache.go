// Package cache holds the short-lived catalog cache. Redis is used when configured;
// otherwise the sqlite CacheRepo fills the same role.
package cache

import (
	"context"
	"encoding/json"
	"time"

	applog "github.com/silver1953366/gravure-frontend/internal/log"
)

// Cache stores opaque values with a TTL. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Nop) Delete(context.Context, ...string) error                  { return nil }

// Fetch is cache-aside for JSON values: it returns the cached value when present and
// otherwise calls load and stores the result. Cache failures are logged and never
// fail the call.
func Fetch[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if raw, ok, err := c.Get(ctx, key); err != nil {
		applog.FromContext(ctx).Warn("cache.get_failed", "key", key, "err", err)
	} else if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		applog.FromContext(ctx).Warn("cache.corrupt_entry", "key", key)
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if raw, err := json.Marshal(v); err == nil {
		if err := c.Set(ctx, key, raw, ttl); err != nil {
			applog.FromContext(ctx).Warn("cache.set_failed", "key", key, "err", err)
		}
	}
	return v, nil
}
