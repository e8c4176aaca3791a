// Package cache memoizes provider outcomes keyed by (provider, identifier).
//
// Failed outcomes are cached alongside successes so a failing identifier is
// not hammered on every interaction within the TTL window. Entries expire
// lazily on lookup; nothing is evicted proactively. Concurrent misses for
// the same key are coalesced into a single upstream call.
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/adapta-br/consulta-cnpj/internal/metrics"
)

// DefaultTTL is how long outcomes stay fresh.
const DefaultTTL = time.Hour

type entry struct {
	val any
	err error
}

// Cache is a TTL response cache with single-flight coalescing.
type Cache struct {
	store *gocache.Cache
	group singleflight.Group
}

// New creates a cache with the given TTL. A non-positive ttl falls back to
// DefaultTTL. The janitor is disabled so expiry is purely lazy.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: gocache.New(ttl, 0)}
}

// Lookup returns the cached outcome for (provider, id), or runs fn to
// produce one and caches the result — including a failed result. When
// several callers miss on the same key at once, exactly one upstream call
// is made and all callers receive its outcome.
func Lookup[T any](ctx context.Context, c *Cache, provider, id string, fn func(ctx context.Context) (T, error)) (T, error) {
	key := provider + ":" + id

	if v, ok := c.store.Get(key); ok {
		metrics.CacheEvents.WithLabelValues(provider, "hit").Inc()
		e := v.(entry)
		return castVal[T](e.val), e.err
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check under the flight: a concurrent caller may have
		// populated the key between the miss and the flight start.
		if v, ok := c.store.Get(key); ok {
			metrics.CacheEvents.WithLabelValues(provider, "hit").Inc()
			return v.(entry), nil
		}
		metrics.CacheEvents.WithLabelValues(provider, "miss").Inc()
		val, err := fn(ctx)
		e := entry{val: val, err: err}
		c.store.SetDefault(key, e)
		return e, nil
	})
	if err != nil {
		// Only possible if fn panicked inside singleflight.
		var zero T
		return zero, err
	}
	e := v.(entry)
	return castVal[T](e.val), e.err
}

// castVal tolerates a nil stored value for pointer/slice types.
func castVal[T any](v any) T {
	if t, ok := v.(T); ok {
		return t
	}
	var zero T
	return zero
}
