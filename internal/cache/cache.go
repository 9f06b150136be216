// Package cache holds short-lived copies of backend responses (quiz list,
// leaderboard) so screens can re-render without refetching.
package cache

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a byte-oriented TTL cache.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Loader fills a Cache from a loader function on miss. Concurrent misses
// for the same key share one load.
type Loader struct {
	cache Cache
	ttl   time.Duration
	sf    singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewLoader wraps c. A ttl of zero or less disables caching.
func NewLoader(c Cache, ttl time.Duration) *Loader {
	return &Loader{
		cache: c,
		ttl:   ttl,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Invalidate drops keys from the cache.
func (l *Loader) Invalidate(ctx context.Context, keys ...string) error {
	if l == nil || l.cache == nil {
		return nil
	}
	return l.cache.Delete(ctx, keys...)
}

// Fetch returns the cached value for key, or calls load and caches its
// result as JSON. Cache errors degrade to a direct load.
func Fetch[T any](ctx context.Context, l *Loader, key string, load func(context.Context) (T, error)) (T, error) {
	if l == nil || l.cache == nil || l.ttl <= 0 {
		return load(ctx)
	}
	if v, ok := lookup[T](ctx, l.cache, key); ok {
		return v, nil
	}

	res, err, _ := l.sf.Do(key, func() (any, error) {
		// Re-check cache in case another goroutine filled it.
		if v, ok := lookup[T](ctx, l.cache, key); ok {
			return v, nil
		}
		v, err := load(ctx)
		if err != nil {
			return v, err
		}
		if raw, err := json.Marshal(v); err == nil {
			_ = l.cache.Set(ctx, key, raw, l.ttlWithJitter())
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

func lookup[T any](ctx context.Context, c Cache, key string) (T, bool) {
	var v T
	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false
	}
	return v, true
}

func (l *Loader) ttlWithJitter() time.Duration {
	jitterMax := int64(l.ttl) / 10
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ttl + time.Duration(l.rnd.Int63n(jitterMax+1))
}
