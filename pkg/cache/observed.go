package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/plotline/pkg/observability"
)

// Observed reports hits, misses and writes of an inner cache to the
// registered cache hooks. The key type is the key's prefix ("frame",
// "graph"), after any scope.
type Observed struct {
	Cache
}

// NewObserved wraps c.
func NewObserved(c Cache) *Observed { return &Observed{Cache: c} }

// Get reads through to the inner cache and records the outcome.
func (o *Observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := o.Cache.Get(ctx, key)
	if err != nil {
		return data, ok, err
	}
	if ok {
		observability.Cache().OnCacheHit(ctx, keyType(key))
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType(key))
	}
	return data, ok, nil
}

// Set writes through and records the size.
func (o *Observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := o.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

// Unwrap returns the inner cache.
func (o *Observed) Unwrap() Cache { return o.Cache }

func keyType(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return "unknown"
	}
	return parts[len(parts)-2]
}
