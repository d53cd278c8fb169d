package memory

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Throttle admits at most one event per key per interval inside this process.
type Throttle struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewThrottle(cleanup time.Duration) *Throttle {
	return &Throttle{cache: cache.New(cache.NoExpiration, cleanup)}
}

// Allow reports whether an event for key at now is at least interval after the last
// admitted one, and records it if so. The compare and the write happen under one lock.
func (t *Throttle) Allow(ctx context.Context, key string, now time.Time, interval time.Duration) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if v, ok := t.cache.Get(key); ok {
		last := v.(time.Time)
		if now.Sub(last) < interval {
			return false, nil
		}
	}
	t.cache.Set(key, now, interval)
	return true, nil
}
