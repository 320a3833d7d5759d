package throttle

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

type memoryLimiter struct {
	store *cache.Cache
}

// NewMemoryLimiter keeps throttle state in process.
func NewMemoryLimiter() Limiter {
	return &memoryLimiter{
		store: cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

func (l *memoryLimiter) Allow(_ context.Context, key string, window time.Duration) (bool, error) {
	if window <= 0 {
		return true, nil
	}
	// Add fails while an unexpired entry exists
	if err := l.store.Add(key, struct{}{}, window); err != nil {
		return false, nil
	}
	return true, nil
}

func (l *memoryLimiter) Release(_ context.Context, key string) error {
	l.store.Delete(key)
	return nil
}
