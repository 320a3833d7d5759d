// Package throttle limits how often an action may happen per key.
package throttle

import (
	"context"
	"time"
)

// Limiter admits at most one event per key within a window.
type Limiter interface {
	// Allow records an event for key and reports whether it was admitted.
	Allow(ctx context.Context, key string, window time.Duration) (bool, error)
	// Release forgets the event recorded for key so the next one is admitted.
	Release(ctx context.Context, key string) error
}
