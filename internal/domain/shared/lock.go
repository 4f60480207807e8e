package shared

import (
	"context"
	"time"
)

// Locker serializes work on a named resource across workers. Implementations
// must be safe for concurrent use.
type Locker interface {
	// TryAcquire attempts to take the lock without blocking. It returns
	// false when the lock is held elsewhere. The TTL bounds how long a
	// crashed holder can keep the lock.
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release releases a lock previously acquired with TryAcquire
	Release(ctx context.Context, key string) error
}
