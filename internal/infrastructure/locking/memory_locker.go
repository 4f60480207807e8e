package locking

import (
	"context"
	"sync"
	"time"

	"github.com/vendorsync/backend/internal/domain/shared"
)

// MemoryLocker implements shared.Locker with an in-process map. It is
// suitable for single node deployments and tests; multi node setups
// need the Redis locker.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]time.Time
}

// NewMemoryLocker creates a new MemoryLocker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]time.Time)}
}

// TryAcquire attempts to take the lock without blocking
func (l *MemoryLocker) TryAcquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if expiry, held := l.locks[key]; held && time.Now().Before(expiry) {
		return false, nil
	}
	l.locks[key] = time.Now().Add(ttl)
	return true, nil
}

// Release releases the lock. Releasing an unheld lock is a no-op.
func (l *MemoryLocker) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.locks, key)
	return nil
}

// Ensure MemoryLocker implements Locker
var _ shared.Locker = (*MemoryLocker)(nil)
