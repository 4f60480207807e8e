package locking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vendorsync/backend/internal/domain/shared"
)

// releaseScript deletes the lock only when this process still owns it,
// so an expired lock re-acquired elsewhere is never released by us.
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`

// RedisLocker implements shared.Locker on a Redis SET NX with TTL.
// Each acquisition stores a random token so Release is owner checked.
type RedisLocker struct {
	client *redis.Client
	mu     sync.Mutex
	tokens map[string]string
}

// NewRedisLocker creates a new RedisLocker
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{
		client: client,
		tokens: make(map[string]string),
	}
}

// TryAcquire attempts to take the lock without blocking
func (l *RedisLocker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}

	l.mu.Lock()
	l.tokens[key] = token
	l.mu.Unlock()
	return true, nil
}

// Release releases a lock previously acquired by this locker. Releasing
// a lock we do not hold is a no-op.
func (l *RedisLocker) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	token, held := l.tokens[key]
	delete(l.tokens, key)
	l.mu.Unlock()

	if !held {
		return nil
	}

	if err := l.client.Eval(ctx, releaseScript, []string{key}, token).Err(); err != nil {
		return fmt.Errorf("release lock %s: %w", key, err)
	}
	return nil
}

// Ensure RedisLocker implements Locker
var _ shared.Locker = (*RedisLocker)(nil)
