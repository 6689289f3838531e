package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ReleaseFunc releases a held lock. Safe to call once.
type ReleaseFunc func(ctx context.Context) error

// Locker grants short-lived exclusive ownership of a key
type Locker interface {
	// TryLock returns ok=false when another holder owns key
	TryLock(ctx context.Context, key string, ttl time.Duration) (release ReleaseFunc, ok bool, err error)
}

// compare-and-delete so an expired holder cannot release a newer owner's lock
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker implements Locker with SET NX PX
type RedisLocker struct {
	client redis.UniversalClient
	prefix string
}

var _ Locker = (*RedisLocker)(nil)

// NewRedisLocker creates a Redis-backed locker; keys are namespaced with prefix
func NewRedisLocker(client redis.UniversalClient, prefix string) *RedisLocker {
	return &RedisLocker{client: client, prefix: prefix}
}

func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (ReleaseFunc, bool, error) {
	fullKey := l.prefix + key
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire lock %s: %w", fullKey, err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{fullKey}, token).Err(); err != nil {
			return fmt.Errorf("failed to release lock %s: %w", fullKey, err)
		}
		return nil
	}
	return release, true, nil
}

// MemoryLocker implements Locker on a MemoryStore for single-instance deployments
type MemoryLocker struct {
	store  *MemoryStore
	prefix string
}

var _ Locker = (*MemoryLocker)(nil)

// NewMemoryLocker creates an in-process locker
func NewMemoryLocker(store *MemoryStore, prefix string) *MemoryLocker {
	return &MemoryLocker{store: store, prefix: prefix}
}

func (l *MemoryLocker) TryLock(_ context.Context, key string, ttl time.Duration) (ReleaseFunc, bool, error) {
	fullKey := l.prefix + key
	token := uuid.NewString()

	if !l.store.SetNX(fullKey, token, ttl) {
		return nil, false, nil
	}
	return func(context.Context) error {
		l.store.DeleteIf(fullKey, token)
		return nil
	}, true, nil
}
