package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired is returned by Acquire when the context ends before the
// lock could be taken.
var ErrNotAcquired = errors.New("lock not acquired")

// Locker serialises work on a key across processes.
type Locker interface {
	// Acquire blocks until the lock is held or ctx is done.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
	// TryAcquire returns acquired=false when someone else holds the lock.
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (release func(), acquired bool, err error)
}

const keyPrefix = "lock:"

// only delete the key while it still carries our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLock implements Locker with SET NX PX and a random holder token.
type RedisLock struct {
	client       *redis.Client
	pollInterval time.Duration
}

// NewRedisLock creates a lock backed by the given client.
func NewRedisLock(client *redis.Client) *RedisLock {
	return &RedisLock{client: client, pollInterval: 50 * time.Millisecond}
}

// Acquire polls until the key is free, the ttl bounds how long a crashed
// holder can block others.
func (l *RedisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	for {
		release, ok, err := l.TryAcquire(ctx, key, ttl)
		if err != nil {
			return nil, err
		}
		if ok {
			return release, nil
		}

		timer := time.NewTimer(l.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("acquire lock for %s: %w: %v", key, ErrNotAcquired, ctx.Err())
		case <-timer.C:
		}
	}
}

func (l *RedisLock) TryAcquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	token := uuid.New().String()
	ok, err := l.client.SetNX(ctx, keyPrefix+key, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock for %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			// ctx may already be cancelled when the caller releases
			_ = releaseScript.Run(context.Background(), l.client, []string{keyPrefix + key}, token).Err()
		})
	}
	return release, true, nil
}
