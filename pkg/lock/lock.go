// Package lock provides the Redis backed write lock that serializes asset
// mutations across server replicas.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	minBackoff = 25 * time.Millisecond
	maxBackoff = 400 * time.Millisecond
)

var ErrLockTimeout = errors.New("timeout acquiring write lock")

// DistributedLock is a SETNX lock with an owner token and a TTL.
type DistributedLock struct {
	client         redis.Cmdable
	lockKey        string
	lockTTL        time.Duration
	acquireTimeout time.Duration
}

// New creates a DistributedLock. ttl bounds how long a crashed holder can
// block others; acquireTimeout bounds how long Acquire waits.
func New(client redis.Cmdable, key string, ttl, acquireTimeout time.Duration) *DistributedLock {
	return &DistributedLock{
		client:         client,
		lockKey:        key,
		lockTTL:        ttl,
		acquireTimeout: acquireTimeout,
	}
}

// Acquire blocks with capped exponential backoff until the lock is held,
// the timeout passes or ctx ends. It returns the owner token for Release.
func (l *DistributedLock) Acquire(ctx context.Context) (string, error) {
	lockID := uuid.NewString()
	deadline := time.Now().Add(l.acquireTimeout)
	backoff := minBackoff

	for {
		ok, err := l.client.SetNX(ctx, l.lockKey, lockID, l.lockTTL).Result()
		if err != nil {
			return "", fmt.Errorf("redis setnx: %w", err)
		}
		if ok {
			return lockID, nil
		}
		if time.Now().After(deadline) {
			return "", fmt.Errorf("%w after %s", ErrLockTimeout, l.acquireTimeout)
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

// releaseScript deletes the key only while it still holds our token, so an
// expired holder never releases a lock someone else has since taken.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("del", KEYS[1])
else
    return 0
end
`)

// Release drops the lock if lockID still owns it.
func (l *DistributedLock) Release(ctx context.Context, lockID string) error {
	_, err := releaseScript.Run(ctx, l.client, []string{l.lockKey}, lockID).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
