package sessioncore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisLockedUserTracker is a [LockedUserTracker] backed by a Redis
// failure counter per username. The counter carries a TTL equal to the
// configured lockout window, set on the first failure, so the record rolls
// off on its own; the Engine never decrements it.
type RedisLockedUserTracker struct {
	redis  redis.UniversalClient
	config LockoutConfig
}

// NewRedisLockedUserTracker creates a tracker using the given client and
// lockout policy.
func NewRedisLockedUserTracker(client redis.UniversalClient, cfg LockoutConfig) *RedisLockedUserTracker {
	return &RedisLockedUserTracker{redis: client, config: cfg}
}

func (t *RedisLockedUserTracker) key(username string) string {
	return "lck:" + username
}

// UserFor returns the failed-login record for username, or nil when no
// failures are on record inside the window.
func (t *RedisLockedUserTracker) UserFor(ctx context.Context, username string) (*LockedUser, error) {
	count, err := t.redis.Get(ctx, t.key(username)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrTrackerUnavailable, err)
	}

	return &LockedUser{
		Username:       username,
		FailedAttempts: int(count),
		Locked:         t.config.Threshold > 0 && count >= int64(t.config.Threshold),
	}, nil
}

// CreateUser records one more consecutive failure for username. When a
// record already exists the failure merges into it, so callers invoke
// CreateUser unconditionally inside the failure branch.
func (t *RedisLockedUserTracker) CreateUser(ctx context.Context, username string) error {
	if username == "" {
		return nil
	}

	count, err := t.redis.Incr(ctx, t.key(username)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTrackerUnavailable, err)
	}

	if count == 1 && t.config.Window > 0 {
		// TTL on first failure makes the counter a rolling window.
		if err := t.redis.Expire(ctx, t.key(username), t.config.Window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrTrackerUnavailable, err)
		}
	}

	return nil
}

// Remove clears the failed-login record for username. This is the explicit
// reset capability used after a successful authentication or a manual
// unlock.
func (t *RedisLockedUserTracker) Remove(ctx context.Context, username string) error {
	if username == "" {
		return nil
	}

	if err := t.redis.Del(ctx, t.key(username)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrTrackerUnavailable, err)
	}
	return nil
}
