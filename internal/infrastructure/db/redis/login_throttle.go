package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ThrottleConfig bounds failed logins per client.
type ThrottleConfig struct {
	MaxAttempts int
	Window      time.Duration
	Lock        time.Duration
}

// LoginThrottle counts failed logins per client key in Redis.
// Keys: login:fail:<client> (counter, expires after Window) and
// login:lock:<client> (present while the client is locked out).
type LoginThrottle struct {
	client *redis.Client
	cfg    ThrottleConfig
}

// NewLoginThrottle wraps client. Zero config values fall back to 5 attempts
// per 15 minutes with a 10 minute lock.
func NewLoginThrottle(client *redis.Client, cfg ThrottleConfig) *LoginThrottle {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}
	if cfg.Lock <= 0 {
		cfg.Lock = 10 * time.Minute
	}
	return &LoginThrottle{client: client, cfg: cfg}
}

// Locked returns the remaining lock time for key, or zero when unlocked.
func (t *LoginThrottle) Locked(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := t.client.PTTL(ctx, lockKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("throttle lock check: %w", err)
	}
	// PTTL reports -2 for a missing key and -1 for a key without expiry.
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

// RecordFailure increments the failure counter and sets the lock once the
// counter reaches MaxAttempts. It reports true for the attempt that locked key.
func (t *LoginThrottle) RecordFailure(ctx context.Context, key string) (bool, error) {
	var incr *redis.IntCmd
	_, err := t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, failKey(key))
		pipe.ExpireNX(ctx, failKey(key), t.cfg.Window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("throttle record failure: %w", err)
	}

	if incr.Val() < int64(t.cfg.MaxAttempts) {
		return false, nil
	}

	if err := t.client.Set(ctx, lockKey(key), "1", t.cfg.Lock).Err(); err != nil {
		return false, fmt.Errorf("throttle lock: %w", err)
	}
	if err := t.client.Del(ctx, failKey(key)).Err(); err != nil {
		return true, fmt.Errorf("throttle clear counter: %w", err)
	}
	return true, nil
}

// Reset clears both the counter and any lock for key.
func (t *LoginThrottle) Reset(ctx context.Context, key string) error {
	return t.client.Del(ctx, failKey(key), lockKey(key)).Err()
}

func failKey(client string) string { return "login:fail:" + client }
func lockKey(client string) string { return "login:lock:" + client }
