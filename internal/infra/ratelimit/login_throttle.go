// Package ratelimit counts failed logins so repeated guessing is blocked.
package ratelimit

import (
	"context"
	"strings"
	"time"

	"library/config"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/service"
	"library/internal/errors"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "login_fail:"

// RedisLoginThrottle keeps one counter per identifier. The counter expires
// window after the first failure, so the budget refills on a fixed schedule.
type RedisLoginThrottle struct {
	redis       redis.Cmdable
	maxAttempts int64
	window      time.Duration
}

var _ service.LoginThrottle = (*RedisLoginThrottle)(nil)

func NewRedisLoginThrottle(client redis.Cmdable, maxAttempts int, window time.Duration) *RedisLoginThrottle {
	if maxAttempts <= 0 {
		maxAttempts = config.DefaultMaxLoginAttempts
	}
	if window <= 0 {
		window = config.DefaultLoginWindow
	}

	return &RedisLoginThrottle{
		redis:       client,
		maxAttempts: int64(maxAttempts),
		window:      window,
	}
}

// Identifiers are emails, compared case-insensitively.
func (l *RedisLoginThrottle) key(identifier string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(identifier))
}

func (l *RedisLoginThrottle) Check(ctx context.Context, identifier string) error {
	count, err := l.redis.Get(ctx, l.key(identifier)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}

		return errors.Wrapf(domainerrors.ErrThrottleUnavailable, "get failure count: %v", err)
	}
	if count >= l.maxAttempts {
		return domainerrors.ErrTooManyAttempts
	}

	return nil
}

func (l *RedisLoginThrottle) RecordFailure(ctx context.Context, identifier string) error {
	key := l.key(identifier)

	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return errors.Wrapf(domainerrors.ErrThrottleUnavailable, "increment failure count: %v", err)
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
			return errors.Wrapf(domainerrors.ErrThrottleUnavailable, "set failure window: %v", err)
		}
	}

	return nil
}

func (l *RedisLoginThrottle) Reset(ctx context.Context, identifier string) error {
	if err := l.redis.Del(ctx, l.key(identifier)).Err(); err != nil {
		return errors.Wrapf(domainerrors.ErrThrottleUnavailable, "clear failure count: %v", err)
	}

	return nil
}

// NopLoginThrottle never blocks. It is used when throttling is disabled.
type NopLoginThrottle struct{}

var _ service.LoginThrottle = NopLoginThrottle{}

func (NopLoginThrottle) Check(context.Context, string) error         { return nil }
func (NopLoginThrottle) RecordFailure(context.Context, string) error { return nil }
func (NopLoginThrottle) Reset(context.Context, string) error         { return nil }
