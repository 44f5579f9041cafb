package ratelimit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"library/config"
	domainerrors "library/internal/domain/errors"
	"library/internal/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestRedisLoginThrottle_BlocksAfterMaxAttempts(t *testing.T) {
	_, client := newTestRedis(t)
	throttle := NewRedisLoginThrottle(client, 3, time.Minute)
	ctx := context.Background()

	for range 3 {
		require.NoError(t, throttle.Check(ctx, "ada@example.com"))
		require.NoError(t, throttle.RecordFailure(ctx, "ada@example.com"))
	}

	err := throttle.Check(ctx, "ada@example.com")
	assert.True(t, errors.Is(err, domainerrors.ErrTooManyAttempts))

	// Other identifiers keep their own budget.
	assert.NoError(t, throttle.Check(ctx, "grace@example.com"))
}

func TestRedisLoginThrottle_KeyIsCaseInsensitive(t *testing.T) {
	mr, client := newTestRedis(t)
	throttle := NewRedisLoginThrottle(client, 2, time.Minute)
	ctx := context.Background()

	require.NoError(t, throttle.RecordFailure(ctx, "Ada@Example.com"))
	require.NoError(t, throttle.RecordFailure(ctx, " ada@example.com"))

	value, err := mr.Get("login_fail:ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "2", value)
	assert.True(t, errors.Is(throttle.Check(ctx, "ADA@EXAMPLE.COM"), domainerrors.ErrTooManyAttempts))
}

func TestRedisLoginThrottle_WindowStartsAtFirstFailure(t *testing.T) {
	mr, client := newTestRedis(t)
	throttle := NewRedisLoginThrottle(client, 2, time.Minute)
	ctx := context.Background()

	require.NoError(t, throttle.RecordFailure(ctx, "ada@example.com"))
	assert.Equal(t, time.Minute, mr.TTL("login_fail:ada@example.com"))

	mr.FastForward(30 * time.Second)
	require.NoError(t, throttle.RecordFailure(ctx, "ada@example.com"))
	assert.Equal(t, 30*time.Second, mr.TTL("login_fail:ada@example.com"))
	assert.Error(t, throttle.Check(ctx, "ada@example.com"))

	mr.FastForward(31 * time.Second)
	assert.NoError(t, throttle.Check(ctx, "ada@example.com"))
}

func TestRedisLoginThrottle_Reset(t *testing.T) {
	mr, client := newTestRedis(t)
	throttle := NewRedisLoginThrottle(client, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, throttle.RecordFailure(ctx, "ada@example.com"))
	require.Error(t, throttle.Check(ctx, "ada@example.com"))

	require.NoError(t, throttle.Reset(ctx, "ada@example.com"))
	assert.False(t, mr.Exists("login_fail:ada@example.com"))
	assert.NoError(t, throttle.Check(ctx, "ada@example.com"))
}

func TestRedisLoginThrottle_Unavailable(t *testing.T) {
	mr, client := newTestRedis(t)
	throttle := NewRedisLoginThrottle(client, 3, time.Minute)
	ctx := context.Background()

	mr.Close()

	assert.True(t, errors.Is(throttle.Check(ctx, "ada@example.com"), domainerrors.ErrThrottleUnavailable))
	assert.True(t, errors.Is(throttle.RecordFailure(ctx, "ada@example.com"), domainerrors.ErrThrottleUnavailable))
	assert.True(t, errors.Is(throttle.Reset(ctx, "ada@example.com"), domainerrors.ErrThrottleUnavailable))
}

func TestNewRedisLoginThrottle_Defaults(t *testing.T) {
	_, client := newTestRedis(t)
	throttle := NewRedisLoginThrottle(client, 0, 0)

	assert.Equal(t, int64(config.DefaultMaxLoginAttempts), throttle.maxAttempts)
	assert.Equal(t, config.DefaultLoginWindow, throttle.window)
}

func TestNopLoginThrottle(t *testing.T) {
	var throttle NopLoginThrottle
	ctx := context.Background()

	for range 10 {
		assert.NoError(t, throttle.RecordFailure(ctx, "ada@example.com"))
	}
	assert.NoError(t, throttle.Check(ctx, "ada@example.com"))
	assert.NoError(t, throttle.Reset(ctx, "ada@example.com"))
}

func TestNew_Disabled(t *testing.T) {
	cfg := &config.Config{}
	cfg.ApplyDefaults()

	lc := fxtest.NewLifecycle(t)
	throttle := New(Params{Lifecycle: lc, Config: cfg, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	assert.IsType(t, NopLoginThrottle{}, throttle)
}

func TestNew_EnabledPingsOnStart(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := &config.Config{}
	cfg.ApplyDefaults()
	cfg.LoginThrottle.Enabled = true
	cfg.LoginThrottle.MaxAttempts = 1
	cfg.LoginThrottle.Redis.Addr = mr.Addr()

	lc := fxtest.NewLifecycle(t)
	throttle := New(Params{Lifecycle: lc, Config: cfg, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	lc.RequireStart()

	ctx := context.Background()
	require.NoError(t, throttle.RecordFailure(ctx, "ada@example.com"))
	assert.True(t, errors.Is(throttle.Check(ctx, "ada@example.com"), domainerrors.ErrTooManyAttempts))

	lc.RequireStop()
}
