package ratelimit

import (
	"context"
	"log/slog"

	"library/config"
	"library/internal/domain/lifecycle"
	"library/internal/domain/service"
	"library/internal/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New provides the login throttle. A disabled throttle never opens a Redis connection.
func New(params Params) service.LoginThrottle {
	cfg := params.Config.LoginThrottle
	if cfg == nil || !cfg.Enabled {
		params.Logger.Info("Login throttle disabled")

		return NopLoginThrottle{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx).Err(); err != nil {
				return errors.Wrap(err, "failed to ping Redis")
			}
			params.Logger.Info("Login throttle connected", slog.String("addr", cfg.Redis.Addr))

			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return NewRedisLoginThrottle(client, cfg.MaxAttempts, cfg.Window)
}
