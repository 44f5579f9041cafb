// Package ops serves the operational endpoints: Prometheus metrics and a health check.
package ops

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"library/config"
	"library/internal/delivery"
	"library/internal/delivery/middleware"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/lifecycle"
	"library/internal/errors"
	logs "library/internal/infra/log"
	"library/internal/usecase"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

type opsServer struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
}

// ServerParams holds dependencies for the ops server, injected by Fx.
type ServerParams struct {
	fx.In

	Lc       fx.Lifecycle
	Cfg      *config.Config
	Logger   *slog.Logger
	Gatherer prometheus.Gatherer
	Accounts usecase.AccountUsecase
}

type healthResponse struct {
	Status string                  `json:"status"`
	Users  int64                   `json:"users"`
	Error  *domainerrors.ErrorInfo `json:"error,omitempty"`
}

func NewServer(params ServerParams) delivery.Delivery {
	srv := &opsServer{
		cfg:    params.Cfg,
		logger: params.Logger,
		server: newEcho(params),
	}

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv
}

func newEcho(params ServerParams) *echo.Echo {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true

	echoServer.Use(echomiddleware.Recover())
	echoServer.Use(middleware.NewRequestIDMiddleware(params.Logger).Process)
	echoServer.Use(middleware.NewLoggerMiddleware(params.Logger, params.Cfg).Handle)

	echoServer.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(params.Gatherer, promhttp.HandlerOpts{})))
	echoServer.GET("/healthz", healthHandler(params.Accounts, params.Logger))

	return echoServer
}

// healthHandler reports healthy when the user store answers a count query.
func healthHandler(accounts usecase.AccountUsecase, logger *slog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		users, err := accounts.Count(ctx)
		if err != nil {
			logs.GetLoggerOrDefault(ctx, logger).Error("Health check failed", slog.Any("error", err))

			return c.JSON(http.StatusServiceUnavailable, healthResponse{
				Status: "unavailable",
				Error:  domainerrors.InfoOf(err),
			})
		}

		return c.JSON(http.StatusOK, healthResponse{Status: "ok", Users: users})
	}
}

func (s *opsServer) Serve(_ context.Context) error {
	if !s.cfg.Metrics.Enabled {
		s.logger.Info("Ops HTTP server disabled")

		return nil
	}

	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.Metrics.Port))
	s.logger.Info("Starting ops HTTP server", slog.String("host_port", hostPort))
	if err := s.server.Start(hostPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}

	return nil
}

func (s *opsServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down ops HTTP server")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
