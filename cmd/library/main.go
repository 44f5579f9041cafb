package main

import (
	"context"
	"log/slog"
	"os"

	"library/config"
	"library/internal/delivery"
	"library/internal/delivery/ops"
	"library/internal/infra/auth"
	logs "library/internal/infra/log"
	"library/internal/infra/metrics"
	"library/internal/infra/persistence/postgres"
	"library/internal/infra/ratelimit"
	"library/internal/usecase"
	"library/internal/usecase/impl"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

type prepareStoreParams struct {
	fx.In
	fx.Lifecycle

	DB       *gorm.DB
	Accounts usecase.AccountUsecase
	Logger   *slog.Logger
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		fx.Invoke(
			prepareStore,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
		newMetricsRegistry,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewPBKDF2HasherFromConfig,
			auth.NewDerivationPoolFromParams,
			ratelimit.New,
			newCredentialObserver,
		),
	)
}

// newMetricsRegistry builds the registry shared by the credential collectors and /metrics.
func newMetricsRegistry() (prometheus.Registerer, prometheus.Gatherer) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg, reg
}

// newCredentialObserver returns nil when metrics are disabled; the derivation pool then skips observation.
func newCredentialObserver(cfg *config.Config, reg prometheus.Registerer) (auth.Observer, error) {
	if cfg.Metrics == nil || !cfg.Metrics.Enabled {
		return nil, nil
	}

	return metrics.NewCredentialMetrics(reg, cfg.Metrics.Namespace)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAccountService,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				ops.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// prepareStore migrates the schema and creates the bootstrap librarian once the database is reachable.
func prepareStore(params prepareStoreParams) {
	params.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := postgres.Migrate(ctx, params.DB); err != nil {
				return err
			}
			params.Logger.Info("Schema migrated")

			return params.Accounts.BootstrapLibrarian(ctx)
		},
	})
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
