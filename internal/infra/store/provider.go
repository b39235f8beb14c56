package store

import (
	"context"
	"log/slog"

	"cloudburst/config"
	"cloudburst/internal/domain/constants"
	"cloudburst/internal/domain/repository"
	"cloudburst/internal/infra/metrics"
	"cloudburst/internal/infra/persistence/postgres"
	"cloudburst/internal/infra/store/memory"
	"cloudburst/internal/infra/store/rtdb"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Params holds dependencies for the record store, injected by Fx
type Params struct {
	fx.In

	Lc      fx.Lifecycle
	Ctx     context.Context
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// NewRecordStore opens the backend named by store.provider
func NewRecordStore(params Params) (repository.RecordStore, error) {
	cfg := params.Config.Store
	logger := params.Logger.With(slog.String("component", "record_store"))

	provider := constants.StoreProviderMemory
	if cfg != nil && cfg.Provider != "" {
		provider = cfg.Provider
	}

	var backend repository.RecordStore

	switch provider {
	case constants.StoreProviderMemory:
		logger.Warn("Using in-memory record store, data is lost on restart")

		backend = memory.New()

	case constants.StoreProviderFirebase:
		if cfg.Firebase == nil {
			return nil, errors.New("store.firebase is required for firebase provider")
		}
		logger.Info("Using Firebase Realtime Database record store",
			slog.String("database_url", cfg.Firebase.DatabaseURL),
		)

		rtdbStore, err := rtdb.New(params.Ctx, rtdb.Options{
			DatabaseURL:     cfg.Firebase.DatabaseURL,
			ProjectID:       cfg.Firebase.ProjectID,
			CredentialsPath: cfg.Firebase.CredentialsPath,
			PollInterval:    cfg.PollInterval,
		}, logger)
		if err != nil {
			return nil, err
		}
		backend = rtdbStore

	case constants.StoreProviderPostgres:
		pgStore, err := newPostgresStore(params, logger)
		if err != nil {
			return nil, err
		}
		backend = pgStore

	default:
		return nil, errors.Errorf("unknown store provider: %s", provider)
	}

	return NewInstrumentedStore(backend, params.Metrics, logger), nil
}

func newPostgresStore(params Params, logger *slog.Logger) (*postgres.RecordStore, error) {
	cfg := params.Config.Store
	if cfg.Postgres == nil {
		return nil, errors.New("store.postgres is required for postgres provider")
	}

	db, err := postgres.Open(cfg.Postgres, params.Config.Env.Debug, logger)
	if err != nil {
		return nil, err
	}

	pgStore := postgres.NewRecordStore(db, cfg.PollInterval, logger)
	monitorCtx, cancelMonitor := context.WithCancel(context.WithoutCancel(params.Ctx))

	params.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := pgStore.Ping(ctx, monitorCtx); err != nil {
				return err
			}
			if cfg.Postgres.AutoMigrate {
				return pgStore.Migrate(ctx)
			}

			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancelMonitor()
			logger.Info("Closing PostgreSQL record store")

			return pgStore.Close()
		},
	})

	logger.Info("Using PostgreSQL record store")

	return pgStore, nil
}

// Module provides the record store FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewRecordStore),
)
