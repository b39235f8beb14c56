package impl

import (
	"context"
	"encoding/json"
	"log/slog"

	"cloudburst/config"
	deliverycontext "cloudburst/internal/delivery/context"
	"cloudburst/internal/domain/constants"
	domainerrors "cloudburst/internal/domain/errors"
	"cloudburst/internal/domain/repository"
	"cloudburst/internal/usecase"

	"go.uber.org/fx"
)

var watchableCollections = map[string]bool{
	constants.CollectionNodes:         true,
	constants.CollectionAlerts:        true,
	constants.CollectionContacts:      true,
	constants.CollectionNotifications: true,
	constants.CollectionLogs:          true,
}

type watchService struct {
	store    repository.RecordStore
	logLimit int
	logger   *slog.Logger
}

// WatchServiceParams holds dependencies for WatchService, injected by Fx.
type WatchServiceParams struct {
	fx.In

	Config *config.Config
	Store  repository.RecordStore
	Logger *slog.Logger
}

// NewWatchService is the constructor for watchService.
func NewWatchService(params WatchServiceParams) usecase.WatchUsecase {
	limit := usecase.DefaultLogLimit
	if params.Config.Logs != nil && params.Config.Logs.SubscriptionLimit > 0 {
		limit = params.Config.Logs.SubscriptionLimit
	}

	return &watchService{
		store:    params.Store,
		logLimit: limit,
		logger:   params.Logger,
	}
}

// Watch subscribes to a whole collection. The logs collection is limited to
// its newest entries.
func (s *watchService) Watch(ctx context.Context, collection string, fn func(json.RawMessage)) (repository.Subscription, error) {
	if !watchableCollections[collection] {
		return nil, domainerrors.ErrNotFound.WithDetails("unknown collection: " + collection)
	}

	limit := 0
	if collection == constants.CollectionLogs {
		limit = s.logLimit
	}

	sub, err := s.store.Subscribe(ctx, collection, limit, func(snap repository.Snapshot) {
		fn(snap.Raw())
	})
	if err != nil {
		return nil, domainerrors.NewStoreError(err, "failed to watch "+collection)
	}

	deliverycontext.LoggerFrom(ctx, s.logger).Debug("Watch started", slog.String("collection", collection), slog.Int("limit", limit))

	return sub, nil
}
