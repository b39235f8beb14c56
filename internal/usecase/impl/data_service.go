package impl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	deliverycontext "cloudburst/internal/delivery/context"
	"cloudburst/internal/domain/constants"
	"cloudburst/internal/domain/entity"
	domainerrors "cloudburst/internal/domain/errors"
	"cloudburst/internal/domain/repository"
	"cloudburst/internal/domain/service"
	"cloudburst/internal/errors"
	"cloudburst/internal/usecase"

	"go.uber.org/fx"
)

// exportDateLayout matches a JavaScript ISO timestamp.
const exportDateLayout = "2006-01-02T15:04:05.000Z"

// snapshotCollections are the collections an export carries, in write order.
var snapshotCollections = []string{
	constants.CollectionNodes,
	constants.CollectionAlerts,
	constants.CollectionContacts,
	constants.CollectionLogs,
}

var emptyObject = json.RawMessage("{}")

type dataService struct {
	store    repository.RecordStore
	nodeRepo repository.NodeRepository
	logRepo  repository.LogRepository
	archive  service.SnapshotArchive
	logger   *slog.Logger
	now      func() time.Time
}

// DataServiceParams holds dependencies for DataService, injected by Fx.
type DataServiceParams struct {
	fx.In

	Store    repository.RecordStore
	NodeRepo repository.NodeRepository
	LogRepo  repository.LogRepository
	Archive  service.SnapshotArchive
	Logger   *slog.Logger
}

// NewDataService is the constructor for dataService.
func NewDataService(params DataServiceParams) usecase.DataUsecase {
	return &dataService{
		store:    params.Store,
		nodeRepo: params.NodeRepo,
		logRepo:  params.LogRepo,
		archive:  params.Archive,
		logger:   params.Logger,
		now:      time.Now,
	}
}

func (s *dataService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerFrom(ctx, s.logger)
}

// Export reads each collection as stored. A missing collection exports as {}.
func (s *dataService) Export(ctx context.Context) (*usecase.DataSnapshot, error) {
	raws := make(map[string]json.RawMessage, len(snapshotCollections))
	for _, collection := range snapshotCollections {
		snap, err := s.store.Get(ctx, collection)
		if err != nil {
			return nil, domainerrors.NewStoreError(err, "failed to export "+collection)
		}

		raws[collection] = emptyObject
		if snap.Exists() {
			raws[collection] = snap.Raw()
		}
	}

	return &usecase.DataSnapshot{
		Nodes:      raws[constants.CollectionNodes],
		Alerts:     raws[constants.CollectionAlerts],
		Contacts:   raws[constants.CollectionContacts],
		Logs:       raws[constants.CollectionLogs],
		ExportDate: s.now().UTC().Format(exportDateLayout),
	}, nil
}

func (s *dataService) Archive(ctx context.Context) (*usecase.ArchiveResult, error) {
	if s.archive == nil || !s.archive.Enabled() {
		return nil, domainerrors.ErrArchiveNotConfigured
	}

	snapshot, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode snapshot")
	}

	key, err := s.archive.Put(ctx, fmt.Sprintf("cloudburst-%s.json", snapshot.ExportDate), data)
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("Snapshot archived", slog.String("key", key), slog.Int("bytes", len(data)))

	return &usecase.ArchiveResult{Key: key, ExportDate: snapshot.ExportDate}, nil
}

// Import overwrites every collection present in data and leaves the others
// untouched. It writes no audit entry so that export, import, export yields
// identical collections.
func (s *dataService) Import(ctx context.Context, data []byte) (*usecase.ImportResult, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domainerrors.ErrInvalidSnapshot.WithDetails(err.Error())
	}

	present := make([]string, 0, len(snapshotCollections))
	for _, collection := range snapshotCollections {
		raw, ok := doc[collection]
		if !ok || isNull(raw) {
			continue
		}
		if !isObject(raw) {
			return nil, domainerrors.ErrInvalidSnapshot.WithDetails(collection + " must be an object")
		}
		present = append(present, collection)
	}

	for _, collection := range present {
		if err := s.store.Set(ctx, collection, doc[collection]); err != nil {
			return nil, domainerrors.NewStoreError(err, "failed to import "+collection)
		}
	}

	s.log(ctx).Info("data_import", slog.Any("collections", present))

	return &usecase.ImportResult{Collections: present}, nil
}

// Cleanup removes history entries recorded before now minus days.
func (s *dataService) Cleanup(ctx context.Context, days int) (*usecase.CleanupResult, error) {
	if days <= 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("days must be positive")
	}

	nodes, err := s.nodeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	cutoff := entity.MillisOf(now.AddDate(0, 0, -days))
	deleted := 0

	for _, node := range nodes {
		var expired []string
		for key := range node.History {
			if at, ok := entity.ParseMillisKey(key); ok && at < cutoff {
				expired = append(expired, key)
			}
		}
		if len(expired) == 0 {
			continue
		}

		if err := s.nodeRepo.RemoveHistory(ctx, node.ID, expired); err != nil {
			return nil, err
		}
		deleted += len(expired)
	}

	err = appendLog(ctx, s.logRepo, now, entity.LogTypeDataCleanup,
		fmt.Sprintf("Cleaned up %d data points older than %d days", deleted, days),
		map[string]any{
			"deletedCount": deleted,
			"cleanupDays":  days,
		})
	if err != nil {
		return nil, err
	}

	return &usecase.CleanupResult{Deleted: deleted, Days: days}, nil
}

func (s *dataService) Reset(ctx context.Context, confirmation string) error {
	if confirmation != usecase.ResetConfirmation {
		return domainerrors.ErrResetNotConfirmed
	}

	for _, collection := range snapshotCollections {
		if err := s.store.Remove(ctx, collection); err != nil {
			return domainerrors.NewStoreError(err, "failed to reset "+collection)
		}
	}

	s.log(ctx).Warn("All data reset", slog.Any("collections", snapshotCollections))

	return nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)

	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)

	return len(trimmed) > 0 && trimmed[0] == '{'
}
