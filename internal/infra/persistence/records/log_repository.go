package records

import (
	"context"
	"sort"

	"cloudburst/internal/domain/constants"
	"cloudburst/internal/domain/entity"
	"cloudburst/internal/domain/repository"
)

type logRepository struct {
	store repository.RecordStore
}

// NewLogRepository is the constructor for logRepository.
func NewLogRepository(store repository.RecordStore) repository.LogRepository {
	return &logRepository{store: store}
}

func (repo *logRepository) Append(ctx context.Context, entry *entity.LogEntry) error {
	path, err := recordPath(constants.CollectionLogs, entry.ID)
	if err != nil {
		return err
	}

	return storeError(repo.store.Set(ctx, path, entry), "failed to append log entry")
}

// Recent relies on log ids sorting by creation time, so the last n keys are
// the newest n entries.
func (repo *logRepository) Recent(ctx context.Context, n int) ([]*entity.LogEntry, error) {
	snap, err := repo.store.GetLast(ctx, constants.CollectionLogs, n)
	if err != nil {
		return nil, storeError(err, "failed to read logs")
	}

	entries := make([]*entity.LogEntry, 0)
	err = decodeChildren(snap, func(key string, entry *entity.LogEntry) {
		entry.ID = key
		entries = append(entries, entry)
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Timestamp != entries[j].Timestamp {
			return entries[i].Timestamp > entries[j].Timestamp
		}

		return entries[i].ID > entries[j].ID
	})

	return entries, nil
}
