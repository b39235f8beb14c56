package usecase

import (
	"context"

	"cloudburst/internal/domain/entity"
)

// DefaultLogLimit is the number of entries returned when no limit is given
const DefaultLogLimit = 100

// LogQuery filters the audit log
type LogQuery struct {
	Limit  int
	Type   entity.LogType
	Search string
}

// LogUsecase defines audit log queries
type LogUsecase interface {
	// List returns the newest entries first
	List(ctx context.Context, query *LogQuery) ([]*entity.LogEntry, error)
}
