package repository

import (
	"context"

	"cloudburst/internal/domain/entity"
)

// LogRepository appends audit entries under logs/{id}.
type LogRepository interface {
	// Append stores a new entry. Entries are never modified.
	Append(ctx context.Context, entry *entity.LogEntry) error

	// Recent returns the last n entries, newest first.
	Recent(ctx context.Context, n int) ([]*entity.LogEntry, error)
}
