// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"time"
	"unicode/utf8"

	"cloudburst/internal/domain/entity"
	"cloudburst/internal/domain/repository"
)

// appendLog adds one audit entry.
func appendLog(ctx context.Context, repo repository.LogRepository, now time.Time, logType entity.LogType, message string, metadata map[string]any) error {
	return repo.Append(ctx, &entity.LogEntry{
		ID:        entity.NewID(entity.IDPrefixLog, now),
		Type:      logType,
		Message:   message,
		Timestamp: entity.MillisOf(now),
		Metadata:  metadata,
	})
}

// preview shortens s to n runes, marking the cut with "...".
func preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	return string([]rune(s)[:n]) + "..."
}
