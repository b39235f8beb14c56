package usecase

import (
	"context"
	"encoding/json"
)

// ResetConfirmation must be supplied to wipe the store
const ResetConfirmation = "DELETE"

// DataSnapshot is the export file format. Each collection is kept as raw JSON
// so that an import writes back exactly what was exported.
type DataSnapshot struct {
	Nodes      json.RawMessage `json:"nodes"`
	Alerts     json.RawMessage `json:"alerts"`
	Contacts   json.RawMessage `json:"contacts"`
	Logs       json.RawMessage `json:"logs"`
	ExportDate string          `json:"exportDate"`
}

// ArchiveResult names the stored export
type ArchiveResult struct {
	Key        string `json:"key"`
	ExportDate string `json:"exportDate"`
}

// ImportResult lists the collections that were overwritten
type ImportResult struct {
	Collections []string `json:"collections"`
}

// CleanupResult reports a history cleanup
type CleanupResult struct {
	Deleted int `json:"deletedCount"`
	Days    int `json:"cleanupDays"`
}

// DataUsecase defines the administrative data operations
type DataUsecase interface {
	// Export reads nodes, alerts, contacts and logs
	Export(ctx context.Context) (*DataSnapshot, error)

	// Archive exports and stores the snapshot in the export bucket
	Archive(ctx context.Context) (*ArchiveResult, error)

	// Import overwrites each collection present in data
	Import(ctx context.Context, data []byte) (*ImportResult, error)

	// Cleanup removes history entries older than days
	Cleanup(ctx context.Context, days int) (*CleanupResult, error)

	// Reset removes nodes, alerts, contacts and logs
	Reset(ctx context.Context, confirmation string) error
}
