package repository

import (
	"context"

	"cloudburst/internal/domain/entity"
)

// NodeRepository persists nodes under nodes/{id}.
type NodeRepository interface {
	// Exists reports whether a node with id is registered.
	Exists(ctx context.Context, id string) (bool, error)

	// Create writes a whole node record, replacing anything at its path.
	Create(ctx context.Context, node *entity.Node) error

	// FindByID returns the node, or nil when it does not exist.
	FindByID(ctx context.Context, id string) (*entity.Node, error)

	// List returns every node ordered by id.
	List(ctx context.Context) ([]*entity.Node, error)

	// UpdateMetadata merges fields into the node metadata.
	UpdateMetadata(ctx context.Context, id string, fields map[string]any) error

	// Delete removes the node and everything under it.
	Delete(ctx context.Context, id string) error

	// SetRealtime overwrites the latest sensor snapshot.
	SetRealtime(ctx context.Context, id string, snapshot *entity.SensorSnapshot) error

	// AddHistory stores a sample under its millisecond timestamp.
	AddHistory(ctx context.Context, id string, at entity.Millis, entry *entity.HistoryEntry) error

	// RemoveHistory deletes the given history keys of a node.
	RemoveHistory(ctx context.Context, id string, keys []string) error

	// LinkAlert writes the alert back-reference under the node.
	LinkAlert(ctx context.Context, id string, ref *entity.NodeAlertRef) error

	// UpdateAlertRef merges fields into an existing back-reference.
	UpdateAlertRef(ctx context.Context, id, alertID string, fields map[string]any) error
}
