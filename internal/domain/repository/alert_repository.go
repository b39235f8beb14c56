package repository

import (
	"context"

	"cloudburst/internal/domain/entity"
)

// AlertRepository persists alerts under alerts/{id}.
type AlertRepository interface {
	// Save overwrites the alert record.
	Save(ctx context.Context, alert *entity.Alert) error

	// FindByID returns the alert, or nil when it does not exist.
	FindByID(ctx context.Context, id string) (*entity.Alert, error)

	// List returns all alerts, newest first.
	List(ctx context.Context) ([]*entity.Alert, error)

	// Update merges fields into the alert record.
	Update(ctx context.Context, id string, fields map[string]any) error
}
