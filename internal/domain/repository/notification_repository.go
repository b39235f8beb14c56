package repository

import (
	"context"

	"cloudburst/internal/domain/entity"
)

// NotificationRepository persists notifications under notifications/{id}.
type NotificationRepository interface {
	Save(ctx context.Context, notification *entity.Notification) error

	// FindByID returns the notification, or nil when it does not exist.
	FindByID(ctx context.Context, id string) (*entity.Notification, error)

	// FindByAlert returns the notifications of an alert, newest first.
	FindByAlert(ctx context.Context, alertID string) ([]*entity.Notification, error)

	Update(ctx context.Context, id string, fields map[string]any) error
}
