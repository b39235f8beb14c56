package usecase

import (
	"context"

	"cloudburst/internal/domain/entity"
)

// ContactInput is a contact as entered by an operator
type ContactInput struct {
	Name                   string
	Phone                  string
	Email                  string
	AssociatedNodes        []string
	NotificationPreference entity.NotificationPreference
}

// ContactUsecase defines emergency contact management
type ContactUsecase interface {
	Create(ctx context.Context, input *ContactInput) (*entity.Contact, error)
	Update(ctx context.Context, contactID string, input *ContactInput) (*entity.Contact, error)
	Delete(ctx context.Context, contactID string) error

	// List returns contacts sorted by name
	List(ctx context.Context) ([]*entity.Contact, error)
}
