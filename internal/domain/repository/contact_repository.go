package repository

import (
	"context"

	"cloudburst/internal/domain/entity"
)

// ContactRepository persists contacts under contacts/{id}.
type ContactRepository interface {
	Save(ctx context.Context, contact *entity.Contact) error
	FindByID(ctx context.Context, id string) (*entity.Contact, error)
	List(ctx context.Context) ([]*entity.Contact, error)
	Delete(ctx context.Context, id string) error
}
