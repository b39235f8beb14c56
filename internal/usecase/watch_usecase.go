package usecase

import (
	"context"
	"encoding/json"

	"cloudburst/internal/domain/repository"
)

// WatchUsecase streams collection snapshots to live clients
type WatchUsecase interface {
	// Watch subscribes to a collection. fn receives the current value at once
	// and then every changed value until the subscription is closed.
	Watch(ctx context.Context, collection string, fn func(json.RawMessage)) (repository.Subscription, error)
}
