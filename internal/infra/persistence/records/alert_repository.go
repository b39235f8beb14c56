package records

import (
	"context"
	"sort"

	"cloudburst/internal/domain/constants"
	"cloudburst/internal/domain/entity"
	"cloudburst/internal/domain/repository"
)

type alertRepository struct {
	store repository.RecordStore
}

// NewAlertRepository is the constructor for alertRepository.
func NewAlertRepository(store repository.RecordStore) repository.AlertRepository {
	return &alertRepository{store: store}
}

func (repo *alertRepository) Save(ctx context.Context, alert *entity.Alert) error {
	path, err := recordPath(constants.CollectionAlerts, alert.ID)
	if err != nil {
		return err
	}

	return storeError(repo.store.Set(ctx, path, alert), "failed to save alert")
}

func (repo *alertRepository) FindByID(ctx context.Context, id string) (*entity.Alert, error) {
	path, err := recordPath(constants.CollectionAlerts, id)
	if err != nil {
		return nil, err
	}

	snap, err := repo.store.Get(ctx, path)
	if err != nil {
		return nil, storeError(err, "failed to find alert")
	}
	if !snap.Exists() {
		return nil, nil
	}

	alert := &entity.Alert{}
	if err := snap.Decode(alert); err != nil {
		return nil, err
	}
	alert.ID = id

	return alert, nil
}

func (repo *alertRepository) List(ctx context.Context) ([]*entity.Alert, error) {
	snap, err := repo.store.Get(ctx, constants.CollectionAlerts)
	if err != nil {
		return nil, storeError(err, "failed to list alerts")
	}

	alerts := make([]*entity.Alert, 0)
	err = decodeChildren(snap, func(key string, alert *entity.Alert) {
		alert.ID = key
		alerts = append(alerts, alert)
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Timestamp != alerts[j].Timestamp {
			return alerts[i].Timestamp > alerts[j].Timestamp
		}

		return alerts[i].ID > alerts[j].ID
	})

	return alerts, nil
}

func (repo *alertRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	path, err := recordPath(constants.CollectionAlerts, id)
	if err != nil {
		return err
	}

	return storeError(repo.store.Update(ctx, path, fields), "failed to update alert")
}
