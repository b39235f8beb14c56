package records

import (
	"context"
	"sort"

	"cloudburst/internal/domain/constants"
	"cloudburst/internal/domain/entity"
	"cloudburst/internal/domain/repository"
)

type notificationRepository struct {
	store repository.RecordStore
}

// NewNotificationRepository is the constructor for notificationRepository.
func NewNotificationRepository(store repository.RecordStore) repository.NotificationRepository {
	return &notificationRepository{store: store}
}

func (repo *notificationRepository) Save(ctx context.Context, notification *entity.Notification) error {
	path, err := recordPath(constants.CollectionNotifications, notification.ID)
	if err != nil {
		return err
	}

	return storeError(repo.store.Set(ctx, path, notification), "failed to save notification")
}

func (repo *notificationRepository) FindByID(ctx context.Context, id string) (*entity.Notification, error) {
	path, err := recordPath(constants.CollectionNotifications, id)
	if err != nil {
		return nil, err
	}

	snap, err := repo.store.Get(ctx, path)
	if err != nil {
		return nil, storeError(err, "failed to find notification")
	}
	if !snap.Exists() {
		return nil, nil
	}

	notification := &entity.Notification{}
	if err := snap.Decode(notification); err != nil {
		return nil, err
	}
	notification.ID = id

	return notification, nil
}

func (repo *notificationRepository) FindByAlert(ctx context.Context, alertID string) ([]*entity.Notification, error) {
	snap, err := repo.store.Get(ctx, constants.CollectionNotifications)
	if err != nil {
		return nil, storeError(err, "failed to list notifications")
	}

	notifications := make([]*entity.Notification, 0)
	err = decodeChildren(snap, func(key string, n *entity.Notification) {
		if n.AlertID != alertID {
			return
		}
		n.ID = key
		notifications = append(notifications, n)
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(notifications, func(i, j int) bool {
		if notifications[i].Timestamp != notifications[j].Timestamp {
			return notifications[i].Timestamp > notifications[j].Timestamp
		}

		return notifications[i].ID > notifications[j].ID
	})

	return notifications, nil
}

func (repo *notificationRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	path, err := recordPath(constants.CollectionNotifications, id)
	if err != nil {
		return err
	}

	return storeError(repo.store.Update(ctx, path, fields), "failed to update notification")
}
