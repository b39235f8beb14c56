package records

import (
	"context"
	"sort"

	"cloudburst/internal/domain/constants"
	"cloudburst/internal/domain/entity"
	"cloudburst/internal/domain/repository"
)

type nodeRepository struct {
	store repository.RecordStore
}

// NewNodeRepository is the constructor for nodeRepository.
func NewNodeRepository(store repository.RecordStore) repository.NodeRepository {
	return &nodeRepository{store: store}
}

func (repo *nodeRepository) Exists(ctx context.Context, id string) (bool, error) {
	path, err := recordPath(constants.CollectionNodes, id, "metadata")
	if err != nil {
		return false, err
	}

	snap, err := repo.store.Get(ctx, path)
	if err != nil {
		return false, storeError(err, "failed to check node")
	}

	return snap.Exists(), nil
}

func (repo *nodeRepository) Create(ctx context.Context, node *entity.Node) error {
	path, err := recordPath(constants.CollectionNodes, node.ID)
	if err != nil {
		return err
	}

	return storeError(repo.store.Set(ctx, path, node), "failed to create node")
}

func (repo *nodeRepository) FindByID(ctx context.Context, id string) (*entity.Node, error) {
	path, err := recordPath(constants.CollectionNodes, id)
	if err != nil {
		return nil, err
	}

	snap, err := repo.store.Get(ctx, path)
	if err != nil {
		return nil, storeError(err, "failed to find node")
	}
	if !snap.Exists() {
		return nil, nil
	}

	node := &entity.Node{}
	if err := snap.Decode(node); err != nil {
		return nil, err
	}
	node.ID = id

	return node, nil
}

func (repo *nodeRepository) List(ctx context.Context) ([]*entity.Node, error) {
	snap, err := repo.store.Get(ctx, constants.CollectionNodes)
	if err != nil {
		return nil, storeError(err, "failed to list nodes")
	}

	nodes := make([]*entity.Node, 0)
	err = decodeChildren(snap, func(key string, node *entity.Node) {
		node.ID = key
		nodes = append(nodes, node)
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	return nodes, nil
}

func (repo *nodeRepository) UpdateMetadata(ctx context.Context, id string, fields map[string]any) error {
	path, err := recordPath(constants.CollectionNodes, id, "metadata")
	if err != nil {
		return err
	}

	return storeError(repo.store.Update(ctx, path, fields), "failed to update node metadata")
}

func (repo *nodeRepository) Delete(ctx context.Context, id string) error {
	path, err := recordPath(constants.CollectionNodes, id)
	if err != nil {
		return err
	}

	return storeError(repo.store.Remove(ctx, path), "failed to delete node")
}

func (repo *nodeRepository) SetRealtime(ctx context.Context, id string, snapshot *entity.SensorSnapshot) error {
	path, err := recordPath(constants.CollectionNodes, id, "realtime")
	if err != nil {
		return err
	}

	return storeError(repo.store.Set(ctx, path, snapshot), "failed to store realtime reading")
}

func (repo *nodeRepository) AddHistory(ctx context.Context, id string, at entity.Millis, entry *entity.HistoryEntry) error {
	path, err := recordPath(constants.CollectionNodes, id, "history", at.Key())
	if err != nil {
		return err
	}

	return storeError(repo.store.Set(ctx, path, entry), "failed to store history entry")
}

func (repo *nodeRepository) RemoveHistory(ctx context.Context, id string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	path, err := recordPath(constants.CollectionNodes, id, "history")
	if err != nil {
		return err
	}

	fields := make(map[string]any, len(keys))
	for _, k := range keys {
		fields[k] = nil
	}

	return storeError(repo.store.Update(ctx, path, fields), "failed to remove history entries")
}

func (repo *nodeRepository) LinkAlert(ctx context.Context, id string, ref *entity.NodeAlertRef) error {
	path, err := recordPath(constants.CollectionNodes, id, "alerts", ref.AlertID)
	if err != nil {
		return err
	}

	return storeError(repo.store.Set(ctx, path, ref), "failed to link alert to node")
}

func (repo *nodeRepository) UpdateAlertRef(ctx context.Context, id, alertID string, fields map[string]any) error {
	path, err := recordPath(constants.CollectionNodes, id, "alerts", alertID)
	if err != nil {
		return err
	}

	return storeError(repo.store.Update(ctx, path, fields), "failed to update node alert reference")
}
