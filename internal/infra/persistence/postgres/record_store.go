package postgres

import (
	"context"
	"log/slog"
	"time"

	"cloudburst/internal/domain/repository"
	"cloudburst/internal/errors"
	"cloudburst/internal/infra/persistence/model"
	"cloudburst/internal/infra/store/poll"
	"cloudburst/internal/infra/store/tree"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ repository.RecordStore = (*RecordStore)(nil)

type recordKey struct {
	collection string
	key        string
}

// RecordStore maps the record tree onto the records table: the first path
// segment is the collection, the second the row key and anything deeper
// lives inside the row's JSONB document.
type RecordStore struct {
	db           *gorm.DB
	pollInterval time.Duration
	logger       *slog.Logger
}

// NewRecordStore wraps an open database.
func NewRecordStore(db *gorm.DB, pollInterval time.Duration, logger *slog.Logger) *RecordStore {
	return &RecordStore{db: db, pollInterval: pollInterval, logger: logger}
}

// Migrate creates or updates the records table.
func (s *RecordStore) Migrate(ctx context.Context) error {
	return errors.Wrap(s.db.WithContext(ctx).AutoMigrate(&model.RecordModel{}), "migrate records table")
}

// Ping checks connectivity and starts the pool monitor, which stops with ctx.
func (s *RecordStore) Ping(ctx context.Context, monitorCtx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(err, "failed to ping PostgreSQL")
	}

	go watchPool(monitorCtx, s.logger, sqlDB, poolSampleInterval)

	return nil
}

// Close releases the connection pool.
func (s *RecordStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(sqlDB.Close())
}

// Get reads the subtree at path.
func (s *RecordStore) Get(ctx context.Context, path string) (repository.Snapshot, error) {
	return s.GetLast(ctx, path, 0)
}

// GetLast reads the last n children of path in key order.
func (s *RecordStore) GetLast(ctx context.Context, path string, n int) (repository.Snapshot, error) {
	raw, err := s.read(ctx, tree.Split(path), n)
	if err != nil {
		return repository.Snapshot{}, err
	}

	return repository.NewSnapshot(path, raw), nil
}

// Set overwrites the subtree at path.
func (s *RecordStore) Set(ctx context.Context, path string, value any) error {
	normalized, err := tree.Normalize(value)
	if err != nil {
		return err
	}

	segs := tree.Split(path)

	return s.mutate(ctx, segs, func(root any) any {
		return tree.Set(root, segs, normalized)
	})
}

// Update merges fields into path.
func (s *RecordStore) Update(ctx context.Context, path string, fields map[string]any) error {
	normalized := make(map[string]any, len(fields))
	for k, v := range fields {
		n, err := tree.Normalize(v)
		if err != nil {
			return err
		}
		normalized[k] = n
	}

	segs := tree.Split(path)

	return s.mutate(ctx, segs, func(root any) any {
		return tree.Update(root, segs, normalized)
	})
}

// Remove deletes the subtree at path.
func (s *RecordStore) Remove(ctx context.Context, path string) error {
	segs := tree.Split(path)

	return s.mutate(ctx, segs, func(root any) any {
		return tree.Set(root, segs, nil)
	})
}

// Subscribe polls path and delivers every changed value.
func (s *RecordStore) Subscribe(ctx context.Context, path string, limitToLast int, fn repository.SnapshotFunc) (repository.Subscription, error) {
	segs := tree.Split(path)
	sub, err := poll.Start(ctx, path, s.pollInterval, func(ctx context.Context) ([]byte, error) {
		return s.read(ctx, segs, limitToLast)
	}, fn, s.logger)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (s *RecordStore) read(ctx context.Context, segs []string, limit int) ([]byte, error) {
	rows, err := s.load(s.db.WithContext(ctx), segs, false)
	if err != nil {
		return nil, err
	}

	root, err := toTree(rows)
	if err != nil {
		return nil, err
	}

	return tree.Encode(tree.LimitToLast(tree.Get(root, segs), limit))
}

// mutate applies op to the rows covered by segs inside one transaction.
func (s *RecordStore) mutate(ctx context.Context, segs []string, op func(root any) any) error {
	return errors.WithStack(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.load(tx, segs, true)
		if err != nil {
			return err
		}

		root, err := toTree(rows)
		if err != nil {
			return err
		}

		return s.persist(tx, segs, rows, op(root))
	}))
}

// load fetches the rows a path can touch: one row, one collection or everything.
func (s *RecordStore) load(db *gorm.DB, segs []string, forUpdate bool) ([]model.RecordModel, error) {
	query := db.Model(&model.RecordModel{})
	if len(segs) >= 1 {
		query = query.Where("collection = ?", segs[0])
	}
	if len(segs) >= 2 {
		query = query.Where("key = ?", segs[1])
	}
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var rows []model.RecordModel
	if err := query.Order("collection, key").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "load records")
	}

	return rows, nil
}

// persist writes the part of root inside the scope of segs back as rows,
// deleting rows that disappeared.
func (s *RecordStore) persist(tx *gorm.DB, segs []string, existing []model.RecordModel, root any) error {
	var collections map[string]any
	if root != nil {
		var ok bool
		if collections, ok = root.(map[string]any); !ok {
			return errors.New("record root must be an object")
		}
	}

	now := time.Now().UTC()
	desired := map[recordKey]bool{}
	var upserts []model.RecordModel

	for collection, value := range collections {
		if len(segs) >= 1 && collection != segs[0] {
			continue
		}
		docs, ok := value.(map[string]any)
		if !ok {
			return errors.Errorf("collection %q must be an object", collection)
		}

		for key, doc := range docs {
			if len(segs) >= 2 && key != segs[1] {
				continue
			}
			raw, err := tree.Encode(doc)
			if err != nil {
				return err
			}
			desired[recordKey{collection: collection, key: key}] = true
			upserts = append(upserts, model.RecordModel{
				Collection: collection,
				Key:        key,
				Data:       datatypes.JSON(raw),
				UpdatedAt:  now,
			})
		}
	}

	for _, row := range existing {
		if desired[recordKey{collection: row.Collection, key: row.Key}] {
			continue
		}
		if err := tx.Where("collection = ? AND key = ?", row.Collection, row.Key).
			Delete(&model.RecordModel{}).Error; err != nil {
			return errors.Wrapf(err, "delete record %s/%s", row.Collection, row.Key)
		}
	}

	if len(upserts) == 0 {
		return nil
	}

	return errors.Wrap(tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&upserts).Error, "upsert records")
}

func toTree(rows []model.RecordModel) (any, error) {
	root := map[string]any{}
	for _, row := range rows {
		doc, err := tree.Decode(row.Data)
		if err != nil {
			return nil, errors.Wrapf(err, "decode record %s/%s", row.Collection, row.Key)
		}
		if doc == nil {
			continue
		}

		docs, ok := root[row.Collection].(map[string]any)
		if !ok {
			docs = map[string]any{}
			root[row.Collection] = docs
		}
		docs[row.Key] = doc
	}

	return root, nil
}
