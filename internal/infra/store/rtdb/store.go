// Package rtdb implements the record store on Firebase Realtime Database.
package rtdb

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"cloudburst/internal/domain/repository"
	"cloudburst/internal/infra/store/poll"
	"cloudburst/internal/infra/store/tree"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

var _ repository.RecordStore = (*Store)(nil)

// Options configures the Realtime Database connection.
type Options struct {
	DatabaseURL     string
	ProjectID       string
	CredentialsPath string
	PollInterval    time.Duration
}

// Store talks to the database over its REST client. The admin SDK has no
// streaming listener, so subscriptions poll.
type Store struct {
	client       *db.Client
	pollInterval time.Duration
	logger       *slog.Logger
}

// New connects to the database named by opts.DatabaseURL.
func New(ctx context.Context, opts Options, logger *slog.Logger) (*Store, error) {
	if opts.DatabaseURL == "" {
		return nil, errors.New("firebase database URL is required")
	}

	var clientOpts []option.ClientOption
	if opts.CredentialsPath != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		DatabaseURL: opts.DatabaseURL,
		ProjectID:   opts.ProjectID,
	}, clientOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get database client")
	}

	logger.Info("Firebase Realtime Database store initialized", slog.String("database_url", opts.DatabaseURL))

	return &Store{client: client, pollInterval: opts.PollInterval, logger: logger}, nil
}

// Get reads the subtree at path.
func (s *Store) Get(ctx context.Context, path string) (repository.Snapshot, error) {
	raw, err := s.fetch(ctx, path, 0)
	if err != nil {
		return repository.Snapshot{}, err
	}

	return repository.NewSnapshot(path, raw), nil
}

// GetLast reads the last n children of path ordered by key.
func (s *Store) GetLast(ctx context.Context, path string, n int) (repository.Snapshot, error) {
	raw, err := s.fetch(ctx, path, n)
	if err != nil {
		return repository.Snapshot{}, err
	}

	return repository.NewSnapshot(path, raw), nil
}

// Set overwrites the subtree at path.
func (s *Store) Set(ctx context.Context, path string, value any) error {
	if value == nil {
		return s.Remove(ctx, path)
	}

	return errors.Wrapf(s.ref(path).Set(ctx, value), "set %s", path)
}

// Update merges fields into path.
func (s *Store) Update(ctx context.Context, path string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	return errors.Wrapf(s.ref(path).Update(ctx, fields), "update %s", path)
}

// Remove deletes the subtree at path.
func (s *Store) Remove(ctx context.Context, path string) error {
	return errors.Wrapf(s.ref(path).Delete(ctx), "remove %s", path)
}

// Subscribe polls path and delivers every changed value.
func (s *Store) Subscribe(ctx context.Context, path string, limitToLast int, fn repository.SnapshotFunc) (repository.Subscription, error) {
	sub, err := poll.Start(ctx, path, s.pollInterval, func(ctx context.Context) ([]byte, error) {
		return s.fetch(ctx, path, limitToLast)
	}, fn, s.logger)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// fetch reads path and re-encodes it in canonical key order, so polled
// values compare byte for byte.
func (s *Store) fetch(ctx context.Context, path string, limit int) ([]byte, error) {
	var raw json.RawMessage
	if limit > 0 {
		if err := s.ref(path).OrderByKey().LimitToLast(limit).Get(ctx, &raw); err != nil {
			return nil, errors.Wrapf(err, "query %s", path)
		}
	} else if err := s.ref(path).Get(ctx, &raw); err != nil {
		return nil, errors.Wrapf(err, "get %s", path)
	}

	value, err := tree.Decode(raw)
	if err != nil {
		return nil, err
	}

	return tree.Encode(tree.LimitToLast(value, limit))
}

func (s *Store) ref(path string) *db.Ref {
	return s.client.NewRef(tree.Join(tree.Split(path)...))
}
