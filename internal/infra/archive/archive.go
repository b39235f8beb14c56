// Package archive keeps exported snapshots in a gocloud blob bucket.
package archive

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"cloudburst/config"
	"cloudburst/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"
)

type bucketArchive struct {
	bucket *blob.Bucket
	prefix string
}

// NewBucketArchive wraps an open bucket; keys are stored under prefix.
func NewBucketArchive(bucket *blob.Bucket, prefix string) service.SnapshotArchive {
	return &bucketArchive{bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (a *bucketArchive) Enabled() bool {
	return true
}

// Put writes data under prefix+key as JSON and returns the object key.
func (a *bucketArchive) Put(ctx context.Context, key string, data []byte) (string, error) {
	objectKey := path.Join(a.prefix, key)
	if err := a.bucket.WriteAll(ctx, objectKey, data, &blob.WriterOptions{ContentType: "application/json"}); err != nil {
		return "", errors.Wrapf(err, "write archive object %s", objectKey)
	}

	return objectKey, nil
}

// Get reads prefix+key.
func (a *bucketArchive) Get(ctx context.Context, key string) ([]byte, error) {
	objectKey := path.Join(a.prefix, key)
	data, err := a.bucket.ReadAll(ctx, objectKey)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, errors.Wrapf(ErrObjectNotFound, "archive object %s", objectKey)
		}

		return nil, errors.Wrapf(err, "read archive object %s", objectKey)
	}

	return data, nil
}

// ErrObjectNotFound is returned by Get for a missing key
var ErrObjectNotFound = errors.New("archive object not found")

type disabledArchive struct{}

// NewDisabledArchive returns an archive that reports itself unconfigured
func NewDisabledArchive() service.SnapshotArchive {
	return disabledArchive{}
}

func (disabledArchive) Enabled() bool { return false }

func (disabledArchive) Put(context.Context, string, []byte) (string, error) {
	return "", errors.New("snapshot archive is not configured")
}

func (disabledArchive) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("snapshot archive is not configured")
}

// ArchiveParams holds dependencies for the archive, injected by Fx
type ArchiveParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewSnapshotArchive opens export.bucketUrl; without one, archiving is disabled.
func NewSnapshotArchive(params ArchiveParams) (service.SnapshotArchive, error) {
	cfg := params.Config.Export
	if cfg == nil || cfg.BucketURL == "" {
		params.Logger.Info("Export bucket not configured, snapshot archiving disabled")

		return NewDisabledArchive(), nil
	}

	bucket, err := blob.OpenBucket(params.Ctx, cfg.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "open export bucket %s", cfg.BucketURL)
	}

	params.Logger.Info("Snapshot archive ready",
		slog.String("bucket", cfg.BucketURL),
		slog.String("prefix", cfg.Prefix),
	)

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return bucket.Close()
		},
	})

	return NewBucketArchive(bucket, cfg.Prefix), nil
}

// Module provides the snapshot archive FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewSnapshotArchive),
)
