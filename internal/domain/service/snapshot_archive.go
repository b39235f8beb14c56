package service

import "context"

// SnapshotArchive stores exported snapshots outside the record store
type SnapshotArchive interface {
	// Enabled reports whether an archive location is configured
	Enabled() bool

	// Put writes data under key and returns the object location
	Put(ctx context.Context, key string, data []byte) (string, error)

	// Get reads the object stored under key
	Get(ctx context.Context, key string) ([]byte, error)
}
