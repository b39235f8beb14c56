// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// RecordStore is a hierarchical key-value store addressed by "/"-separated paths.
// Writes are last-writer-wins; the store offers no versioning or compare-and-swap.
type RecordStore interface {
	// Get reads the subtree at path. A missing path yields a snapshot that does not exist.
	Get(ctx context.Context, path string) (Snapshot, error)

	// GetLast reads the last n children of path in key order. n <= 0 reads everything.
	GetLast(ctx context.Context, path string, n int) (Snapshot, error)

	// Set overwrites the subtree at path. A nil value removes it.
	Set(ctx context.Context, path string, value any) error

	// Update merges fields into path. Keys may be nested "/"-separated paths
	// relative to path; a nil value removes that child.
	Update(ctx context.Context, path string, fields map[string]any) error

	// Remove deletes the subtree at path.
	Remove(ctx context.Context, path string) error

	// Subscribe calls fn with the current value of path right away and again
	// after every change, until the subscription is cancelled or ctx is done.
	// limitToLast > 0 restricts the snapshot to the last children in key order.
	Subscribe(ctx context.Context, path string, limitToLast int, fn SnapshotFunc) (Subscription, error)
}

// SnapshotFunc receives pushed snapshots.
type SnapshotFunc func(Snapshot)

// Subscription is the handle of a live subscription.
type Subscription interface {
	// Unsubscribe stops delivery. It is safe to call more than once.
	Unsubscribe()
}

var nullJSON = []byte("null")

// Snapshot is an immutable JSON view of a subtree.
type Snapshot struct {
	path string
	raw  json.RawMessage
}

// NewSnapshot creates a snapshot of raw JSON read at path.
func NewSnapshot(path string, raw []byte) Snapshot {
	return Snapshot{path: path, raw: raw}
}

// Path returns the path the snapshot was read from.
func (s Snapshot) Path() string {
	return s.path
}

// Exists reports whether the path held a value.
func (s Snapshot) Exists() bool {
	trimmed := bytes.TrimSpace(s.raw)

	return len(trimmed) > 0 && !bytes.Equal(trimmed, nullJSON)
}

// Raw returns the JSON encoding of the value, "null" when it does not exist.
func (s Snapshot) Raw() json.RawMessage {
	if !s.Exists() {
		return json.RawMessage(nullJSON)
	}

	return s.raw
}

// Decode unmarshals the value into v. Decoding a missing value leaves v untouched.
func (s Snapshot) Decode(v any) error {
	if !s.Exists() {
		return nil
	}

	return errors.Wrapf(json.Unmarshal(s.raw, v), "decode %s", s.path)
}

// Children decodes an object-valued snapshot into its raw children.
func (s Snapshot) Children() (map[string]json.RawMessage, error) {
	children := map[string]json.RawMessage{}
	if err := s.Decode(&children); err != nil {
		return nil, err
	}

	return children, nil
}
