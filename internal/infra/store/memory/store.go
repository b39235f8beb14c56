// Package memory implements an in-process record store with push subscriptions.
package memory

import (
	"bytes"
	"context"
	"sync"

	"cloudburst/internal/domain/repository"
	"cloudburst/internal/infra/store/tree"

	"github.com/pkg/errors"
)

var _ repository.RecordStore = (*Store)(nil)

// Store keeps the whole tree in memory. Subscribers are notified synchronously
// after each write, outside the store lock, so callbacks must not write to a
// path they observe.
type Store struct {
	mu      sync.Mutex
	root    any
	nextID  uint64
	version uint64
	subs    map[uint64]*subscription
}

type subscription struct {
	id    uint64
	store *Store
	segs  []string
	path  string
	limit int
	fn    repository.SnapshotFunc

	// guarded by store.mu
	last []byte

	deliverMu sync.Mutex
	delivered uint64
	once      sync.Once
	stop      func() bool
}

type delivery struct {
	sub     *subscription
	snap    repository.Snapshot
	version uint64
}

// New creates an empty store.
func New() *Store {
	return &Store{subs: map[uint64]*subscription{}}
}

// Get reads the subtree at path.
func (s *Store) Get(ctx context.Context, path string) (repository.Snapshot, error) {
	return s.GetLast(ctx, path, 0)
}

// GetLast reads the last n children of path in key order.
func (s *Store) GetLast(ctx context.Context, path string, n int) (repository.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return repository.Snapshot{}, errors.WithStack(err)
	}

	s.mu.Lock()
	raw, err := s.read(tree.Split(path), n)
	s.mu.Unlock()
	if err != nil {
		return repository.Snapshot{}, err
	}

	return repository.NewSnapshot(path, raw), nil
}

// Set overwrites the subtree at path.
func (s *Store) Set(ctx context.Context, path string, value any) error {
	normalized, err := tree.Normalize(value)
	if err != nil {
		return err
	}

	segs := tree.Split(path)

	return s.write(ctx, segs, func(root any) any {
		return tree.Set(root, segs, normalized)
	})
}

// Update merges fields into path.
func (s *Store) Update(ctx context.Context, path string, fields map[string]any) error {
	normalized := make(map[string]any, len(fields))
	for k, v := range fields {
		n, err := tree.Normalize(v)
		if err != nil {
			return err
		}
		normalized[k] = n
	}

	segs := tree.Split(path)

	return s.write(ctx, segs, func(root any) any {
		return tree.Update(root, segs, normalized)
	})
}

// Remove deletes the subtree at path.
func (s *Store) Remove(ctx context.Context, path string) error {
	segs := tree.Split(path)

	return s.write(ctx, segs, func(root any) any {
		return tree.Set(root, segs, nil)
	})
}

// Subscribe delivers the current value of path immediately and after every change.
func (s *Store) Subscribe(ctx context.Context, path string, limitToLast int, fn repository.SnapshotFunc) (repository.Subscription, error) {
	if fn == nil {
		return nil, errors.New("subscribe: nil callback")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	sub := &subscription{
		store: s,
		segs:  tree.Split(path),
		path:  path,
		limit: limitToLast,
		fn:    fn,
	}

	s.mu.Lock()
	raw, err := s.read(sub.segs, sub.limit)
	if err != nil {
		s.mu.Unlock()

		return nil, err
	}
	s.nextID++
	sub.id = s.nextID
	sub.last = raw
	s.subs[sub.id] = sub
	version := s.version
	s.mu.Unlock()

	sub.stop = context.AfterFunc(ctx, sub.Unsubscribe)
	sub.deliver(repository.NewSnapshot(path, raw), version)

	return sub, nil
}

// Unsubscribe stops delivery to this subscription.
func (sub *subscription) Unsubscribe() {
	sub.once.Do(func() {
		if sub.stop != nil {
			sub.stop()
		}
		sub.store.mu.Lock()
		delete(sub.store.subs, sub.id)
		sub.store.mu.Unlock()
	})
}

func (sub *subscription) active() bool {
	sub.store.mu.Lock()
	defer sub.store.mu.Unlock()

	_, ok := sub.store.subs[sub.id]

	return ok
}

// deliver drops snapshots older than one already delivered, so concurrent
// writers cannot reorder what a subscriber sees.
func (sub *subscription) deliver(snap repository.Snapshot, version uint64) {
	sub.deliverMu.Lock()
	defer sub.deliverMu.Unlock()

	if version < sub.delivered || !sub.active() {
		return
	}
	sub.delivered = version
	sub.fn(snap)
}

// Subscribers returns the number of live subscriptions.
func (s *Store) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.subs)
}

func (s *Store) write(ctx context.Context, segs []string, apply func(root any) any) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	s.mu.Lock()
	s.root = apply(s.root)
	s.version++
	pending, err := s.collect(segs)
	s.mu.Unlock()

	for _, d := range pending {
		d.sub.deliver(d.snap, d.version)
	}

	return err
}

// collect computes the snapshots that changed for subscribers overlapping segs.
// Caller holds s.mu.
func (s *Store) collect(segs []string) ([]delivery, error) {
	var pending []delivery
	for _, sub := range s.subs {
		if !tree.Overlaps(sub.segs, segs) {
			continue
		}

		raw, err := s.read(sub.segs, sub.limit)
		if err != nil {
			return pending, err
		}
		if bytes.Equal(raw, sub.last) {
			continue
		}
		sub.last = raw
		pending = append(pending, delivery{sub: sub, snap: repository.NewSnapshot(sub.path, raw), version: s.version})
	}

	return pending, nil
}

// read encodes the value at segs. Caller holds s.mu.
func (s *Store) read(segs []string, limit int) ([]byte, error) {
	return tree.Encode(tree.LimitToLast(tree.Get(s.root, segs), limit))
}
