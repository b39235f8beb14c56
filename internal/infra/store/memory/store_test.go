package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"cloudburst/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	snaps []string
}

func (r *recorder) record(s repository.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, string(s.Raw()))
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.snaps...)
}

func TestStore_GetMissing(t *testing.T) {
	s := New()

	snap, err := s.Get(context.Background(), "alerts/missing")
	require.NoError(t, err)
	assert.False(t, snap.Exists())
	assert.Equal(t, "null", string(snap.Raw()))
}

func TestStore_SetGetUpdateRemove(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Set(ctx, "alerts/a1", map[string]any{"severity": "warning", "acknowledged": false}))
	require.NoError(t, s.Update(ctx, "alerts/a1", map[string]any{"acknowledged": true, "acknowledgedBy": "ops"}))

	snap, err := s.Get(ctx, "alerts/a1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"severity":"warning","acknowledged":true,"acknowledgedBy":"ops"}`, string(snap.Raw()))

	var decoded struct {
		Severity     string `json:"severity"`
		Acknowledged bool   `json:"acknowledged"`
	}
	require.NoError(t, snap.Decode(&decoded))
	assert.Equal(t, "warning", decoded.Severity)
	assert.True(t, decoded.Acknowledged)

	require.NoError(t, s.Remove(ctx, "alerts/a1"))
	snap, err = s.Get(ctx, "alerts")
	require.NoError(t, err)
	assert.False(t, snap.Exists())
}

func TestStore_SetReplacesSubtree(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Set(ctx, "nodes/n1", map[string]any{"metadata": map[string]any{"name": "a"}, "history": map[string]any{"1": 1}}))
	require.NoError(t, s.Set(ctx, "nodes/n1", map[string]any{"metadata": map[string]any{"name": "b"}}))

	snap, err := s.Get(ctx, "nodes/n1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"metadata":{"name":"b"}}`, string(snap.Raw()))
}

func TestStore_GetLast(t *testing.T) {
	ctx := context.Background()
	s := New()

	for _, id := range []string{"log_3", "log_1", "log_2"} {
		require.NoError(t, s.Set(ctx, "logs/"+id, map[string]any{"id": id}))
	}

	snap, err := s.GetLast(ctx, "logs", 2)
	require.NoError(t, err)
	children, err := snap.Children()
	require.NoError(t, err)
	assert.Len(t, children, 2)
	assert.Contains(t, children, "log_2")
	assert.Contains(t, children, "log_3")
}

func TestStore_SubscribeFiresImmediatelyAndOnChange(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Set(ctx, "contacts/c1", map[string]any{"name": "Asha"}))

	rec := &recorder{}
	sub, err := s.Subscribe(ctx, "contacts", 0, rec.record)
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "contacts/c2", map[string]any{"name": "Ravi"}))
	require.NoError(t, s.Set(ctx, "alerts/a1", map[string]any{"id": "a1"}))
	// Same value again does not notify.
	require.NoError(t, s.Set(ctx, "contacts/c2", map[string]any{"name": "Ravi"}))

	snaps := rec.all()
	require.Len(t, snaps, 2)
	assert.JSONEq(t, `{"c1":{"name":"Asha"}}`, snaps[0])
	assert.JSONEq(t, `{"c1":{"name":"Asha"},"c2":{"name":"Ravi"}}`, snaps[1])

	sub.Unsubscribe()
	sub.Unsubscribe()
	require.NoError(t, s.Remove(ctx, "contacts/c1"))
	assert.Len(t, rec.all(), 2)
	assert.Equal(t, 0, s.Subscribers())
}

func TestStore_SubscribeLimitToLast(t *testing.T) {
	ctx := context.Background()
	s := New()

	rec := &recorder{}
	_, err := s.Subscribe(ctx, "logs", 2, rec.record)
	require.NoError(t, err)

	for _, id := range []string{"log_1", "log_2", "log_3"} {
		require.NoError(t, s.Set(ctx, "logs/"+id, map[string]any{"id": id}))
	}

	snaps := rec.all()
	require.Len(t, snaps, 4)
	assert.Equal(t, "null", snaps[0])
	assert.JSONEq(t, `{"log_2":{"id":"log_2"},"log_3":{"id":"log_3"}}`, snaps[3])
}

func TestStore_SubscriptionEndsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New()

	_, err := s.Subscribe(ctx, "nodes", 0, func(repository.Snapshot) {})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Subscribers())

	cancel()
	assert.Eventually(t, func() bool { return s.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
}

func TestStore_NestedWriteNotifiesAncestorAndDescendant(t *testing.T) {
	ctx := context.Background()
	s := New()

	parent := &recorder{}
	child := &recorder{}
	_, err := s.Subscribe(ctx, "nodes", 0, parent.record)
	require.NoError(t, err)
	_, err = s.Subscribe(ctx, "nodes/n1/alerts/a1", 0, child.record)
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "nodes/n1", map[string]any{"alerts": map[string]any{"a1": map[string]any{"severity": "critical"}}}))

	assert.Len(t, parent.all(), 2)
	childSnaps := child.all()
	require.Len(t, childSnaps, 2)
	assert.JSONEq(t, `{"severity":"critical"}`, childSnaps[1])
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := New()

	assert.Error(t, s.Set(ctx, "a", 1))
	_, err := s.Get(ctx, "a")
	assert.Error(t, err)
}
