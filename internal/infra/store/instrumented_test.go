package store

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"cloudburst/internal/infra/metrics"
	"cloudburst/internal/infra/store/memory"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentedStore_CountsOperations(t *testing.T) {
	m := metrics.New()
	s := NewInstrumentedStore(memory.New(), m, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "nodes/N1/metadata/name", "Ridge"))
	require.NoError(t, s.Update(ctx, "nodes/N1/metadata", map[string]any{"type": "node"}))

	snap, err := s.Get(ctx, "nodes/N1/metadata/name")
	require.NoError(t, err)
	var name string
	require.NoError(t, snap.Decode(&name))
	assert.Equal(t, "Ridge", name)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOps.WithLabelValues("set", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOps.WithLabelValues("update", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOps.WithLabelValues("get", "ok")))
}

func TestInstrumentedStore_CountsErrors(t *testing.T) {
	m := metrics.New()
	s := NewInstrumentedStore(memory.New(), m, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Set(ctx, "logs/l1", map[string]any{"type": "x"})
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOps.WithLabelValues("set", "error")))
}
