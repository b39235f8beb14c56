// Package store selects the record store backend and instruments it.
package store

import (
	"context"
	"log/slog"
	"time"

	"cloudburst/internal/domain/repository"
	"cloudburst/internal/infra/metrics"
)

// instrumentedStore records a counter and latency per operation and logs
// failed writes.
type instrumentedStore struct {
	next    repository.RecordStore
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewInstrumentedStore decorates next with Prometheus metrics.
func NewInstrumentedStore(next repository.RecordStore, m *metrics.Metrics, logger *slog.Logger) repository.RecordStore {
	return &instrumentedStore{next: next, metrics: m, logger: logger}
}

func (s *instrumentedStore) observe(ctx context.Context, op, path string, begin time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
		s.logger.LogAttrs(ctx, slog.LevelWarn, "Record store operation failed",
			slog.String("op", op),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}

	s.metrics.StoreOps.WithLabelValues(op, result).Inc()
	s.metrics.StoreLatency.WithLabelValues(op).Observe(time.Since(begin).Seconds())
}

func (s *instrumentedStore) Get(ctx context.Context, path string) (snap repository.Snapshot, err error) {
	defer func(begin time.Time) { s.observe(ctx, "get", path, begin, err) }(time.Now())

	return s.next.Get(ctx, path)
}

func (s *instrumentedStore) GetLast(ctx context.Context, path string, n int) (snap repository.Snapshot, err error) {
	defer func(begin time.Time) { s.observe(ctx, "get_last", path, begin, err) }(time.Now())

	return s.next.GetLast(ctx, path, n)
}

func (s *instrumentedStore) Set(ctx context.Context, path string, value any) (err error) {
	defer func(begin time.Time) { s.observe(ctx, "set", path, begin, err) }(time.Now())

	return s.next.Set(ctx, path, value)
}

func (s *instrumentedStore) Update(ctx context.Context, path string, fields map[string]any) (err error) {
	defer func(begin time.Time) { s.observe(ctx, "update", path, begin, err) }(time.Now())

	return s.next.Update(ctx, path, fields)
}

func (s *instrumentedStore) Remove(ctx context.Context, path string) (err error) {
	defer func(begin time.Time) { s.observe(ctx, "remove", path, begin, err) }(time.Now())

	return s.next.Remove(ctx, path)
}

func (s *instrumentedStore) Subscribe(ctx context.Context, path string, limitToLast int, fn repository.SnapshotFunc) (sub repository.Subscription, err error) {
	defer func(begin time.Time) { s.observe(ctx, "subscribe", path, begin, err) }(time.Now())

	return s.next.Subscribe(ctx, path, limitToLast, fn)
}
