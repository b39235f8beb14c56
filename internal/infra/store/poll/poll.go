// Package poll serves record store subscriptions for backends without push
// support by re-reading the subscribed path on an interval.
package poll

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"time"

	"cloudburst/internal/domain/repository"
)

// FetchFunc reads the current encoded value of the subscribed path.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Subscription polls until cancelled.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Start reads the path once synchronously, delivers it, then keeps delivering
// every changed value until the subscription or ctx ends.
func Start(ctx context.Context, path string, interval time.Duration, fetch FetchFunc, fn repository.SnapshotFunc, logger *slog.Logger) (*Subscription, error) {
	last, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	pollCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(ctx, cancel)
	sub := &Subscription{cancel: cancel, done: make(chan struct{})}

	fn(repository.NewSnapshot(path, last))

	go func() {
		defer close(sub.done)
		defer stop()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-pollCtx.Done():
				return
			case <-ticker.C:
				current, err := fetch(pollCtx)
				if err != nil {
					if pollCtx.Err() == nil {
						logger.Warn("Subscription poll failed", slog.String("path", path), slog.Any("error", err))
					}

					continue
				}
				if bytes.Equal(current, last) {
					continue
				}
				last = current
				if pollCtx.Err() != nil {
					return
				}
				fn(repository.NewSnapshot(path, current))
			}
		}
	}()

	return sub, nil
}

// Unsubscribe stops polling and waits for the poller to exit. It must not be
// called from inside the subscription callback.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}
