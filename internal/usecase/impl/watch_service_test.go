package impl

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"cloudburst/internal/domain/entity"
	domainerrors "cloudburst/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchService_Watch(t *testing.T) {
	repos := newTestRepos()
	cfg := testConfig()
	cfg.Logs.SubscriptionLimit = 2
	svc := NewWatchService(WatchServiceParams{Config: cfg, Store: repos.store, Logger: discardLogger()})
	ctx := context.Background()

	var (
		mu   sync.Mutex
		seen []json.RawMessage
	)
	sub, err := svc.Watch(ctx, "logs", func(raw json.RawMessage) {
		mu.Lock()
		seen = append(seen, raw)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	for i := 0; i < 3; i++ {
		require.NoError(t, repos.logs.Append(ctx, &entity.LogEntry{
			ID: "log_000000000000" + string(rune('1'+i)) + "_aaaaaaaaa", Type: entity.LogTypeDataReceived, Message: "m", Timestamp: entity.Millis(i + 1),
		}))
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 4)
	assert.JSONEq(t, `null`, string(seen[0]))

	var last map[string]any
	require.NoError(t, json.Unmarshal(seen[3], &last))
	assert.Len(t, last, 2)
	assert.Contains(t, last, "log_0000000000003_aaaaaaaaa")
}

func TestWatchService_UnknownCollection(t *testing.T) {
	repos := newTestRepos()
	svc := NewWatchService(WatchServiceParams{Config: testConfig(), Store: repos.store, Logger: discardLogger()})

	_, err := svc.Watch(context.Background(), "secrets", func(json.RawMessage) {})
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}
