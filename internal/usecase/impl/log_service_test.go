package impl

import (
	"context"
	"testing"
	"time"

	"cloudburst/internal/domain/entity"
	"cloudburst/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogService_List(t *testing.T) {
	repos := newTestRepos()
	ctx := context.Background()
	svc := NewLogService(LogServiceParams{LogRepo: repos.logs})

	entries := []struct {
		typ entity.LogType
		msg string
	}{
		{entity.LogTypeNodeRegistration, "New node registered: Ridge"},
		{entity.LogTypeAlertTriggered, "Manual alert created affecting 1 node(s)"},
		{entity.LogTypeDataReceived, "Data received from Ridge"},
		{entity.LogTypeAlertTriggered, "Manual alert created affecting 2 node(s)"},
	}
	for i, e := range entries {
		require.NoError(t, repos.logs.Append(ctx, &entity.LogEntry{
			ID:        entity.NewID(entity.IDPrefixLog, testNow.Add(time.Duration(i)*time.Second)),
			Type:      e.typ,
			Message:   e.msg,
			Timestamp: entity.MillisOf(testNow.Add(time.Duration(i)*time.Second)),
		}))
	}

	all, err := svc.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Manual alert created affecting 2 node(s)", all[0].Message)

	alerts, err := svc.List(ctx, &usecase.LogQuery{Type: entity.LogTypeAlertTriggered})
	require.NoError(t, err)
	assert.Len(t, alerts, 2)

	ridge, err := svc.List(ctx, &usecase.LogQuery{Search: "ridge"})
	require.NoError(t, err)
	assert.Len(t, ridge, 2)

	limited, err := svc.List(ctx, &usecase.LogQuery{Limit: 2, Search: "ridge"})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, entity.LogTypeDataReceived, limited[0].Type)
}
