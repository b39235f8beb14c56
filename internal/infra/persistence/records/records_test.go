package records

import (
	"context"
	"testing"
	"time"

	"cloudburst/internal/domain/entity"
	domainerrors "cloudburst/internal/domain/errors"
	"cloudburst/internal/infra/store/memory"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestRecordPath(t *testing.T) {
	path, err := recordPath("nodes", "NODE_001", "alerts", "alert_1")
	require.NoError(t, err)
	assert.Equal(t, "nodes/NODE_001/alerts/alert_1", path)

	for _, bad := range []string{"", "a/b", "a.b", "a#b", "a$b", "a[b]"} {
		_, err := recordPath("nodes", bad)
		assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed), "key %q", bad)
	}
}

func TestNodeRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewNodeRepository(memory.New())

	exists, err := repo.Exists(ctx, "N1")
	require.NoError(t, err)
	assert.False(t, exists)

	missing, err := repo.FindByID(ctx, "N1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	node := &entity.Node{
		ID: "N1",
		Metadata: entity.NodeMetadata{
			NodeID: "N1", Type: entity.NodeTypeNode, Name: "Ridge",
			Latitude: 30.1, Longitude: 78.2, NearbyNodes: []string{}, Status: "active", CreatedAt: 1000,
		},
		Realtime: &entity.SensorSnapshot{LastUpdate: 1000},
	}
	require.NoError(t, repo.Create(ctx, node))

	exists, err = repo.Exists(ctx, "N1")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.UpdateMetadata(ctx, "N1", map[string]any{"name": "Ridge East"}))
	require.NoError(t, repo.SetRealtime(ctx, "N1", &entity.SensorSnapshot{
		SensorReadings: entity.SensorReadings{Rainfall: floatPtr(12.5)},
		LastUpdate:     2000,
	}))
	require.NoError(t, repo.AddHistory(ctx, "N1", 1500, &entity.HistoryEntry{
		Sensors: entity.SensorReadings{Rainfall: floatPtr(3)},
	}))
	require.NoError(t, repo.AddHistory(ctx, "N1", 1600, &entity.HistoryEntry{
		Sensors: entity.SensorReadings{Rainfall: floatPtr(4)},
	}))
	require.NoError(t, repo.LinkAlert(ctx, "N1", &entity.NodeAlertRef{AlertID: "alert_1", Severity: entity.SeverityCritical, Timestamp: 2000}))
	require.NoError(t, repo.UpdateAlertRef(ctx, "N1", "alert_1", map[string]any{"acknowledged": true}))

	got, err := repo.FindByID(ctx, "N1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "N1", got.ID)
	assert.Equal(t, "Ridge East", got.Metadata.Name)
	assert.Equal(t, entity.Millis(2000), got.LastUpdate())
	assert.Equal(t, 12.5, *got.Realtime.Rainfall)
	assert.Len(t, got.History, 2)
	assert.True(t, got.Alerts["alert_1"].Acknowledged)

	require.NoError(t, repo.RemoveHistory(ctx, "N1", []string{"1500"}))
	got, err = repo.FindByID(ctx, "N1")
	require.NoError(t, err)
	assert.Len(t, got.History, 1)
	assert.Contains(t, got.History, "1600")

	require.NoError(t, repo.Delete(ctx, "N1"))
	got, err = repo.FindByID(ctx, "N1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNodeRepository_ListOrderedByID(t *testing.T) {
	ctx := context.Background()
	repo := NewNodeRepository(memory.New())

	for _, id := range []string{"N3", "N1", "N2"} {
		require.NoError(t, repo.Create(ctx, &entity.Node{ID: id, Metadata: entity.NodeMetadata{NodeID: id, Name: id}}))
	}

	nodes, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, []string{"N1", "N2", "N3"}, []string{nodes[0].ID, nodes[1].ID, nodes[2].ID})
}

func TestNodeRepository_ListEmpty(t *testing.T) {
	nodes, err := NewNodeRepository(memory.New()).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, nodes)
	assert.Empty(t, nodes)
}

func TestAlertRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewAlertRepository(memory.New())
	base := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

	for i, sev := range []entity.Severity{entity.SeverityWarning, entity.SeverityCritical, entity.SeverityWarning} {
		at := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Save(ctx, &entity.Alert{
			ID:            entity.NewID(entity.IDPrefixAlert, at),
			Type:          entity.AlertTypeManual,
			Severity:      sev,
			Message:       "m",
			AffectedNodes: []string{"N1"},
			Timestamp:     entity.MillisOf(at),
		}))
	}

	alerts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 3)
	assert.Equal(t, entity.MillisOf(base.Add(2*time.Minute)), alerts[0].Timestamp)
	assert.Equal(t, entity.MillisOf(base), alerts[2].Timestamp)

	require.NoError(t, repo.Update(ctx, alerts[0].ID, map[string]any{"acknowledged": true, "acknowledgedBy": "ops"}))
	got, err := repo.FindByID(ctx, alerts[0].ID)
	require.NoError(t, err)
	assert.True(t, got.Acknowledged)
	require.NotNil(t, got.AcknowledgedBy)
	assert.Equal(t, "ops", *got.AcknowledgedBy)
	assert.Nil(t, got.AcknowledgedAt)
}

func TestContactRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewContactRepository(memory.New())

	require.NoError(t, repo.Save(ctx, &entity.Contact{
		ID: "contact_2", Name: "B", Phone: "+919876543210", AssociatedNodes: []string{"N1"},
		NotificationPreference: entity.PreferenceSMS,
	}))
	require.NoError(t, repo.Save(ctx, &entity.Contact{
		ID: "contact_1", Name: "A", Phone: "+919876543211", AssociatedNodes: []string{"N2"},
		NotificationPreference: entity.PreferenceBoth,
	}))

	contacts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "contact_1", contacts[0].ID)

	require.NoError(t, repo.Delete(ctx, "contact_1"))
	got, err := repo.FindByID(ctx, "contact_1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNotificationRepository_FindByAlert(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository(memory.New())

	require.NoError(t, repo.Save(ctx, &entity.Notification{ID: "notif_1", Type: entity.NotificationTypeSMS, AlertID: "alert_a", Timestamp: 100}))
	require.NoError(t, repo.Save(ctx, &entity.Notification{ID: "notif_2", Type: entity.NotificationTypeInApp, AlertID: "alert_a", Timestamp: 200}))
	require.NoError(t, repo.Save(ctx, &entity.Notification{ID: "notif_3", Type: entity.NotificationTypeInApp, AlertID: "alert_b", Timestamp: 300}))

	got, err := repo.FindByAlert(ctx, "alert_a")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "notif_2", got[0].ID)
	assert.Equal(t, "notif_1", got[1].ID)

	require.NoError(t, repo.Update(ctx, "notif_2", map[string]any{"status": entity.NotificationStatusRead, "readBy": []string{"admin"}}))
	n, err := repo.FindByID(ctx, "notif_2")
	require.NoError(t, err)
	assert.Equal(t, entity.NotificationStatusRead, n.Status)
	assert.True(t, n.IsReadBy("admin"))
}

func TestLogRepository_Recent(t *testing.T) {
	ctx := context.Background()
	repo := NewLogRepository(memory.New())
	base := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		at := base.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Append(ctx, &entity.LogEntry{
			ID:        entity.NewID(entity.IDPrefixLog, at),
			Type:      entity.LogTypeDataReceived,
			Message:   "reading",
			Timestamp: entity.MillisOf(at),
		}))
	}

	entries, err := repo.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, entity.MillisOf(base.Add(4*time.Second)), entries[0].Timestamp)
	assert.Equal(t, entity.MillisOf(base.Add(2*time.Second)), entries[2].Timestamp)
}
