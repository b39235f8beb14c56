package impl

import (
	"context"
	"testing"
	"time"

	"cloudburst/internal/domain/entity"
	"cloudburst/internal/domain/service"
	mockSvc "cloudburst/internal/mocks/service"
	"cloudburst/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestInAppSender(t *testing.T, push service.PushService, topic string) (*inAppSender, *testRepos) {
	t.Helper()

	repos := newTestRepos()
	cfg := testConfig()
	cfg.Firebase.InAppTopic = topic

	sender := NewInAppSender(InAppSenderParams{
		Config:           cfg,
		NotificationRepo: repos.notifications,
		Push:             push,
		Logger:           discardLogger(),
	}).(*inAppSender)
	sender.now = fixedNow

	return sender, repos
}

func TestInAppSender_StoresUnreadNotification(t *testing.T) {
	sender, repos := newTestInAppSender(t, nil, "")
	ctx := context.Background()

	outcome, err := sender.Send(ctx, &usecase.SendRequest{
		AlertID: "alert_1", Severity: entity.SeverityWarning, Message: "Heavy rain", AffectedNodes: []string{"N1", "N2"},
	})

	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, entity.NotificationTypeInApp, outcome.Channel)

	n, err := repos.notifications.FindByID(ctx, outcome.NotificationID)
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, entity.NotificationStatusUnread, n.Status)
	assert.Equal(t, "Heavy rain", n.Message)
	assert.Equal(t, []string{"N1", "N2"}, n.AffectedNodes)
	require.NotNil(t, n.ExpiresAt)
	assert.Equal(t, entity.MillisOf(testNow.Add(7*24*time.Hour)), *n.ExpiresAt)
	assert.Empty(t, n.ReadBy)
}

func TestInAppSender_PushesToTopic(t *testing.T) {
	push := mockSvc.NewMockPushService(t)
	sender, _ := newTestInAppSender(t, push, "cloudburst-alerts")
	ctx := context.Background()

	var data map[string]string
	push.EXPECT().
		SendToTopic(ctx, "cloudburst-alerts", "Cloudburst CRITICAL alert", "Evacuate", mock.Anything).
		Run(func(_ context.Context, _, _, _ string, d map[string]string) { data = d }).
		Return("projects/p/messages/1", nil).
		Once()

	outcome, err := sender.Send(ctx, &usecase.SendRequest{AlertID: "alert_1", Severity: entity.SeverityCritical, Message: "Evacuate"})

	require.NoError(t, err)
	assert.Equal(t, "alert_1", data["alertId"])
	assert.Equal(t, outcome.NotificationID, data["notificationId"])
	assert.Equal(t, "critical", data["severity"])
}

func TestInAppSender_PushFailureIsNotAnError(t *testing.T) {
	push := mockSvc.NewMockPushService(t)
	sender, _ := newTestInAppSender(t, push, "cloudburst-alerts")

	push.EXPECT().SendToTopic(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))

	outcome, err := sender.Send(context.Background(), &usecase.SendRequest{AlertID: "alert_1", Severity: entity.SeverityWarning})

	require.NoError(t, err)
	assert.True(t, outcome.Success)
}

func TestInAppSender_StoreFailure(t *testing.T) {
	sender, repos := newTestInAppSender(t, nil, "")
	repos.store.failOn("notifications")

	outcome, err := sender.Send(context.Background(), &usecase.SendRequest{AlertID: "alert_1"})

	require.Error(t, err)
	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Error, "store unavailable")
}
