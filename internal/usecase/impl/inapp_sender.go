package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloudburst/config"
	deliverycontext "cloudburst/internal/delivery/context"
	"cloudburst/internal/domain/entity"
	"cloudburst/internal/domain/repository"
	"cloudburst/internal/domain/service"
	"cloudburst/internal/usecase"

	"go.uber.org/fx"
)

const defaultInAppExpiry = 7 * 24 * time.Hour

// inAppSender stores dashboard notifications and optionally pushes them to a
// Firebase topic.
type inAppSender struct {
	notificationRepo repository.NotificationRepository
	push             service.PushService
	topic            string
	expiry           time.Duration
	logger           *slog.Logger
	now              func() time.Time
}

// InAppSenderParams holds dependencies for the in-app sender, injected by Fx.
type InAppSenderParams struct {
	fx.In

	Config           *config.Config
	NotificationRepo repository.NotificationRepository
	Push             service.PushService `optional:"true"`
	Logger           *slog.Logger
}

// NewInAppSender is the constructor for inAppSender.
func NewInAppSender(params InAppSenderParams) usecase.NotificationSender {
	expiry := defaultInAppExpiry
	if params.Config.Alert != nil && params.Config.Alert.InAppExpiry > 0 {
		expiry = params.Config.Alert.InAppExpiry
	}

	var topic string
	if params.Config.Firebase != nil {
		topic = params.Config.Firebase.InAppTopic
	}

	return &inAppSender{
		notificationRepo: params.NotificationRepo,
		push:             params.Push,
		topic:            topic,
		expiry:           expiry,
		logger:           params.Logger,
		now:              time.Now,
	}
}

func (s *inAppSender) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerFrom(ctx, s.logger)
}

func (s *inAppSender) Channel() entity.NotificationType {
	return entity.NotificationTypeInApp
}

// Send stores an unread notification. Push fan-out is best effort.
func (s *inAppSender) Send(ctx context.Context, req *usecase.SendRequest) (*usecase.SendOutcome, error) {
	now := s.now()
	timestamp := entity.MillisOf(now)
	expiresAt := timestamp.Add(s.expiry)

	notification := &entity.Notification{
		ID:            entity.NewID(entity.IDPrefixNotification, now),
		Type:          entity.NotificationTypeInApp,
		Status:        entity.NotificationStatusUnread,
		AlertID:       req.AlertID,
		Severity:      req.Severity,
		Message:       req.Message,
		AffectedNodes: req.AffectedNodes,
		Timestamp:     timestamp,
		ExpiresAt:     &expiresAt,
		ReadBy:        []string{},
	}

	outcome := &usecase.SendOutcome{
		Channel:        entity.NotificationTypeInApp,
		Configured:     true,
		NotificationID: notification.ID,
	}

	if err := s.notificationRepo.Save(ctx, notification); err != nil {
		outcome.Error = err.Error()
		s.log(ctx).Error("In-app notification failed", slog.String("alertId", req.AlertID), slog.Any("error", err))

		return outcome, err
	}
	outcome.Success = true

	s.pushToTopic(ctx, notification)

	return outcome, nil
}

func (s *inAppSender) pushToTopic(ctx context.Context, notification *entity.Notification) {
	if s.push == nil || s.topic == "" {
		return
	}

	title := fmt.Sprintf("Cloudburst %s alert", strings.ToUpper(string(notification.Severity)))
	messageID, err := s.push.SendToTopic(ctx, s.topic, title, notification.Message, map[string]string{
		"alertId":        notification.AlertID,
		"notificationId": notification.ID,
		"severity":       string(notification.Severity),
	})
	if err != nil {
		s.log(ctx).Warn("In-app push failed", slog.String("alertId", notification.AlertID), slog.Any("error", err))

		return
	}

	s.log(ctx).Debug("In-app push sent", slog.String("alertId", notification.AlertID), slog.String("messageId", messageID))
}
