package impl

import (
	"context"
	"log/slog"
	"strings"

	"cloudburst/config"
	deliverycontext "cloudburst/internal/delivery/context"
	"cloudburst/internal/domain/constants"
	"cloudburst/internal/domain/entity"
	domainerrors "cloudburst/internal/domain/errors"
	"cloudburst/internal/domain/repository"
	"cloudburst/internal/usecase"

	"go.uber.org/fx"
)

const defaultReader = "admin"

type notificationService struct {
	cfg              *config.SMSConfig
	notificationRepo repository.NotificationRepository
	logger           *slog.Logger
}

// NotificationServiceParams holds dependencies for NotificationService, injected by Fx.
type NotificationServiceParams struct {
	fx.In

	Config           *config.Config
	NotificationRepo repository.NotificationRepository
	Logger           *slog.Logger
}

// NewNotificationService is the constructor for notificationService.
func NewNotificationService(params NotificationServiceParams) usecase.NotificationUsecase {
	return &notificationService{
		cfg:              params.Config.SMS,
		notificationRepo: params.NotificationRepo,
		logger:           params.Logger,
	}
}

func (s *notificationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerFrom(ctx, s.logger)
}

func (s *notificationService) ListForAlert(ctx context.Context, alertID string) ([]*entity.Notification, error) {
	return s.notificationRepo.FindByAlert(ctx, alertID)
}

// MarkRead is idempotent per user.
func (s *notificationService) MarkRead(ctx context.Context, notificationID, user string) (*entity.Notification, error) {
	notification, err := s.notificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if notification == nil {
		return nil, domainerrors.ErrNotificationNotFound
	}
	if notification.Type != entity.NotificationTypeInApp {
		return nil, domainerrors.ErrNotificationNotReadable
	}

	user = strings.TrimSpace(user)
	if user == "" {
		user = defaultReader
	}
	if notification.IsReadBy(user) {
		return notification, nil
	}

	readBy := append(append([]string{}, notification.ReadBy...), user)
	err = s.notificationRepo.Update(ctx, notificationID, map[string]any{
		"readBy": readBy,
		"status": entity.NotificationStatusRead,
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Debug("Notification marked read", slog.String("notificationId", notificationID), slog.String("user", user))

	notification.ReadBy = readBy
	notification.Status = entity.NotificationStatusRead

	return notification, nil
}

func (s *notificationService) SMSStatus() *usecase.SMSStatus {
	status := &usecase.SMSStatus{Gateway: constants.SMSGatewaySimulated}
	if s.cfg == nil {
		return status
	}

	status.Enabled = s.cfg.Enabled
	status.Configured = s.cfg.Configured()
	if s.cfg.Gateway != "" {
		status.Gateway = s.cfg.Gateway
	}
	status.PhoneNumber = maskPhone(s.cfg.PhoneNumber)

	return status
}

// maskPhone keeps the last four digits.
func maskPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if len(phone) <= 4 {
		return phone
	}

	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
