package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloudburst/config"
	deliverycontext "cloudburst/internal/delivery/context"
	"cloudburst/internal/domain/constants"
	"cloudburst/internal/domain/entity"
	"cloudburst/internal/domain/repository"
	"cloudburst/internal/domain/service"
	"cloudburst/internal/errors"
	"cloudburst/internal/usecase"

	"go.uber.org/fx"
)

// smsMethod is the delivery method recorded on SMS notifications.
const smsMethod = constants.SMSGatewayTwilio

// smsSender delivers alerts by text message and records each attempt.
type smsSender struct {
	cfg              *config.SMSConfig
	gateway          service.SMSGateway
	notificationRepo repository.NotificationRepository
	logRepo          repository.LogRepository
	recorder         service.MetricsRecorder
	logger           *slog.Logger
	now              func() time.Time
}

// SMSSenderParams holds dependencies for the SMS sender, injected by Fx.
type SMSSenderParams struct {
	fx.In

	Config           *config.Config
	Gateway          service.SMSGateway
	NotificationRepo repository.NotificationRepository
	LogRepo          repository.LogRepository
	Recorder         service.MetricsRecorder
	Logger           *slog.Logger
}

// NewSMSSender is the constructor for smsSender.
func NewSMSSender(params SMSSenderParams) usecase.NotificationSender {
	return &smsSender{
		cfg:              params.Config.SMS,
		gateway:          params.Gateway,
		notificationRepo: params.NotificationRepo,
		logRepo:          params.LogRepo,
		recorder:         params.Recorder,
		logger:           params.Logger,
		now:              time.Now,
	}
}

func (s *smsSender) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerFrom(ctx, s.logger)
}

func (s *smsSender) Channel() entity.NotificationType {
	return entity.NotificationTypeSMS
}

// Send records exactly one notification per call. When SMS is not configured
// the notification is stored as pending and the outcome reports
// configured=false without an error.
func (s *smsSender) Send(ctx context.Context, req *usecase.SendRequest) (*usecase.SendOutcome, error) {
	now := s.now()
	outcome := &usecase.SendOutcome{
		Channel:    entity.NotificationTypeSMS,
		Recipients: len(req.Recipients),
	}

	notification := &entity.Notification{
		ID:         entity.NewID(entity.IDPrefixNotification, now),
		Type:       entity.NotificationTypeSMS,
		AlertID:    req.AlertID,
		Severity:   req.Severity,
		Message:    req.Message,
		Recipients: req.Recipients,
		Timestamp:  entity.MillisOf(now),
		Method:     smsMethod,
	}
	outcome.NotificationID = notification.ID

	if !s.cfg.Configured() {
		return s.recordPending(ctx, now, notification, outcome)
	}
	outcome.Configured = true

	results, delivered, sendErr := s.deliver(ctx, req)
	notification.Results = results
	notification.Status, notification.DeliveryStatus = deliveryState(delivered, len(req.Recipients))
	outcome.DeliveryStatus = notification.DeliveryStatus

	if err := s.notificationRepo.Save(ctx, notification); err != nil {
		return s.fail(ctx, now, req, outcome, err)
	}
	s.recorder.SMSRecorded(notification.DeliveryStatus)

	if delivered == 0 && len(req.Recipients) > 0 {
		return s.fail(ctx, now, req, outcome, sendErr)
	}

	outcome.Success = true
	if sendErr != nil {
		outcome.Error = sendErr.Error()
	}

	err := appendLog(ctx, s.logRepo, now, entity.LogTypeSMSSent,
		fmt.Sprintf("SMS notifications sent to %d recipient(s)", delivered),
		map[string]any{
			"notificationId": notification.ID,
			"alertId":        req.AlertID,
			"recipients":     len(req.Recipients),
			"delivered":      delivered,
		})
	if err != nil {
		s.log(ctx).Warn("Failed to log SMS delivery", slog.String("alertId", req.AlertID), slog.Any("error", err))
	}

	s.log(ctx).Info("SMS notifications sent",
		slog.String("alertId", req.AlertID),
		slog.String("notificationId", notification.ID),
		slog.Int("delivered", delivered),
		slog.Int("recipients", len(req.Recipients)),
	)

	return outcome, nil
}

func (s *smsSender) recordPending(ctx context.Context, now time.Time, notification *entity.Notification, outcome *usecase.SendOutcome) (*usecase.SendOutcome, error) {
	recipients := "none"
	if len(notification.Recipients) > 0 {
		recipients = strings.Join(notification.Recipients, ", ")
	}

	notification.Status = entity.NotificationStatusPending
	notification.DeliveryStatus = entity.DeliveryStatusNotConfigured
	notification.Note = "SMS service not configured. Would send to: " + recipients
	outcome.DeliveryStatus = entity.DeliveryStatusNotConfigured

	if err := s.notificationRepo.Save(ctx, notification); err != nil {
		return s.fail(ctx, now, &usecase.SendRequest{AlertID: notification.AlertID, Recipients: notification.Recipients}, outcome, err)
	}
	s.recorder.SMSRecorded(entity.DeliveryStatusNotConfigured)

	err := appendLog(ctx, s.logRepo, now, entity.LogTypeSMSPending,
		fmt.Sprintf("SMS notification logged (not sent - SMS service not configured). Recipients: %d", len(notification.Recipients)),
		map[string]any{
			"notificationId": notification.ID,
			"alertId":        notification.AlertID,
			"recipients":     len(notification.Recipients),
		})
	if err != nil {
		s.log(ctx).Warn("Failed to log pending SMS", slog.String("alertId", notification.AlertID), slog.Any("error", err))
	}

	s.log(ctx).Warn("SMS service not configured, notification stored as pending",
		slog.String("alertId", notification.AlertID),
		slog.Int("recipients", len(notification.Recipients)),
	)

	return outcome, nil
}

// deliver sends one message per recipient and keeps going after failures.
func (s *smsSender) deliver(ctx context.Context, req *usecase.SendRequest) ([]entity.DeliveryResult, int, error) {
	results := make([]entity.DeliveryResult, 0, len(req.Recipients))
	delivered := 0
	var errs []error

	for _, to := range req.Recipients {
		receipt, err := s.gateway.Send(ctx, &service.SMSMessage{
			To:   to,
			From: s.cfg.PhoneNumber,
			Body: req.Message,
		})
		if err != nil {
			results = append(results, entity.DeliveryResult{To: to, Status: entity.NotificationStatusFailed, Error: err.Error()})
			errs = append(errs, err)

			continue
		}

		status := receipt.Status
		if status == "" {
			status = entity.NotificationStatusSent
		}
		results = append(results, entity.DeliveryResult{To: to, Status: status, SID: receipt.SID})
		delivered++
	}

	if len(errs) == 0 {
		return results, delivered, nil
	}

	return results, delivered, errors.Wrapf(errors.Join(errs...), "%d of %d messages failed via %s", len(errs), len(req.Recipients), s.gateway.Name())
}

// fail appends an sms_failed entry and returns err alongside the outcome.
func (s *smsSender) fail(ctx context.Context, now time.Time, req *usecase.SendRequest, outcome *usecase.SendOutcome, err error) (*usecase.SendOutcome, error) {
	outcome.Success = false
	outcome.Error = err.Error()

	logErr := appendLog(ctx, s.logRepo, now, entity.LogTypeSMSFailed,
		"SMS notification failed: "+err.Error(),
		map[string]any{
			"alertId":    req.AlertID,
			"recipients": len(req.Recipients),
			"error":      err.Error(),
		})
	if logErr != nil {
		s.log(ctx).Error("Failed to log SMS failure", slog.String("alertId", req.AlertID), slog.Any("error", logErr))
	}

	s.log(ctx).Error("SMS notification failed", slog.String("alertId", req.AlertID), slog.Any("error", err))

	return outcome, err
}

func deliveryState(delivered, total int) (status, deliveryStatus string) {
	switch {
	case delivered == total:
		return entity.NotificationStatusSent, entity.DeliveryStatusDelivered
	case delivered == 0:
		return entity.NotificationStatusFailed, entity.DeliveryStatusFailed
	default:
		return entity.NotificationStatusPartial, entity.DeliveryStatusPartial
	}
}
