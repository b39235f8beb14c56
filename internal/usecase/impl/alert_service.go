package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"cloudburst/config"
	deliverycontext "cloudburst/internal/delivery/context"
	"cloudburst/internal/domain/entity"
	domainerrors "cloudburst/internal/domain/errors"
	"cloudburst/internal/domain/repository"
	"cloudburst/internal/domain/service"
	"cloudburst/internal/errors"
	"cloudburst/internal/usecase"

	"github.com/samber/lo"
	"go.uber.org/fx"
)

const (
	defaultMaxMessageLength = 500
	logPreviewLength        = 50
)

// alertService implements the AlertUsecase interface.
type alertService struct {
	nodeRepo         repository.NodeRepository
	contactRepo      repository.ContactRepository
	alertRepo        repository.AlertRepository
	logRepo          repository.LogRepository
	smsSender        usecase.NotificationSender
	inAppSender      usecase.NotificationSender
	publisher        service.EventPublisher
	recorder         service.MetricsRecorder
	maxMessageLength int
	logger           *slog.Logger
	now              func() time.Time
}

// AlertServiceParams holds dependencies for AlertService, injected by Fx.
type AlertServiceParams struct {
	fx.In

	Config      *config.Config
	NodeRepo    repository.NodeRepository
	ContactRepo repository.ContactRepository
	AlertRepo   repository.AlertRepository
	LogRepo     repository.LogRepository
	SMSSender   usecase.NotificationSender `name:"smsSender"`
	InAppSender usecase.NotificationSender `name:"inAppSender"`
	Publisher   service.EventPublisher
	Recorder    service.MetricsRecorder
	Logger      *slog.Logger
}

// NewAlertService is the constructor for alertService.
func NewAlertService(params AlertServiceParams) usecase.AlertUsecase {
	maxLength := defaultMaxMessageLength
	if params.Config.Alert != nil && params.Config.Alert.MaxMessageLength > 0 {
		maxLength = params.Config.Alert.MaxMessageLength
	}

	return &alertService{
		nodeRepo:         params.NodeRepo,
		contactRepo:      params.ContactRepo,
		alertRepo:        params.AlertRepo,
		logRepo:          params.LogRepo,
		smsSender:        params.SMSSender,
		inAppSender:      params.InAppSender,
		publisher:        params.Publisher,
		recorder:         params.Recorder,
		maxMessageLength: maxLength,
		logger:           params.Logger,
		now:              time.Now,
	}
}

func (srv *alertService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerFrom(ctx, srv.logger)
}

// Dispatch runs the manual alert workflow: validate, resolve recipients,
// store and verify the alert, link it to every node, log it, then notify.
// Validation failures happen before any write.
func (srv *alertService) Dispatch(ctx context.Context, input *usecase.DispatchInput) (*usecase.DispatchResult, error) {
	message, nodeIDs, err := srv.validateDispatch(ctx, input)
	if err != nil {
		return nil, err
	}

	recipients, err := srv.resolveRecipients(ctx, nodeIDs)
	if err != nil {
		return nil, err
	}

	now := srv.now()
	timestamp := entity.MillisOf(now)
	smsRequested := input.SendSMS && len(recipients) > 0

	alert := &entity.Alert{
		ID:            entity.NewID(entity.IDPrefixAlert, now),
		Type:          entity.AlertTypeManual,
		Severity:      input.Severity,
		Message:       message,
		AffectedNodes: nodeIDs,
		Timestamp:     timestamp,
		Acknowledged:  false,
		SentSMS:       smsRequested,
		Recipients:    recipients,
		CreatedBy:     entity.AlertCreatedByAdmin,
		Source:        entity.AlertSourceAdminPanel,
	}
	if smsRequested {
		alert.SMSSentAt = &timestamp
	}

	if err := srv.alertRepo.Save(ctx, alert); err != nil {
		return nil, err
	}

	stored, err := srv.alertRepo.FindByID(ctx, alert.ID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, domainerrors.ErrAlertVerificationFailed.WithDetails(alert.ID)
	}

	if err := srv.linkNodes(ctx, alert); err != nil {
		return nil, err
	}

	err = appendLog(ctx, srv.logRepo, now, entity.LogTypeAlertTriggered,
		fmt.Sprintf("Manual alert created affecting %d node(s): \"%s\"", len(nodeIDs), preview(message, logPreviewLength)),
		map[string]any{
			"alertId":       alert.ID,
			"affectedNodes": nodeIDs,
			"severity":      string(alert.Severity),
			"recipients":    len(recipients),
		})
	if err != nil {
		return nil, err
	}

	result := &usecase.DispatchResult{
		AlertID:        alert.ID,
		Alert:          stored,
		RecipientCount: len(recipients),
		NodeCount:      len(nodeIDs),
	}

	if smsRequested {
		result.SMS, err = srv.smsSender.Send(ctx, &usecase.SendRequest{
			AlertID:    alert.ID,
			Severity:   alert.Severity,
			Message:    fmt.Sprintf("[%s] %s", strings.ToUpper(string(alert.Severity)), message),
			Recipients: recipients,
		})
		if err != nil {
			srv.log(ctx).Warn("SMS sender reported a failure", slog.String("alertId", alert.ID), slog.Any("error", err))
		}
		result.SMSSent = result.SMS != nil && result.SMS.Success
	}

	result.InApp, err = srv.inAppSender.Send(ctx, &usecase.SendRequest{
		AlertID:       alert.ID,
		Severity:      alert.Severity,
		Message:       message,
		AffectedNodes: nodeIDs,
	})
	if err != nil {
		srv.log(ctx).Warn("In-app sender reported a failure", slog.String("alertId", alert.ID), slog.Any("error", err))
	}

	srv.publish(ctx, alert)
	srv.recorder.AlertDispatched(string(alert.Severity))

	srv.log(ctx).Info("Alert dispatched",
		slog.String("alertId", alert.ID),
		slog.String("severity", string(alert.Severity)),
		slog.Int("nodes", len(nodeIDs)),
		slog.Int("recipients", len(recipients)),
	)

	return result, nil
}

// validateDispatch returns the trimmed message and the deduplicated node ids.
func (srv *alertService) validateDispatch(ctx context.Context, input *usecase.DispatchInput) (string, []string, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return "", nil, domainerrors.ErrMessageRequired
	}
	if n := utf8.RuneCountInString(message); n > srv.maxMessageLength {
		return "", nil, domainerrors.ErrMessageTooLong.WithDetails(
			fmt.Sprintf("%d characters, maximum is %d", n, srv.maxMessageLength))
	}

	if !input.Severity.Valid() {
		return "", nil, domainerrors.ErrInvalidSeverity
	}

	nodeIDs := lo.Uniq(lo.Compact(lo.Map(input.AffectedNodes, func(id string, _ int) string {
		return strings.TrimSpace(id)
	})))
	if len(nodeIDs) == 0 {
		return "", nil, domainerrors.ErrNoNodesSelected
	}

	for _, id := range nodeIDs {
		exists, err := srv.nodeRepo.Exists(ctx, id)
		if err != nil {
			return "", nil, err
		}
		if !exists {
			return "", nil, domainerrors.ErrNodeNotFound.WithDetails(id)
		}
	}

	return message, nodeIDs, nil
}

// resolveRecipients snapshots the phones of every contact watching one of the
// nodes, ordered by contact id, without duplicates.
func (srv *alertService) resolveRecipients(ctx context.Context, nodeIDs []string) ([]string, error) {
	contacts, err := srv.contactRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	phones := lo.FilterMap(contacts, func(c *entity.Contact, _ int) (string, bool) {
		return c.Phone, c.Phone != "" && c.WatchesAny(nodeIDs)
	})

	return lo.Uniq(phones), nil
}

// linkNodes attempts one back-reference write per node, in order, even after
// a failure. Nothing is undone; failures are reported as a PartialLinkError.
func (srv *alertService) linkNodes(ctx context.Context, alert *entity.Alert) error {
	ref := alert.NodeRef()
	linked := make([]string, 0, len(alert.AffectedNodes))
	var failed []string
	var errs []error

	for _, nodeID := range alert.AffectedNodes {
		if err := srv.nodeRepo.LinkAlert(ctx, nodeID, ref); err != nil {
			failed = append(failed, nodeID)
			errs = append(errs, err)

			continue
		}
		linked = append(linked, nodeID)
	}
	if len(failed) == 0 {
		return nil
	}

	srv.log(ctx).Error("Alert stored but node linkage incomplete",
		slog.String("alertId", alert.ID),
		slog.Any("linked", linked),
		slog.Any("unlinked", failed),
	)

	return &domainerrors.PartialLinkError{
		AlertID: alert.ID,
		Linked:  linked,
		Failed:  failed,
		Err:     errors.Join(errs...),
	}
}

func (srv *alertService) publish(ctx context.Context, alert *entity.Alert) {
	if srv.publisher == nil {
		return
	}

	err := srv.publisher.PublishAlertEvent(ctx, &service.AlertEvent{
		RequestID:      deliverycontext.RequestIDFrom(ctx),
		AlertID:        alert.ID,
		Severity:       string(alert.Severity),
		Message:        alert.Message,
		AffectedNodes:  alert.AffectedNodes,
		RecipientCount: len(alert.Recipients),
		Timestamp:      int64(alert.Timestamp),
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to publish alert event", slog.String("alertId", alert.ID), slog.Any("error", err))
	}
}

// Acknowledge marks the alert and every linked node reference acknowledged.
func (srv *alertService) Acknowledge(ctx context.Context, alertID, acknowledgedBy string) (*entity.Alert, error) {
	alert, err := srv.Get(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert.Acknowledged {
		return nil, domainerrors.ErrAlertAlreadyAcknowledged
	}

	acknowledgedBy = strings.TrimSpace(acknowledgedBy)
	if acknowledgedBy == "" {
		acknowledgedBy = entity.AlertCreatedByAdmin
	}

	now := srv.now()
	at := entity.MillisOf(now)
	fields := map[string]any{
		"acknowledged":   true,
		"acknowledgedBy": acknowledgedBy,
		"acknowledgedAt": at,
	}

	if err := srv.alertRepo.Update(ctx, alertID, fields); err != nil {
		return nil, err
	}

	for _, nodeID := range alert.AffectedNodes {
		node, err := srv.nodeRepo.FindByID(ctx, nodeID)
		if err != nil {
			return nil, err
		}
		if node == nil {
			continue
		}
		if _, linked := node.Alerts[alertID]; !linked {
			continue
		}
		if err := srv.nodeRepo.UpdateAlertRef(ctx, nodeID, alertID, fields); err != nil {
			return nil, err
		}
	}

	err = appendLog(ctx, srv.logRepo, now, entity.LogTypeAlertAcknowledged,
		fmt.Sprintf("Alert %s acknowledged by %s", alertID, acknowledgedBy),
		map[string]any{
			"alertId":        alertID,
			"acknowledgedBy": acknowledgedBy,
		})
	if err != nil {
		return nil, err
	}

	alert.Acknowledged = true
	alert.AcknowledgedBy = &acknowledgedBy
	alert.AcknowledgedAt = &at

	return alert, nil
}

// Get returns one alert.
func (srv *alertService) Get(ctx context.Context, alertID string) (*entity.Alert, error) {
	alert, err := srv.alertRepo.FindByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, domainerrors.ErrAlertNotFound
	}

	return alert, nil
}

// List returns alerts newest first. Stats always cover every alert.
func (srv *alertService) List(ctx context.Context, severity entity.Severity) (*usecase.AlertList, error) {
	if severity != "" && !severity.Valid() {
		return nil, domainerrors.ErrInvalidSeverity
	}

	alerts, err := srv.alertRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list alerts")
	}

	return &usecase.AlertList{
		Alerts: lo.Filter(alerts, func(a *entity.Alert, _ int) bool {
			return severity == "" || a.Severity == severity
		}),
		Stats: alertStats(alerts, srv.now()),
	}, nil
}

func alertStats(alerts []*entity.Alert, now time.Time) usecase.AlertStats {
	y, m, d := now.UTC().Date()
	startOfDay := entity.MillisOf(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))

	return usecase.AlertStats{
		Total:    len(alerts),
		Critical: lo.CountBy(alerts, func(a *entity.Alert) bool { return a.Severity == entity.SeverityCritical }),
		Warning:  lo.CountBy(alerts, func(a *entity.Alert) bool { return a.Severity == entity.SeverityWarning }),
		Today:    lo.CountBy(alerts, func(a *entity.Alert) bool { return a.Timestamp >= startOfDay }),
		Unacknowledged: lo.CountBy(alerts, func(a *entity.Alert) bool {
			return !a.Acknowledged
		}),
	}
}
