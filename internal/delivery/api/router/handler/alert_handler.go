package handler

import (
	"net/http"
	"strings"

	"cloudburst/internal/delivery/api/response"
	"cloudburst/internal/delivery/api/validator"
	deliverycontext "cloudburst/internal/delivery/context"
	"cloudburst/internal/domain/entity"
	"cloudburst/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AlertHandlerParams holds dependencies for AlertHandler, injected by Fx.
type AlertHandlerParams struct {
	fx.In

	AlertUC        usecase.AlertUsecase
	NotificationUC usecase.NotificationUsecase
}

// AlertHandler serves the manual alert console
type AlertHandler struct {
	alertUC        usecase.AlertUsecase
	notificationUC usecase.NotificationUsecase
}

// NewAlertHandler is the constructor for AlertHandler
func NewAlertHandler(params AlertHandlerParams) *AlertHandler {
	return &AlertHandler{
		alertUC:        params.AlertUC,
		notificationUC: params.NotificationUC,
	}
}

// DispatchAlertRequest is the manual alert form
type DispatchAlertRequest struct {
	Severity      string   `json:"severity" validate:"required,severity"`
	Message       string   `json:"message"`
	AffectedNodes []string `json:"affectedNodes"`
	SendSMS       bool     `json:"sendSMS"`
}

// AcknowledgeAlertRequest optionally names who acknowledged the alert
type AcknowledgeAlertRequest struct {
	AcknowledgedBy string `json:"acknowledgedBy"`
}

// DispatchAlert creates an alert and notifies contacts. Message and node
// checks are left to the workflow so that the console gets its messages.
func (h *AlertHandler) DispatchAlert(c echo.Context) error {
	var req DispatchAlertRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid alert input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequestWithDetails(c, "VALIDATION_ERROR", "Severity must be warning or critical", validator.FieldErrors(err))
	}

	result, err := h.alertUC.Dispatch(c.Request().Context(), &usecase.DispatchInput{
		Severity:      entity.Severity(req.Severity),
		Message:       req.Message,
		AffectedNodes: req.AffectedNodes,
		SendSMS:       req.SendSMS,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, result)
}

// ListAlerts returns alerts newest first with stats
func (h *AlertHandler) ListAlerts(c echo.Context) error {
	list, err := h.alertUC.List(c.Request().Context(), entity.Severity(c.QueryParam("severity")))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, list)
}

// GetAlert returns one alert
func (h *AlertHandler) GetAlert(c echo.Context) error {
	alert, err := h.alertUC.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, alert)
}

// AcknowledgeAlert acknowledges an alert. Without a name in the body the
// authenticated operator is recorded.
func (h *AlertHandler) AcknowledgeAlert(c echo.Context) error {
	var req AcknowledgeAlertRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return response.BindingError(c, "INVALID_INPUT", "Invalid acknowledgement input")
		}
	}

	by := strings.TrimSpace(req.AcknowledgedBy)
	if by == "" {
		by = deliverycontext.GetOperator(c)
	}

	alert, err := h.alertUC.Acknowledge(c.Request().Context(), c.Param("id"), by)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, alert)
}

// ListAlertNotifications returns the notification records of an alert
func (h *AlertHandler) ListAlertNotifications(c echo.Context) error {
	ctx := c.Request().Context()
	if _, err := h.alertUC.Get(ctx, c.Param("id")); err != nil {
		return response.HandleAppError(c, err)
	}

	notifications, err := h.notificationUC.ListForAlert(ctx, c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, notifications)
}
