package handler

import (
	"net/http"
	"strings"

	"cloudburst/internal/delivery/api/response"
	deliverycontext "cloudburst/internal/delivery/context"
	"cloudburst/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// NotificationHandlerParams holds dependencies for NotificationHandler, injected by Fx.
type NotificationHandlerParams struct {
	fx.In

	NotificationUC usecase.NotificationUsecase
}

// NotificationHandler serves notification read tracking and SMS status
type NotificationHandler struct {
	notificationUC usecase.NotificationUsecase
}

// NewNotificationHandler is the constructor for NotificationHandler
func NewNotificationHandler(params NotificationHandlerParams) *NotificationHandler {
	return &NotificationHandler{notificationUC: params.NotificationUC}
}

// MarkReadRequest optionally names the reader
type MarkReadRequest struct {
	User string `json:"user"`
}

// MarkRead records that a user has read an in-app notification
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	var req MarkReadRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return response.BindingError(c, "INVALID_INPUT", "Invalid read receipt")
		}
	}

	user := strings.TrimSpace(req.User)
	if user == "" {
		user = deliverycontext.GetOperator(c)
	}

	notification, err := h.notificationUC.MarkRead(c.Request().Context(), c.Param("id"), user)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, notification)
}

// GetSMSStatus reports whether SMS delivery is configured
func (h *NotificationHandler) GetSMSStatus(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.notificationUC.SMSStatus())
}
