package usecase

import (
	"context"

	"cloudburst/internal/domain/entity"
)

// SendRequest is what a sender needs to notify about one alert
type SendRequest struct {
	AlertID       string
	Severity      entity.Severity
	Message       string
	Recipients    []string
	AffectedNodes []string
}

// SendOutcome is the result of one send attempt. A sender always returns an
// outcome, also when it fails.
type SendOutcome struct {
	Channel        entity.NotificationType `json:"channel"`
	Success        bool                    `json:"success"`
	Configured     bool                    `json:"configured"`
	Recipients     int                     `json:"recipients"`
	NotificationID string                  `json:"notificationId,omitempty"`
	DeliveryStatus string                  `json:"deliveryStatus,omitempty"`
	Error          string                  `json:"error,omitempty"`
}

// NotificationSender attempts a delivery and records its outcome as a notification
type NotificationSender interface {
	Channel() entity.NotificationType
	Send(ctx context.Context, req *SendRequest) (*SendOutcome, error)
}

// SMSStatus describes the SMS configuration without exposing credentials
type SMSStatus struct {
	Enabled     bool   `json:"enabled"`
	Configured  bool   `json:"configured"`
	Gateway     string `json:"gateway"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// NotificationUsecase defines the notification queries and read tracking
type NotificationUsecase interface {
	// ListForAlert returns an alert's notifications, newest first
	ListForAlert(ctx context.Context, alertID string) ([]*entity.Notification, error)

	// MarkRead adds user to an in-app notification's readers
	MarkRead(ctx context.Context, notificationID, user string) (*entity.Notification, error)

	// SMSStatus reports whether SMS delivery is configured
	SMSStatus() *SMSStatus
}
