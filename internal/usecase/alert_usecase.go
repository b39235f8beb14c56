package usecase

import (
	"context"

	"cloudburst/internal/domain/entity"
)

// DispatchInput is a manual alert as submitted from the admin console
type DispatchInput struct {
	Severity      entity.Severity
	Message       string
	AffectedNodes []string
	SendSMS       bool
}

// DispatchResult reports what the dispatch workflow did
type DispatchResult struct {
	AlertID        string        `json:"alertId"`
	Alert          *entity.Alert `json:"alert"`
	RecipientCount int           `json:"recipientCount"`
	NodeCount      int           `json:"nodeCount"`
	SMS            *SendOutcome  `json:"sms,omitempty"`
	SMSSent        bool          `json:"smsSent"`
	InApp          *SendOutcome  `json:"inApp"`
}

// AlertStats summarises the alert list
type AlertStats struct {
	Total          int `json:"total"`
	Critical       int `json:"critical"`
	Warning        int `json:"warning"`
	Today          int `json:"today"`
	Unacknowledged int `json:"unacknowledged"`
}

// AlertList is a filtered list of alerts, newest first, with stats over all alerts
type AlertList struct {
	Alerts []*entity.Alert `json:"alerts"`
	Stats  AlertStats      `json:"stats"`
}

// AlertUsecase defines the alert dispatch and management use cases
type AlertUsecase interface {
	// Dispatch validates, stores and links a manual alert, then notifies contacts
	Dispatch(ctx context.Context, input *DispatchInput) (*DispatchResult, error)

	// Acknowledge marks the alert and its node back-references acknowledged
	Acknowledge(ctx context.Context, alertID, acknowledgedBy string) (*entity.Alert, error)

	// Get returns one alert
	Get(ctx context.Context, alertID string) (*entity.Alert, error)

	// List returns alerts, optionally restricted to one severity
	List(ctx context.Context, severity entity.Severity) (*AlertList, error)
}
