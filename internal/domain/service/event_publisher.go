package service

import (
	"context"
)

// AlertEvent announces a dispatched alert to downstream consumers
type AlertEvent struct {
	RequestID      string   `json:"request_id,omitempty"` // For distributed tracing
	AlertID        string   `json:"alert_id"`
	Severity       string   `json:"severity"`
	Message        string   `json:"message"`
	AffectedNodes  []string `json:"affected_nodes"`
	RecipientCount int      `json:"recipient_count"`
	Timestamp      int64    `json:"timestamp"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishAlertEvent publishes an alert event
	PublishAlertEvent(ctx context.Context, event *AlertEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
