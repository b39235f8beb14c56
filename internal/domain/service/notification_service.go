package service

import (
	"context"
)

// PushService fans in-app notifications out to dashboard clients
type PushService interface {
	// SendToTopic pushes a notification to every device subscribed to topic
	SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) (messageID string, err error)
}
