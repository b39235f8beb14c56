package pubsub

import (
	"context"
	"log/slog"
	"time"

	"cloudburst/internal/domain/service"

	"cloud.google.com/go/pubsub/v2"
	pubsubpb "cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/pkg/errors"
)

// Alerts are rare and urgent, so batching is effectively off.
const (
	alertPublishDelay   = 5 * time.Millisecond
	alertPublishTimeout = 15 * time.Second
)

type googlePublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topic     string
	logger    *slog.Logger
}

// NewGooglePubSubPublisher connects to projectID and fails fast when the
// alert topic does not exist.
func NewGooglePubSubPublisher(ctx context.Context, projectID, topicID string, logger *slog.Logger) (service.EventPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.Wrap(err, "create pubsub client")
	}

	topic := "projects/" + projectID + "/topics/" + topicID
	if _, err := client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: topic}); err != nil {
		_ = client.Close()

		return nil, errors.Wrapf(err, "alert topic %s", topic)
	}

	publisher := client.Publisher(topicID)
	publisher.PublishSettings.CountThreshold = 1
	publisher.PublishSettings.DelayThreshold = alertPublishDelay
	publisher.PublishSettings.Timeout = alertPublishTimeout

	return &googlePublisher{
		client:    client,
		publisher: publisher,
		topic:     topic,
		logger:    logger.With(slog.String("component", "pubsub.google")),
	}, nil
}

func (p *googlePublisher) PublishAlertEvent(ctx context.Context, event *service.AlertEvent) error {
	data, attrs, err := encodeAlertEvent(event)
	if err != nil {
		return err
	}

	serverID, err := p.publisher.Publish(ctx, &pubsub.Message{Data: data, Attributes: attrs}).Get(ctx)
	if err != nil {
		return errors.Wrapf(err, "publish alert %s to %s", event.AlertID, p.topic)
	}

	p.logger.InfoContext(ctx, "Alert event published",
		slog.String("alert_id", event.AlertID),
		slog.String("severity", event.Severity),
		slog.String("message_id", serverID),
	)

	return nil
}

// Close flushes pending messages before closing the client.
func (p *googlePublisher) Close() error {
	p.publisher.Stop()

	return errors.WithStack(p.client.Close())
}
