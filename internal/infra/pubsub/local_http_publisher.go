package pubsub

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"cloudburst/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	localSubscription = "projects/local/subscriptions/cloudburst-alerts"
	localAttempts     = 2
	localRetryDelay   = 200 * time.Millisecond
)

// pushEnvelope is the body Pub/Sub delivers to push subscriptions.
type pushEnvelope struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// localHTTPPublisher emulates a push subscription by POSTing envelopes to a
// consumer running on the developer machine.
type localHTTPPublisher struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

func NewLocalHTTPPublisher(endpoint string, logger *slog.Logger) service.EventPublisher {
	return &localHTTPPublisher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger.With(slog.String("component", "pubsub.local")),
	}
}

// PublishAlertEvent retries once when the consumer answers 5xx or is unreachable.
func (p *localHTTPPublisher) PublishAlertEvent(ctx context.Context, event *service.AlertEvent) error {
	data, attrs, err := encodeAlertEvent(event)
	if err != nil {
		return err
	}

	var envelope pushEnvelope
	envelope.Subscription = localSubscription
	envelope.Message.Data = base64.StdEncoding.EncodeToString(data)
	envelope.Message.Attributes = attrs
	envelope.Message.MessageID = event.AlertID
	envelope.Message.PublishTime = time.Now().UTC().Format(time.RFC3339Nano)

	body, err := json.Marshal(envelope)
	if err != nil {
		return errors.Wrap(err, "encode push envelope")
	}

	var lastErr error
	for attempt := 1; attempt <= localAttempts; attempt++ {
		retry, err := p.post(ctx, body, event.RequestID)
		if err == nil {
			p.logger.InfoContext(ctx, "Alert event delivered",
				slog.String("alert_id", event.AlertID),
				slog.Int("attempt", attempt),
			)

			return nil
		}
		lastErr = err
		if !retry || attempt == localAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return errors.WithStack(ctx.Err())
		case <-time.After(localRetryDelay):
		}
	}

	return lastErr
}

// post reports whether a failed delivery is worth retrying.
func (p *localHTTPPublisher) post(ctx context.Context, body []byte, requestID string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return false, errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set("X-Request-Id", requestID)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return ctx.Err() == nil, errors.Wrap(err, "post alert event")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return false, nil
	case resp.StatusCode >= 500:
		return true, errors.Errorf("alert consumer returned %d", resp.StatusCode)
	default:
		return false, errors.Errorf("alert consumer rejected event with %d", resp.StatusCode)
	}
}

func (p *localHTTPPublisher) Close() error {
	p.client.CloseIdleConnections()

	return nil
}
