package notification

import (
	"context"
	"fmt"
	"log/slog"

	"cloudburst/config"
	"cloudburst/internal/domain/service"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/fx"
	"google.golang.org/api/option"
)

type firebaseService struct {
	client *messaging.Client
}

// NewFirebaseService creates a topic push service backed by Firebase Cloud Messaging
func NewFirebaseService(ctx context.Context, projectID, credentialsPath string) (service.PushService, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	var fbConfig *firebase.Config
	if projectID != "" {
		fbConfig = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	return &firebaseService{
		client: client,
	}, nil
}

// SendToTopic pushes a notification to every dashboard subscribed to topic
func (s *firebaseService) SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) (string, error) {
	message := &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	messageID, err := s.client.Send(ctx, message)
	if err != nil {
		return "", fmt.Errorf("failed to send topic notification: %w", err)
	}

	return messageID, nil
}

// PushParams holds dependencies for the push service, injected by Fx
type PushParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewPushService returns nil when no in-app topic is configured, which
// disables push fan-out without affecting stored in-app notifications.
func NewPushService(params PushParams) (service.PushService, error) {
	cfg := params.Config.Firebase
	if cfg == nil || cfg.InAppTopic == "" {
		params.Logger.Info("Firebase in-app topic not configured, push fan-out disabled")

		return nil, nil
	}

	params.Logger.Info("Using Firebase push for in-app notifications",
		slog.String("topic", cfg.InAppTopic),
	)

	return NewFirebaseService(params.Ctx, cfg.ProjectID, cfg.CredentialsPath)
}

// Module provides the push notification FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewPushService),
)
