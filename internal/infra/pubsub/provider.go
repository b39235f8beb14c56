package pubsub

import (
	"context"
	"log/slog"

	"cloudburst/config"
	"cloudburst/internal/domain/constants"
	"cloudburst/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type noopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher is used when no provider is configured; dispatch still
// succeeds and the event is only visible in debug logs.
func NewNoopPublisher(logger *slog.Logger) service.EventPublisher {
	return &noopPublisher{logger: logger}
}

func (p *noopPublisher) PublishAlertEvent(ctx context.Context, event *service.AlertEvent) error {
	p.logger.DebugContext(ctx, "Alert event not published, pubsub disabled",
		slog.String("alert_id", event.AlertID),
	)

	return nil
}

func (p *noopPublisher) Close() error {
	return nil
}

type PublisherParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func NewEventPublisher(params PublisherParams) (service.EventPublisher, error) {
	publisher, err := newPublisher(params.Ctx, params.Config.PubSub, params.Logger)
	if err != nil {
		return nil, err
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return publisher.Close()
		},
	})

	return publisher, nil
}

func newPublisher(ctx context.Context, cfg *config.PubSubConfig, logger *slog.Logger) (service.EventPublisher, error) {
	if cfg == nil || cfg.Provider == "" {
		logger.Info("Alert events disabled, no pubsub provider configured")

		return NewNoopPublisher(logger), nil
	}

	switch cfg.Provider {
	case constants.PubSubProviderLocal:
		if cfg.LocalEndpoint == "" {
			return nil, errors.New("pubsub.localEndpoint is required for the local provider")
		}
		logger.Info("Alert events pushed over HTTP", slog.String("endpoint", cfg.LocalEndpoint))

		return NewLocalHTTPPublisher(cfg.LocalEndpoint, logger), nil

	case constants.PubSubProviderGoogle:
		if cfg.ProjectID == "" || cfg.TopicID == "" {
			return nil, errors.New("pubsub.projectId and pubsub.topicId are required for the google provider")
		}
		logger.Info("Alert events published to Google Pub/Sub",
			slog.String("project_id", cfg.ProjectID),
			slog.String("topic_id", cfg.TopicID),
		)

		return NewGooglePubSubPublisher(ctx, cfg.ProjectID, cfg.TopicID, logger)

	default:
		return nil, errors.Errorf("unknown pubsub provider: %s", cfg.Provider)
	}
}

//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewEventPublisher),
)
