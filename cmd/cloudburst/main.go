package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"os"

	"cloudburst/config"
	"cloudburst/internal/delivery"
	"cloudburst/internal/delivery/api"
	"cloudburst/internal/delivery/api/middleware"
	"cloudburst/internal/delivery/api/router/handler"
	"cloudburst/internal/delivery/worker"
	workerhandler "cloudburst/internal/delivery/worker/handler"
	"cloudburst/internal/domain/service"
	"cloudburst/internal/errors"
	"cloudburst/internal/infra/archive"
	"cloudburst/internal/infra/auth"
	logs "cloudburst/internal/infra/log"
	"cloudburst/internal/infra/metrics"
	"cloudburst/internal/infra/notification"
	"cloudburst/internal/infra/persistence/records"
	"cloudburst/internal/infra/pubsub"
	"cloudburst/internal/infra/qrcode"
	"cloudburst/internal/infra/sms"
	"cloudburst/internal/infra/store"
	"cloudburst/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
		),
		metrics.Module,
		store.Module,
	)
}

func injectRepo() fx.Option {
	return records.Module
}

func injectService() fx.Option {
	return fx.Options(
		sms.Module,
		notification.Module,
		pubsub.Module,
		archive.Module,
		fx.Provide(
			auth.NewBcryptHasher,
			newTokenService,
			newQRCodeService,
			func(m *metrics.Metrics) service.MetricsRecorder { return m },
		),
	)
}

// newTokenService signs tokens with auth.secretKey. Without authentication a
// random per-process secret is used, so tokens never outlive a restart.
func newTokenService(cfg *config.Config, logger *slog.Logger) (service.TokenService, error) {
	if cfg.Auth.SecretKey == "" {
		if cfg.Auth.Enabled {
			return nil, errors.New("auth.secretKey is required when auth is enabled")
		}

		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, errors.Wrap(err, "generate token secret")
		}
		cfg.Auth.SecretKey = hex.EncodeToString(secret)
		logger.Info("Admin authentication disabled, mutating routes are open")
	}

	return auth.NewJWTService(cfg)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		return qrcode.NewQRCodeService(256, "M", "")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel, cfg.QRCode.BaseURL)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				impl.NewSMSSender,
				fx.ResultTags(`name:"smsSender"`),
			),
			fx.Annotate(
				impl.NewInAppSender,
				fx.ResultTags(`name:"inAppSender"`),
			),
			impl.NewAlertService,
			impl.NewNodeService,
			impl.NewContactService,
			impl.NewNotificationService,
			impl.NewLogService,
			impl.NewDataService,
			impl.NewAuthService,
			impl.NewWatchService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAlertHandler,
			handler.NewNodeHandler,
			handler.NewContactHandler,
			handler.NewNotificationHandler,
			handler.NewLogHandler,
			handler.NewDataHandler,
			handler.NewAuthHandler,
			handler.NewWatchHandler,
			workerhandler.NewReadingHandler,
			func(m *metrics.Metrics) handler.ConnectionGauge { return m.WatchClients },
			fx.Annotate(
				func(m *metrics.Metrics) http.Handler { return m.Handler() },
				fx.ResultTags(`name:"metricsHandler"`),
			),
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
			fx.Annotate(
				worker.NewServers,
				fx.ResultTags(`group:"deliveries,flatten"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
