package worker

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"cloudburst/config"
	"cloudburst/internal/delivery"
	apihandler "cloudburst/internal/delivery/api/router/handler"
	"cloudburst/internal/delivery/middleware"
	"cloudburst/internal/delivery/worker/handler"
	"cloudburst/internal/domain/lifecycle"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	pushPath      = "/push/readings"
	pushBodyLimit = "1MB"
)

type workerServer struct {
	port   int
	logger *slog.Logger
	server *echo.Echo
}

type ServerParams struct {
	fx.In

	Lc             fx.Lifecycle
	Cfg            *config.Config
	Logger         *slog.Logger
	ReadingHandler *handler.ReadingHandler
}

// NewServers returns the ingestion server that receives gateway readings
// from a Pub/Sub push subscription, or nothing when ingest is disabled.
func NewServers(params ServerParams) ([]delivery.Delivery, error) {
	cfg := params.Cfg.Ingest
	if cfg == nil || !cfg.Enabled {
		params.Logger.Info("Pub/Sub reading ingestion disabled")

		return nil, nil
	}
	if cfg.Port == params.Cfg.HTTP.Port {
		return nil, errors.Errorf("ingest.port %d collides with http.port", cfg.Port)
	}

	e := NewEcho(params.Cfg, params.Logger, params.ReadingHandler)

	srv := &workerServer{
		port:   cfg.Port,
		logger: params.Logger,
		server: e,
	}

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return []delivery.Delivery{srv}, nil
}

// NewEcho builds the push endpoint. Push bodies hold a single reading, so
// the body limit is far below the dashboard's.
func NewEcho(cfg *config.Config, logger *slog.Logger, readings *handler.ReadingHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadHeaderTimeout = cfg.HTTP.Timeouts.ReadHeaderTimeout
	e.Server.WriteTimeout = cfg.HTTP.Timeouts.WriteTimeout

	e.Use(echomiddleware.Recover())
	e.Use(middleware.NewRequestIDMiddleware(logger).Process)
	e.Use(middleware.NewLoggerMiddleware(logger, cfg).Handle)
	e.Use(echomiddleware.BodyLimit(pushBodyLimit))

	e.GET("/health", apihandler.HealthCheck)
	e.POST(pushPath, readings.HandlePush)

	return e
}

func (s *workerServer) Serve(ctx context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.port))
	s.logger.Info("Reading ingestion listening", slog.String("addr", hostPort), slog.String("path", pushPath))
	if err := s.server.Start(hostPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}

	return nil
}

func (s *workerServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Reading ingestion shutting down")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
