package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"cloudburst/config"
	"cloudburst/internal/delivery"
	apimiddleware "cloudburst/internal/delivery/api/middleware"
	"cloudburst/internal/delivery/api/router"
	"cloudburst/internal/delivery/api/validator"
	deliverycontext "cloudburst/internal/delivery/context"
	"cloudburst/internal/delivery/middleware"
	"cloudburst/internal/domain/lifecycle"
	"cloudburst/internal/errors"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"golang.org/x/net/http2"
)

// apiServer serves the dashboard REST API and the watch websockets.
type apiServer struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
}

type ServerParams struct {
	fx.In

	Lc           fx.Lifecycle
	Cfg          *config.Config
	Logger       *slog.Logger
	RouterParams router.RouterParams
}

func NewServer(params ServerParams) (delivery.Delivery, error) {
	echoServer := NewEcho(params.Cfg, params.Logger)

	r := router.NewRouter(params.RouterParams)
	r.RegisterRoutes(echoServer)

	srv := &apiServer{
		cfg:    params.Cfg,
		logger: params.Logger,
		server: echoServer,
	}

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

// NewEcho builds the echo instance with the middleware chain, error handler
// and validator but without routes.
func NewEcho(cfg *config.Config, logger *slog.Logger) *echo.Echo {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Server.ReadTimeout = cfg.HTTP.Timeouts.ReadTimeout
	echoServer.Server.ReadHeaderTimeout = cfg.HTTP.Timeouts.ReadHeaderTimeout
	echoServer.Server.WriteTimeout = cfg.HTTP.Timeouts.WriteTimeout
	echoServer.Server.IdleTimeout = cfg.HTTP.Timeouts.IdleTimeout

	// Deployed behind a load balancer, so client addresses come from X-Forwarded-For.
	echoServer.IPExtractor = echo.ExtractIPFromXFFHeader()

	// Order matters: recover first, request id before the access log
	echoServer.Use(echomiddleware.Recover())
	echoServer.Use(middleware.NewRequestIDMiddleware(logger).Process)
	echoServer.Use(middleware.NewLoggerMiddleware(logger, cfg).Handle)
	echoServer.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, deliverycontext.HeaderXRequestID},
		// The console reads the request id for support tickets and the export file name.
		ExposeHeaders: []string{deliverycontext.HeaderXRequestID, echo.HeaderContentDisposition},
	}))
	if cfg.HTTP.MaxRequestBodySize != "" {
		echoServer.Use(echomiddleware.BodyLimit(cfg.HTTP.MaxRequestBodySize))
	}

	echoServer.HTTPErrorHandler = apimiddleware.NewErrorMiddleware(logger).HandleHTTPError
	echoServer.Validator = validator.New()

	return echoServer
}

func (s *apiServer) Serve(ctx context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.HTTP.Port))
	s.logger.Info("Dashboard API listening", slog.String("addr", hostPort))
	h2 := &http2.Server{IdleTimeout: s.cfg.HTTP.Timeouts.IdleTimeout}
	if err := s.server.StartH2CServer(hostPort, h2); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}

	return nil
}

func (s *apiServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Dashboard API shutting down")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
