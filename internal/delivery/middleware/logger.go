package middleware

import (
	"log/slog"

	"cloudburst/config"

	"github.com/labstack/echo/v4"
	slogecho "github.com/samber/slog-echo"
)

// LoggerMiddleware writes an access log line per request. It is only active
// in debug mode.
type LoggerMiddleware struct {
	handle echo.MiddlewareFunc
}

// NewLoggerMiddleware creates the access log middleware
func NewLoggerMiddleware(logger *slog.Logger, cfg *config.Config) *LoggerMiddleware {
	if !cfg.Env.Debug {
		return &LoggerMiddleware{}
	}

	return &LoggerMiddleware{
		handle: slogecho.NewWithConfig(logger.With(slog.String("component", "http")), slogecho.Config{
			DefaultLevel:     slog.LevelInfo,
			ClientErrorLevel: slog.LevelWarn,
			ServerErrorLevel: slog.LevelError,
			WithRequestID:    true,
			WithUserAgent:    true,
			Filters: []slogecho.Filter{
				slogecho.IgnorePath("/health", "/metrics"),
			},
		}),
	}
}

// Handle logs the request when enabled
func (m *LoggerMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	if m.handle == nil {
		return next
	}

	return m.handle(next)
}
