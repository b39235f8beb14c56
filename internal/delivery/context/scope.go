// Package context carries per-request state between the HTTP layer, the push
// worker and the usecases.
package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ContextKey string

const (
	keyScope    ContextKey = "scope"
	keyRequest  ContextKey = "request_id"
	keyOperator ContextKey = "operator"

	HeaderXRequestID = "X-Request-Id"
)

// scope is stored once per request so lookups stay a single Value call.
type scope struct {
	requestID string
	logger    *slog.Logger
}

// WithScope attaches the request id and its logger to ctx.
func WithScope(ctx context.Context, requestID string, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, keyScope, scope{requestID: requestID, logger: logger})
}

// RequestIDFrom returns "" outside a request.
func RequestIDFrom(ctx context.Context) string {
	if s, ok := ctx.Value(keyScope).(scope); ok {
		return s.requestID
	}

	return ""
}

// LoggerFrom returns the request logger, or fallback outside a request.
func LoggerFrom(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if s, ok := ctx.Value(keyScope).(scope); ok && s.logger != nil {
		return s.logger
	}

	return fallback
}

func SetRequestID(c echo.Context, requestID string) {
	c.Set(string(keyRequest), requestID)
	c.Response().Header().Set(HeaderXRequestID, requestID)
}

// GetRequestID falls back to a fresh id for responses written before the
// request id middleware ran.
func GetRequestID(c echo.Context) string {
	if id, ok := c.Get(string(keyRequest)).(string); ok && id != "" {
		return id
	}

	return uuid.NewString()
}

func SetOperator(c echo.Context, username string) {
	c.Set(string(keyOperator), username)
}

// GetOperator returns "" for unauthenticated requests.
func GetOperator(c echo.Context) string {
	if name, ok := c.Get(string(keyOperator)).(string); ok {
		return name
	}

	return ""
}
