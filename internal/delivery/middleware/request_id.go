package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "cloudburst/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxRequestIDLength = 64

// RequestIDMiddleware assigns every request an id and a logger carrying it
type RequestIDMiddleware struct {
	logger *slog.Logger
}

// NewRequestIDMiddleware creates a new Request ID middleware
func NewRequestIDMiddleware(logger *slog.Logger) *RequestIDMiddleware {
	return &RequestIDMiddleware{
		logger: logger,
	}
}

// Process reuses a well-formed client request id or generates one, echoes it
// in the response and stores it with a request-scoped logger in the context.
func (m *RequestIDMiddleware) Process(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(deliverycontext.HeaderXRequestID)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}

		deliverycontext.SetRequestID(c, requestID)

		reqLogger := m.logger.With(
			slog.String("request_id", requestID),
			slog.String("method", c.Request().Method),
			slog.String("path", c.Path()),
		)

		c.SetRequest(c.Request().WithContext(deliverycontext.WithScope(c.Request().Context(), requestID, reqLogger)))

		return next(c)
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}

	return !strings.ContainsFunc(id, func(r rune) bool {
		return r < '!' || r > '~'
	})
}
