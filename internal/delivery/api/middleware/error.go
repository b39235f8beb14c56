package middleware

import (
	"log/slog"
	"net/http"

	"cloudburst/internal/delivery/api/response"
	deliverycontext "cloudburst/internal/delivery/context"
	domainerrors "cloudburst/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware renders every error returned by a handler as the JSON error
// envelope. It is installed as echo's HTTPErrorHandler.
type ErrorMiddleware struct {
	logger *slog.Logger
}

func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{logger: logger}
}

// frameworkErrorCodes covers errors raised by echo itself before a handler runs.
//
//nolint:gochecknoglobals
var frameworkErrorCodes = map[int]string{
	http.StatusNotFound:              "ROUTE_NOT_FOUND",
	http.StatusMethodNotAllowed:      "METHOD_NOT_ALLOWED",
	http.StatusRequestEntityTooLarge: "PAYLOAD_TOO_LARGE",
	http.StatusUnsupportedMediaType:  "UNSUPPORTED_MEDIA_TYPE",
}

func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	logger := deliverycontext.LoggerFrom(c.Request().Context(), m.logger)

	var appErr domainerrors.AppError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			logger.Error("Request failed", slog.String("code", appErr.ErrorCode()), slog.Any("error", err))
		}
		_ = response.HandleAppError(c, err)

	case errors.As(err, &httpErr):
		code, ok := frameworkErrorCodes[httpErr.Code]
		if !ok {
			code = "HTTP_ERROR"
		}
		message, ok := httpErr.Message.(string)
		if !ok || message == "" {
			message = http.StatusText(httpErr.Code)
		}
		_ = response.Error(c, httpErr.Code, code, message, nil)

	default:
		logger.Error("Unhandled error", slog.Any("error", err))
		_ = response.InternalServerError(c, "INTERNAL_ERROR", "Internal server error, please try again later")
	}
}
