package response

import (
	"net/http"

	deliverycontext "cloudburst/internal/delivery/context"
	domainerrors "cloudburst/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SuccessResponse defines the structure for successful responses
type SuccessResponse struct {
	Data any       `json:"data"`
	Meta *MetaInfo `json:"meta"`
}

// ErrorResponse defines the structure for error responses
type ErrorResponse struct {
	Error *ErrorInfo `json:"error"`
	Meta  *MetaInfo  `json:"meta"`
}

// ErrorInfo contains detailed error information
type ErrorInfo struct {
	Code    string `json:"code"`              // Machine-readable error code, e.g. "NODE_NOT_FOUND"
	Message string `json:"message"`           // Operator-facing message
	Details any    `json:"details,omitempty"` // Additional context, never sent for auth errors
}

// MetaInfo represents response metadata
type MetaInfo struct {
	RequestID string `json:"request_id"`
}

// PartialLinkDetails is sent with ALERT_PARTIALLY_LINKED so the console can
// show which nodes are missing the alert.
type PartialLinkDetails struct {
	AlertID string   `json:"alertId"`
	Linked  []string `json:"linked"`
	Failed  []string `json:"failed"`
}

// Success returns a successful response
func Success(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, SuccessResponse{
		Data: data,
		Meta: &MetaInfo{
			RequestID: deliverycontext.GetRequestID(c),
		},
	})
}

// Error returns an error response
func Error(c echo.Context, statusCode int, errorCode string, message string, details any) error {
	if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		details = nil
	}

	return c.JSON(statusCode, ErrorResponse{
		Error: &ErrorInfo{
			Code:    errorCode,
			Message: message,
			Details: details,
		},
		Meta: &MetaInfo{
			RequestID: deliverycontext.GetRequestID(c),
		},
	})
}

// BadRequest returns a 400 error
func BadRequest(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, nil)
}

// BadRequestWithDetails returns a 400 error with details
func BadRequestWithDetails(c echo.Context, errorCode string, message string, details any) error {
	return Error(c, http.StatusBadRequest, errorCode, message, details)
}

// BindingError returns a binding error response
func BindingError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, nil)
}

// Unauthorized returns a 401 error
func Unauthorized(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusUnauthorized, errorCode, message, nil)
}

// NotFound returns a 404 error
func NotFound(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusNotFound, errorCode, message, nil)
}

// InternalServerError returns a 500 error
func InternalServerError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusInternalServerError, errorCode, message, nil)
}

// HandleAppError converts domain errors to responses. Details of client
// errors are passed through; server errors only carry partial link details.
// Any other error is returned for the central error handler.
func HandleAppError(c echo.Context, err error) error {
	var partial *domainerrors.PartialLinkError
	if errors.As(err, &partial) {
		return Error(c, partial.HTTPCode(), partial.ErrorCode(), partial.Message(), &PartialLinkDetails{
			AlertID: partial.AlertID,
			Linked:  partial.Linked,
			Failed:  partial.Failed,
		})
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		var details any
		if appErr.HTTPCode() < http.StatusInternalServerError && appErr.Details() != "" {
			details = appErr.Details()
		}

		return Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), details)
	}

	return errors.WithStack(err)
}
