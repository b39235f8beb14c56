package errors

import (
	"fmt"
	"net/http"
	"strings"

	"cloudburst/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details != "" {
		return e.message + ": " + e.details
	}

	return e.message
}

// Is matches any BaseError carrying the same error code, so errors derived
// with WithDetails still match their predefined sentinel.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.errorCode == e.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	ErrMessageRequired = NewBaseError(
		http.StatusBadRequest,
		"MESSAGE_REQUIRED",
		"Please enter an alert message",
		"",
	)

	ErrMessageTooLong = NewBaseError(
		http.StatusBadRequest,
		"MESSAGE_TOO_LONG",
		"Alert message is too long",
		"",
	)

	ErrNoNodesSelected = NewBaseError(
		http.StatusBadRequest,
		"NO_NODES_SELECTED",
		"Please select at least one node",
		"",
	)

	ErrInvalidSeverity = NewBaseError(
		http.StatusBadRequest,
		"INVALID_SEVERITY",
		"Severity must be warning or critical",
		"",
	)

	ErrInvalidPhone = NewBaseError(
		http.StatusBadRequest,
		"INVALID_PHONE",
		"Phone number must be a valid 10-digit mobile number",
		"",
	)

	ErrInvalidCoordinates = NewBaseError(
		http.StatusBadRequest,
		"INVALID_COORDINATES",
		"Latitude must be between -90 and 90 and longitude between -180 and 180",
		"",
	)

	ErrResetNotConfirmed = NewBaseError(
		http.StatusBadRequest,
		"RESET_NOT_CONFIRMED",
		"Type DELETE to confirm the reset",
		"",
	)

	ErrInvalidSnapshot = NewBaseError(
		http.StatusBadRequest,
		"INVALID_SNAPSHOT",
		"Import file is not a valid snapshot",
		"",
	)

	// Node-related errors
	ErrNodeNotFound = NewBaseError(
		http.StatusNotFound,
		"NODE_NOT_FOUND",
		"Node not found",
		"",
	)

	ErrNodeAlreadyExists = NewBaseError(
		http.StatusConflict,
		"NODE_ALREADY_EXISTS",
		"Node ID already exists. Please choose a different ID",
		"",
	)

	// Alert-related errors
	ErrAlertNotFound = NewBaseError(
		http.StatusNotFound,
		"ALERT_NOT_FOUND",
		"Alert not found",
		"",
	)

	ErrAlertVerificationFailed = NewBaseError(
		http.StatusInternalServerError,
		"ALERT_VERIFICATION_FAILED",
		"Alert was not saved properly",
		"",
	)

	ErrAlertAlreadyAcknowledged = NewBaseError(
		http.StatusConflict,
		"ALERT_ALREADY_ACKNOWLEDGED",
		"Alert has already been acknowledged",
		"",
	)

	// Contact-related errors
	ErrContactNotFound = NewBaseError(
		http.StatusNotFound,
		"CONTACT_NOT_FOUND",
		"Contact not found",
		"",
	)

	// Notification-related errors
	ErrNotificationNotFound = NewBaseError(
		http.StatusNotFound,
		"NOTIFICATION_NOT_FOUND",
		"Notification not found",
		"",
	)

	ErrNotificationNotReadable = NewBaseError(
		http.StatusConflict,
		"NOTIFICATION_NOT_READABLE",
		"Only in-app notifications track reads",
		"",
	)

	// Export-related errors
	ErrArchiveNotConfigured = NewBaseError(
		http.StatusServiceUnavailable,
		"ARCHIVE_NOT_CONFIGURED",
		"Export bucket is not configured",
		"",
	)

	// Authentication-related errors
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Invalid username or password",
		"",
	)

	ErrUnauthorized = NewBaseError(
		http.StatusUnauthorized,
		"UNAUTHORIZED",
		"Missing or invalid access token",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)
)

// StoreError represents a record store failure, implementing the AppError interface
type StoreError struct {
	err     error
	details string
}

// NewStoreError creates a record store error
func NewStoreError(err error, details string) AppError {
	return &StoreError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *StoreError) Error() string {
	return errors.Wrap(e.err, "record store operation failed").Error()
}

// Unwrap returns the underlying store error
func (e *StoreError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *StoreError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *StoreError) ErrorCode() string {
	return "STORE_OPERATION_FAILED"
}

// Message returns the user-friendly error message
func (e *StoreError) Message() string {
	return "Record store operation failed"
}

// Details returns detailed error information
func (e *StoreError) Details() string {
	return e.details
}

// PartialLinkError reports that an alert was stored but could not be linked to
// every affected node. Nothing is rolled back.
type PartialLinkError struct {
	AlertID string
	Linked  []string
	Failed  []string
	Err     error
}

// Error implements the error interface
func (e *PartialLinkError) Error() string {
	return fmt.Sprintf("alert %s linked to %d of %d nodes (unlinked: %s): %v",
		e.AlertID, len(e.Linked), len(e.Linked)+len(e.Failed), strings.Join(e.Failed, ", "), e.Err)
}

// Unwrap returns the store error that stopped linkage
func (e *PartialLinkError) Unwrap() error {
	return e.Err
}

// HTTPCode returns the HTTP status code
func (e *PartialLinkError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *PartialLinkError) ErrorCode() string {
	return "ALERT_PARTIALLY_LINKED"
}

// Message returns the user-friendly error message
func (e *PartialLinkError) Message() string {
	return "Alert was created but could not be linked to every node"
}

// Details returns detailed error information
func (e *PartialLinkError) Details() string {
	return "unlinked nodes: " + strings.Join(e.Failed, ", ")
}
