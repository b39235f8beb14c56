package handler

import (
	"io"
	"net/http"

	"cloudburst/internal/delivery/api/response"
	"cloudburst/internal/delivery/api/validator"
	"cloudburst/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// DataHandlerParams holds dependencies for DataHandler, injected by Fx.
type DataHandlerParams struct {
	fx.In

	DataUC usecase.DataUsecase
}

// DataHandler serves export, import and maintenance operations
type DataHandler struct {
	dataUC usecase.DataUsecase
}

// NewDataHandler is the constructor for DataHandler
func NewDataHandler(params DataHandlerParams) *DataHandler {
	return &DataHandler{dataUC: params.DataUC}
}

// CleanupRequest selects the history retention in days
type CleanupRequest struct {
	Days int `json:"days" validate:"required,gt=0"`
}

// ResetRequest carries the typed confirmation
type ResetRequest struct {
	Confirmation string `json:"confirmation"`
}

// Export downloads a snapshot of nodes, alerts, contacts and logs
func (h *DataHandler) Export(c echo.Context) error {
	snapshot, err := h.dataUC.Export(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="cloudburst-export-`+snapshot.ExportDate+`.json"`)

	return c.JSON(http.StatusOK, snapshot)
}

// Archive stores a snapshot in the export bucket
func (h *DataHandler) Archive(c echo.Context) error {
	result, err := h.dataUC.Archive(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, result)
}

// Import overwrites the collections present in an uploaded snapshot
func (h *DataHandler) Import(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Could not read import file")
	}

	result, err := h.dataUC.Import(c.Request().Context(), body)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result)
}

// Cleanup removes history entries older than the given number of days
func (h *DataHandler) Cleanup(c echo.Context) error {
	var req CleanupRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cleanup input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequestWithDetails(c, "VALIDATION_ERROR", "days must be a positive number", validator.FieldErrors(err))
	}

	result, err := h.dataUC.Cleanup(c.Request().Context(), req.Days)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result)
}

// Reset deletes all nodes, alerts, contacts and logs
func (h *DataHandler) Reset(c echo.Context) error {
	var req ResetRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reset input")
	}

	if err := h.dataUC.Reset(c.Request().Context(), req.Confirmation); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "All data has been reset"})
}
