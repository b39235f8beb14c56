package handler

import (
	"net/http"
	"strconv"

	"cloudburst/internal/delivery/api/response"
	"cloudburst/internal/domain/entity"
	"cloudburst/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// LogHandlerParams holds dependencies for LogHandler, injected by Fx.
type LogHandlerParams struct {
	fx.In

	LogUC usecase.LogUsecase
}

// LogHandler serves the audit log
type LogHandler struct {
	logUC usecase.LogUsecase
}

// NewLogHandler is the constructor for LogHandler
func NewLogHandler(params LogHandlerParams) *LogHandler {
	return &LogHandler{logUC: params.LogUC}
}

// ListLogs returns the newest audit entries
func (h *LogHandler) ListLogs(c echo.Context) error {
	query := &usecase.LogQuery{
		Type:   entity.LogType(c.QueryParam("type")),
		Search: c.QueryParam("search"),
	}

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return response.BadRequest(c, "INVALID_LIMIT", "limit must be a positive number")
		}
		query.Limit = limit
	}

	entries, err := h.logUC.List(c.Request().Context(), query)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, entries)
}
