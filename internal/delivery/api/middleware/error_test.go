package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "cloudburst/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestHandleHTTPError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "app error", err: errors.WithStack(domainerrors.ErrNodeNotFound), wantStatus: http.StatusNotFound, wantCode: "NODE_NOT_FOUND"},
		{name: "unknown route", err: echo.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: "ROUTE_NOT_FOUND"},
		{name: "wrong method", err: echo.ErrMethodNotAllowed, wantStatus: http.StatusMethodNotAllowed, wantCode: "METHOD_NOT_ALLOWED"},
		{name: "other http error", err: echo.NewHTTPError(http.StatusTeapot), wantStatus: http.StatusTeapot, wantCode: "HTTP_ERROR"},
		{name: "plain error", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	m := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
	e := echo.New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/nodes/N1", nil), rec)

			m.HandleHTTPError(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestHandleHTTPError_CommittedResponse(t *testing.T) {
	m := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, c.String(http.StatusOK, "done"))

	m.HandleHTTPError(errors.New("late"), c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}
