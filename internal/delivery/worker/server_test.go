package worker

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cloudburst/config"
	"cloudburst/internal/delivery/worker/handler"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func testParams(t *testing.T, ingest *config.IngestConfig) ServerParams {
	t.Helper()

	cfg := &config.Config{Ingest: ingest}
	cfg.HTTP.Port = 8080
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return ServerParams{
		Lc:             fxtest.NewLifecycle(t),
		Cfg:            cfg,
		Logger:         logger,
		ReadingHandler: handler.NewReadingHandler(handler.ReadingHandlerParams{Config: cfg, Logger: logger}),
	}
}

func TestNewServers(t *testing.T) {
	servers, err := NewServers(testParams(t, nil))
	require.NoError(t, err)
	assert.Empty(t, servers)

	servers, err = NewServers(testParams(t, &config.IngestConfig{Enabled: false, Port: 8081}))
	require.NoError(t, err)
	assert.Empty(t, servers)

	servers, err = NewServers(testParams(t, &config.IngestConfig{Enabled: true, Port: 8081}))
	require.NoError(t, err)
	assert.Len(t, servers, 1)

	_, err = NewServers(testParams(t, &config.IngestConfig{Enabled: true, Port: 8080}))
	assert.Error(t, err)
}

func TestNewEcho_Routes(t *testing.T) {
	params := testParams(t, &config.IngestConfig{Enabled: true, Port: 8081})
	e := NewEcho(params.Cfg, params.Logger, params.ReadingHandler)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	req := httptest.NewRequest(http.MethodPost, pushPath, strings.NewReader(`{"message":{"data":"bm90IGpzb24="}}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
