package context

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestScope(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))
	reqLogger := fallback.With(slog.String("request_id", "req-1"))

	ctx := context.Background()
	assert.Empty(t, RequestIDFrom(ctx))
	assert.Same(t, fallback, LoggerFrom(ctx, fallback))

	ctx = WithScope(ctx, "req-1", reqLogger)
	assert.Equal(t, "req-1", RequestIDFrom(ctx))
	assert.Same(t, reqLogger, LoggerFrom(ctx, fallback))

	assert.Same(t, fallback, LoggerFrom(WithScope(context.Background(), "req-2", nil), fallback))
}

func TestEchoRequestIDAndOperator(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	assert.NotEmpty(t, GetRequestID(c))
	assert.Empty(t, GetOperator(c))

	SetRequestID(c, "req-9")
	SetOperator(c, "admin")

	assert.Equal(t, "req-9", GetRequestID(c))
	assert.Equal(t, "req-9", rec.Header().Get(HeaderXRequestID))
	assert.Equal(t, "admin", GetOperator(c))
}
