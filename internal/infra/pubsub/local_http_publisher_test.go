package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"cloudburst/config"
	"cloudburst/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLocalHTTPPublisher_PublishAlertEvent(t *testing.T) {
	var got pushEnvelope
	var requestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	publisher := NewLocalHTTPPublisher(srv.URL, discardLogger())
	event := &service.AlertEvent{
		RequestID:      "req-1",
		AlertID:        "alert_1",
		Severity:       "critical",
		Message:        "Flash flood",
		AffectedNodes:  []string{"N1", "N2"},
		RecipientCount: 2,
	}

	require.NoError(t, publisher.PublishAlertEvent(context.Background(), event))

	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, localSubscription, got.Subscription)
	assert.Equal(t, "alert_1", got.Message.MessageID)
	assert.Equal(t, "critical", got.Message.Attributes["severity"])
	assert.Equal(t, "2", got.Message.Attributes["node_count"])

	data, err := base64.StdEncoding.DecodeString(got.Message.Data)
	require.NoError(t, err)
	var decoded service.AlertEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"N1", "N2"}, decoded.AffectedNodes)
}

func TestLocalHTTPPublisher_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	publisher := NewLocalHTTPPublisher(srv.URL, discardLogger())
	require.NoError(t, publisher.PublishAlertEvent(context.Background(), &service.AlertEvent{AlertID: "alert_1"}))
	assert.Equal(t, int32(2), calls.Load())
}

func TestLocalHTTPPublisher_Failures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCalls int32
	}{
		{name: "client error is not retried", status: http.StatusBadRequest, wantCalls: 1},
		{name: "server error gives up after retry", status: http.StatusInternalServerError, wantCalls: localAttempts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			publisher := NewLocalHTTPPublisher(srv.URL, discardLogger())
			err := publisher.PublishAlertEvent(context.Background(), &service.AlertEvent{AlertID: "alert_1"})

			assert.Error(t, err)
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestEncodeAlertEvent_RequiresAlertID(t *testing.T) {
	_, _, err := encodeAlertEvent(&service.AlertEvent{})
	assert.Error(t, err)

	_, _, err = encodeAlertEvent(nil)
	assert.Error(t, err)
}

func TestNewPublisher_Config(t *testing.T) {
	ctx := context.Background()

	publisher, err := newPublisher(ctx, nil, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &noopPublisher{}, publisher)

	publisher, err = newPublisher(ctx, &config.PubSubConfig{Provider: "local", LocalEndpoint: "http://localhost:9000"}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &localHTTPPublisher{}, publisher)

	_, err = newPublisher(ctx, &config.PubSubConfig{Provider: "local"}, discardLogger())
	assert.Error(t, err)

	_, err = newPublisher(ctx, &config.PubSubConfig{Provider: "google", ProjectID: "p"}, discardLogger())
	assert.Error(t, err)

	_, err = newPublisher(ctx, &config.PubSubConfig{Provider: "kafka"}, discardLogger())
	assert.Error(t, err)
}
