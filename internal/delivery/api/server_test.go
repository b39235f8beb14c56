package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cloudburst/config"
	apimiddleware "cloudburst/internal/delivery/api/middleware"
	"cloudburst/internal/delivery/api/router"
	"cloudburst/internal/delivery/api/router/handler"
	deliverycontext "cloudburst/internal/delivery/context"
	"cloudburst/internal/infra/archive"
	"cloudburst/internal/infra/auth"
	"cloudburst/internal/infra/metrics"
	"cloudburst/internal/infra/persistence/records"
	"cloudburst/internal/infra/pubsub"
	"cloudburst/internal/infra/qrcode"
	"cloudburst/internal/infra/sms"
	"cloudburst/internal/infra/store/memory"
	"cloudburst/internal/usecase/impl"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "monsoon-2026"

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

func testConfig(t *testing.T, authEnabled bool) *config.Config {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		Store:  &config.StoreConfig{Provider: "memory"},
		SMS:    &config.SMSConfig{Gateway: "simulated"},
		Alert:  &config.AlertConfig{MaxMessageLength: 500, InAppExpiry: time.Hour},
		Logs:   &config.LogsConfig{SubscriptionLimit: 100},
		QRCode: &config.QRCodeConfig{Size: 128, ErrorCorrectionLevel: "M", BaseURL: "http://localhost:3000"},
		Auth: &config.AuthConfig{
			Enabled:           authEnabled,
			AdminUser:         "admin",
			AdminPasswordHash: string(hash),
			SecretKey:         "test-secret",
			TokenTTL:          time.Hour,
		},
	}

	return cfg
}

func newTestEcho(t *testing.T, cfg *config.Config) *echo.Echo {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	nodeRepo := records.NewNodeRepository(store)
	contactRepo := records.NewContactRepository(store)
	alertRepo := records.NewAlertRepository(store)
	notificationRepo := records.NewNotificationRepository(store)
	logRepo := records.NewLogRepository(store)
	recorder := metrics.New()

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	authUC := impl.NewAuthService(impl.AuthServiceParams{
		Config: cfg, Hasher: auth.NewBcryptHasherWithCost(bcrypt.MinCost), TokenService: tokens, Logger: logger,
	})
	notificationUC := impl.NewNotificationService(impl.NotificationServiceParams{
		Config: cfg, NotificationRepo: notificationRepo, Logger: logger,
	})
	alertUC := impl.NewAlertService(impl.AlertServiceParams{
		Config:      cfg,
		NodeRepo:    nodeRepo,
		ContactRepo: contactRepo,
		AlertRepo:   alertRepo,
		LogRepo:     logRepo,
		SMSSender: impl.NewSMSSender(impl.SMSSenderParams{
			Config: cfg, Gateway: sms.NewSimulatedGateway(logger), NotificationRepo: notificationRepo,
			LogRepo: logRepo, Recorder: recorder, Logger: logger,
		}),
		InAppSender: impl.NewInAppSender(impl.InAppSenderParams{
			Config: cfg, NotificationRepo: notificationRepo, Logger: logger,
		}),
		Publisher: pubsub.NewNoopPublisher(logger),
		Recorder:  recorder,
		Logger:    logger,
	})

	e := NewEcho(cfg, logger)
	router.NewRouter(router.RouterParams{
		AlertHandler: handler.NewAlertHandler(handler.AlertHandlerParams{AlertUC: alertUC, NotificationUC: notificationUC}),
		NodeHandler: handler.NewNodeHandler(handler.NodeHandlerParams{NodeUC: impl.NewNodeService(impl.NodeServiceParams{
			NodeRepo: nodeRepo, LogRepo: logRepo, Logger: logger,
			QRCode: qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel, cfg.QRCode.BaseURL),
		})}),
		ContactHandler: handler.NewContactHandler(handler.ContactHandlerParams{ContactUC: impl.NewContactService(impl.ContactServiceParams{
			ContactRepo: contactRepo, LogRepo: logRepo, Logger: logger,
		})}),
		NotificationHandler: handler.NewNotificationHandler(handler.NotificationHandlerParams{NotificationUC: notificationUC}),
		LogHandler:          handler.NewLogHandler(handler.LogHandlerParams{LogUC: impl.NewLogService(impl.LogServiceParams{LogRepo: logRepo})}),
		DataHandler: handler.NewDataHandler(handler.DataHandlerParams{DataUC: impl.NewDataService(impl.DataServiceParams{
			Store: store, NodeRepo: nodeRepo, LogRepo: logRepo, Archive: archive.NewDisabledArchive(), Logger: logger,
		})}),
		AuthHandler: handler.NewAuthHandler(handler.AuthHandlerParams{AuthUC: authUC}),
		WatchHandler: handler.NewWatchHandler(handler.WatchHandlerParams{
			WatchUC: impl.NewWatchService(impl.WatchServiceParams{Config: cfg, Store: store, Logger: logger}),
			Gauge:   recorder.WatchClients,
			Logger:  logger,
		}),
		AuthMiddleware: apimiddleware.NewAuthMiddleware(apimiddleware.AuthMiddlewareParams{AuthUC: authUC}),
		MetricsHandler: recorder.Handler(),
	}).RegisterRoutes(e)

	return e
}

func do(t *testing.T, e *echo.Echo, method, path, body string, headers ...string) (*httptest.ResponseRecorder, *envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}

	return rec, &env
}

func registerNode(t *testing.T, e *echo.Echo, id string, headers ...string) {
	t.Helper()

	rec, env := do(t, e, http.MethodPost, "/api/v1/nodes",
		`{"nodeId":"`+id+`","name":"Station `+id+`","latitude":30.73,"longitude":79.06}`, headers...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Nil(t, env.Error)
}

func TestHealth_EchoesRequestID(t *testing.T) {
	e := newTestEcho(t, testConfig(t, false))

	rec, env := do(t, e, http.MethodGet, "/health", "", deliverycontext.HeaderXRequestID, "req-42")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get(deliverycontext.HeaderXRequestID))
	assert.Equal(t, "req-42", env.Meta.RequestID)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
}

func TestHealth_ReplacesMalformedRequestID(t *testing.T) {
	e := newTestEcho(t, testConfig(t, false))

	rec, _ := do(t, e, http.MethodGet, "/health", "", deliverycontext.HeaderXRequestID, "has spaces")

	got := rec.Header().Get(deliverycontext.HeaderXRequestID)
	assert.NotEmpty(t, got)
	assert.NotEqual(t, "has spaces", got)
}

func TestNodes_RegisterAndGet(t *testing.T) {
	e := newTestEcho(t, testConfig(t, false))
	registerNode(t, e, "N1")

	rec, env := do(t, e, http.MethodGet, "/api/v1/nodes/N1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "N1", view.ID)
	assert.Equal(t, "offline", view.Status)

	rec, env = do(t, e, http.MethodPost, "/api/v1/nodes",
		`{"nodeId":"N1","name":"Again","latitude":1,"longitude":1}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "NODE_ALREADY_EXISTS", env.Error.Code)

	rec, env = do(t, e, http.MethodGet, "/api/v1/nodes/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NODE_NOT_FOUND", env.Error.Code)
}

func TestNodes_RejectsInvalidType(t *testing.T) {
	e := newTestEcho(t, testConfig(t, false))

	rec, env := do(t, e, http.MethodPost, "/api/v1/nodes",
		`{"nodeId":"N1","name":"Relay","type":"relay","latitude":1,"longitude":1}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, map[string]any{"type": "nodetype"}, env.Error.Details)
}

func TestNodes_LabelIsPNG(t *testing.T) {
	e := newTestEcho(t, testConfig(t, false))
	registerNode(t, e, "N1")

	rec, _ := do(t, e, http.MethodGet, "/api/v1/nodes/N1/label.png", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))
}

func TestNodes_GeoJSON(t *testing.T) {
	e := newTestEcho(t, testConfig(t, false))
	registerNode(t, e, "N1")

	rec, _ := do(t, e, http.MethodGet, "/api/v1/nodes/geojson", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get(echo.HeaderContentType))

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			ID any `json:"id"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "N1", fc.Features[0].ID)
}

func TestAlerts_DispatchValidation(t *testing.T) {
	e := newTestEcho(t, testConfig(t, false))
	registerNode(t, e, "N1")

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{
			name:     "empty message",
			body:     `{"severity":"warning","message":"   ","affectedNodes":["N1"]}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "MESSAGE_REQUIRED",
		},
		{
			name:     "no nodes",
			body:     `{"severity":"warning","message":"Heavy rain","affectedNodes":[]}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "NO_NODES_SELECTED",
		},
		{
			name:     "unknown node",
			body:     `{"severity":"critical","message":"Heavy rain","affectedNodes":["N9"]}`,
			wantCode: http.StatusNotFound,
			wantErr:  "NODE_NOT_FOUND",
		},
		{
			name:     "unknown severity",
			body:     `{"severity":"info","message":"Heavy rain","affectedNodes":["N1"]}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, e, http.MethodPost, "/api/v1/alerts", tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantErr, env.Error.Code)
		})
	}

	_, env := do(t, e, http.MethodGet, "/api/v1/alerts", "")
	assert.JSONEq(t, `{"alerts":[],"stats":{"total":0,"critical":0,"warning":0,"today":0,"unacknowledged":0}}`, string(env.Data))
}

func TestAlerts_DispatchAcknowledgeAndNotifications(t *testing.T) {
	e := newTestEcho(t, testConfig(t, false))
	registerNode(t, e, "N1")

	rec, _ := do(t, e, http.MethodPost, "/api/v1/contacts",
		`{"name":"Asha","phone":"98765 43210","associatedNodes":["N1"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env := do(t, e, http.MethodPost, "/api/v1/alerts",
		`{"severity":"critical","message":"Cloudburst expected","affectedNodes":["N1"],"sendSMS":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result struct {
		AlertID        string `json:"alertId"`
		RecipientCount int    `json:"recipientCount"`
		SMSSent        bool   `json:"smsSent"`
		SMS            struct {
			Configured bool `json:"configured"`
		} `json:"sms"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.NotEmpty(t, result.AlertID)
	assert.Equal(t, 1, result.RecipientCount)
	assert.False(t, result.SMSSent)
	assert.False(t, result.SMS.Configured)

	_, env = do(t, e, http.MethodGet, "/api/v1/alerts/"+result.AlertID+"/notifications", "")
	var notifications []struct {
		Type   string `json:"type"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &notifications))
	require.Len(t, notifications, 2)
	statuses := map[string]string{}
	for _, n := range notifications {
		statuses[n.Type] = n.Status
	}
	assert.Equal(t, map[string]string{"sms": "pending", "in_app": "unread"}, statuses)

	rec, env = do(t, e, http.MethodPost, "/api/v1/alerts/"+result.AlertID+"/acknowledge", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var alert struct {
		Acknowledged   bool   `json:"acknowledged"`
		AcknowledgedBy string `json:"acknowledgedBy"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &alert))
	assert.True(t, alert.Acknowledged)
	assert.Equal(t, "admin", alert.AcknowledgedBy)

	rec, env = do(t, e, http.MethodPost, "/api/v1/alerts/"+result.AlertID+"/acknowledge", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALERT_ALREADY_ACKNOWLEDGED", env.Error.Code)
}

func TestAuth_GuardsMutatingRoutes(t *testing.T) {
	e := newTestEcho(t, testConfig(t, true))

	rec, env := do(t, e, http.MethodPost, "/api/v1/nodes", `{"nodeId":"N1","name":"Station","latitude":1,"longitude":1}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "MISSING_TOKEN", env.Error.Code)

	rec, env = do(t, e, http.MethodPost, "/api/v1/nodes", `{"nodeId":"N1","name":"Station","latitude":1,"longitude":1}`,
		echo.HeaderAuthorization, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	assert.Nil(t, env.Error.Details)

	rec, env = do(t, e, http.MethodPost, "/auth/login", `{"username":"admin","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)

	rec, env = do(t, e, http.MethodPost, "/auth/login", `{"username":"admin","password":"`+testPassword+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var token struct {
		AccessToken string `json:"accessToken"`
		TokenType   string `json:"tokenType"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &token))
	assert.Equal(t, "Bearer", token.TokenType)

	registerNode(t, e, "N1", echo.HeaderAuthorization, "Bearer "+token.AccessToken)

	rec, _ = do(t, e, http.MethodGet, "/api/v1/nodes", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, e, http.MethodGet, "/api/v1/data/export", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestData_ExportAndReset(t *testing.T) {
	e := newTestEcho(t, testConfig(t, false))
	registerNode(t, e, "N1")

	rec, _ := do(t, e, http.MethodGet, "/api/v1/data/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment")

	var snapshot map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Contains(t, string(snapshot["nodes"]), `"N1"`)
	assert.JSONEq(t, `{}`, string(snapshot["alerts"]))
	exported := rec.Body.String()

	rec, env := do(t, e, http.MethodPost, "/api/v1/data/reset", `{"confirmation":"delete"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "RESET_NOT_CONFIRMED", env.Error.Code)

	rec, _ = do(t, e, http.MethodPost, "/api/v1/data/reset", `{"confirmation":"DELETE"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, e, http.MethodGet, "/api/v1/nodes/N1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = do(t, e, http.MethodPost, "/api/v1/data/import", exported)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Nil(t, env.Error)

	rec, _ = do(t, e, http.MethodGet, "/api/v1/nodes/N1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = do(t, e, http.MethodPost, "/api/v1/data/archive", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "ARCHIVE_NOT_CONFIGURED", env.Error.Code)
}

func TestLogs_LimitValidation(t *testing.T) {
	e := newTestEcho(t, testConfig(t, false))
	registerNode(t, e, "N1")

	rec, env := do(t, e, http.MethodGet, "/api/v1/logs?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_LIMIT", env.Error.Code)

	_, env = do(t, e, http.MethodGet, "/api/v1/logs?type=node_registration", "")
	var entries []struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "node_registration", entries[0].Type)
}

func TestMetrics_Served(t *testing.T) {
	e := newTestEcho(t, testConfig(t, false))

	rec, _ := do(t, e, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cloudburst_watch_clients")
}

func TestWatch_StreamsCollectionChanges(t *testing.T) {
	e := newTestEcho(t, testConfig(t, false))
	srv := httptest.NewServer(e)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/watch/nodes"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	var msg handler.WatchMessage
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "nodes", msg.Collection)
	assert.Equal(t, "null", string(msg.Data))

	registerNode(t, e, "N1")

	for !strings.Contains(string(msg.Data), `"N1"`) {
		require.NoError(t, conn.ReadJSON(&msg))
	}
	assert.Equal(t, "nodes", msg.Collection)
}

func TestWatch_UnknownCollection(t *testing.T) {
	e := newTestEcho(t, testConfig(t, false))
	srv := httptest.NewServer(e)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/watch/secrets"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
