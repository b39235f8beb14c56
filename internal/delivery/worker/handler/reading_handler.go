package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"cloudburst/config"
	deliverycontext "cloudburst/internal/delivery/context"
	"cloudburst/internal/domain/entity"
	domainerrors "cloudburst/internal/domain/errors"
	"cloudburst/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// GatewayReading is the payload a gateway publishes for one node report
type GatewayReading struct {
	NodeID       string   `json:"nodeId"`
	Temperature  *float64 `json:"temperature,omitempty"`
	Pressure     *float64 `json:"pressure,omitempty"`
	Altitude     *float64 `json:"altitude,omitempty"`
	Humidity     *float64 `json:"humidity,omitempty"`
	Rainfall     *float64 `json:"rainfall,omitempty"`
	RSSI         *float64 `json:"rssi,omitempty"`
	BatteryLevel *float64 `json:"batteryLevel,omitempty"`
	Timestamp    int64    `json:"timestamp,omitempty"`
}

// TokenVerifier checks the OIDC token Pub/Sub attaches to push requests
type TokenVerifier func(ctx context.Context, token, audience string) error

// ReadingHandler ingests gateway readings delivered by Pub/Sub push
type ReadingHandler struct {
	nodeUC   usecase.NodeUsecase
	verify   TokenVerifier
	audience string
	logger   *slog.Logger
}

// ReadingHandlerParams holds dependencies for the ReadingHandler
type ReadingHandlerParams struct {
	fx.In

	Config *config.Config
	NodeUC usecase.NodeUsecase
	Logger *slog.Logger
}

// NewReadingHandler creates a new Pub/Sub push handler. Push tokens are
// verified when ingest.verifyPushAuth is set.
func NewReadingHandler(params ReadingHandlerParams) *ReadingHandler {
	h := &ReadingHandler{
		nodeUC: params.NodeUC,
		logger: params.Logger.With(slog.String("component", "ingest")),
	}

	if cfg := params.Config.Ingest; cfg != nil && cfg.VerifyPushAuth {
		h.verify = verifyPubSubToken
		h.audience = cfg.Audience
	}

	return h
}

// HandlePush records one reading. Pub/Sub redelivers on any non-2xx answer,
// so only transient store failures are answered with 503; readings for
// unknown nodes are acknowledged and dropped.
func (h *ReadingHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verify != nil {
		token, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
		if !ok {
			h.logger.Warn("Push request without bearer token")

			return c.NoContent(http.StatusUnauthorized)
		}
		if err := h.verify(ctx, token, h.pushAudience(c.Request())); err != nil {
			h.logger.Warn("Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var reading GatewayReading
	if err := json.Unmarshal(data, &reading); err != nil || reading.NodeID == "" || reading.Timestamp < 0 {
		h.logger.Error("Invalid gateway reading",
			slog.String("message_id", pushMsg.Message.MessageID),
			slog.Any("error", err),
		)

		return c.NoContent(http.StatusBadRequest)
	}

	requestID := pushMsg.Message.Attributes["request_id"]
	if requestID == "" {
		requestID = uuid.NewString()
	}
	reqLogger := h.logger.With(
		slog.String("request_id", requestID),
		slog.String("message_id", pushMsg.Message.MessageID),
		slog.String("node_id", reading.NodeID),
	)
	ctx = deliverycontext.WithScope(ctx, requestID, reqLogger)

	_, err = h.nodeUC.RecordReading(ctx, reading.NodeID, &usecase.ReadingInput{
		SensorReadings: entity.SensorReadings{
			Temperature: reading.Temperature,
			Pressure:    reading.Pressure,
			Altitude:    reading.Altitude,
			Humidity:    reading.Humidity,
			Rainfall:    reading.Rainfall,
		},
		RSSI:         reading.RSSI,
		BatteryLevel: reading.BatteryLevel,
		Timestamp:    entity.Millis(reading.Timestamp),
	})

	switch {
	case err == nil:
		reqLogger.Debug("Gateway reading recorded")

		return c.NoContent(http.StatusOK)
	case errors.Is(err, domainerrors.ErrNodeNotFound):
		reqLogger.Warn("Dropping reading for unknown node")

		return c.NoContent(http.StatusOK)
	default:
		reqLogger.Error("Failed to record gateway reading", slog.Any("error", err))

		return c.NoContent(http.StatusServiceUnavailable)
	}
}

func (h *ReadingHandler) pushAudience(req *http.Request) string {
	if h.audience != "" {
		return h.audience
	}

	scheme := "https"
	if req.TLS == nil {
		scheme = "http"
	}

	return fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)
}

func verifyPubSubToken(ctx context.Context, token, audience string) error {
	payload, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
