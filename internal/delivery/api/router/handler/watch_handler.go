package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"cloudburst/internal/delivery/api/response"
	deliverycontext "cloudburst/internal/delivery/context"
	"cloudburst/internal/usecase"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const (
	watchWriteTimeout = 10 * time.Second
	watchPongWait     = 60 * time.Second
	watchPingPeriod   = (watchPongWait * 9) / 10
	watchReadLimit    = 512
)

// ConnectionGauge tracks open watch connections
type ConnectionGauge interface {
	Inc()
	Dec()
}

// WatchHandlerParams holds dependencies for WatchHandler, injected by Fx.
type WatchHandlerParams struct {
	fx.In

	WatchUC usecase.WatchUsecase
	Gauge   ConnectionGauge `optional:"true"`
	Logger  *slog.Logger
}

// WatchHandler streams collection snapshots over websockets
type WatchHandler struct {
	watchUC  usecase.WatchUsecase
	gauge    ConnectionGauge
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewWatchHandler is the constructor for WatchHandler
func NewWatchHandler(params WatchHandlerParams) *WatchHandler {
	return &WatchHandler{
		watchUC: params.WatchUC,
		gauge:   params.Gauge,
		logger:  params.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Same policy as the CORS middleware.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// WatchMessage is the frame sent for every snapshot
type WatchMessage struct {
	Collection string          `json:"collection"`
	Data       json.RawMessage `json:"data"`
}

// Watch upgrades to a websocket and sends the collection value at once and
// after every change, until the client disconnects.
func (h *WatchHandler) Watch(c echo.Context) error {
	collection := c.Param("collection")
	ctx := c.Request().Context()
	logger := deliverycontext.LoggerFrom(ctx, h.logger)

	// Holds only the newest snapshot; a slow client skips intermediate ones.
	latest := make(chan json.RawMessage, 1)
	sub, err := h.watchUC.Watch(ctx, collection, func(raw json.RawMessage) {
		offerLatest(latest, raw)
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}
	defer sub.Unsubscribe()

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written the error response.
		logger.Warn("Websocket upgrade failed", slog.Any("error", err))

		return nil
	}
	defer conn.Close()

	if h.gauge != nil {
		h.gauge.Inc()
		defer h.gauge.Dec()
	}
	logger.Info("Watch client connected", slog.String("collection", collection))

	closed := make(chan struct{})
	go readUntilClosed(conn, closed)

	err = writeSnapshots(conn, collection, latest, closed)
	logger.Info("Watch client disconnected", slog.String("collection", collection), slog.Any("reason", err))

	return nil
}

func offerLatest(ch chan json.RawMessage, raw json.RawMessage) {
	for {
		select {
		case ch <- raw:
			return
		default:
		}

		select {
		case <-ch:
		default:
		}
	}
}

// readUntilClosed discards client frames and answers pings until the
// connection fails, then closes done.
func readUntilClosed(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(watchReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(watchPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(watchPongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeSnapshots(conn *websocket.Conn, collection string, latest <-chan json.RawMessage, closed <-chan struct{}) error {
	ticker := time.NewTicker(watchPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return nil
		case raw := <-latest:
			_ = conn.SetWriteDeadline(time.Now().Add(watchWriteTimeout))
			if err := conn.WriteJSON(WatchMessage{Collection: collection, Data: raw}); err != nil {
				return err
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(watchWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}
