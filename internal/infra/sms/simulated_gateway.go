package sms

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"cloudburst/internal/domain/constants"
	"cloudburst/internal/domain/service"
)

// simulatedStatus marks receipts that never reached a carrier.
const simulatedStatus = "simulated"

type simulatedGateway struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewSimulatedGateway accepts every message without contacting a provider.
// Used for drills and local development.
func NewSimulatedGateway(logger *slog.Logger) service.SMSGateway {
	return &simulatedGateway{logger: logger, now: time.Now}
}

func (g *simulatedGateway) Name() string {
	return constants.SMSGatewaySimulated
}

func (g *simulatedGateway) Send(ctx context.Context, msg *service.SMSMessage) (*service.SMSReceipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sid := fmt.Sprintf("SIM%d%04d", g.now().UnixMilli(), rand.IntN(10000))

	g.logger.Info("[SimulatedSMS] Message accepted",
		slog.String("to", msg.To),
		slog.String("sid", sid),
		slog.Int("length", len(msg.Body)),
	)

	return &service.SMSReceipt{SID: sid, Status: simulatedStatus}, nil
}
