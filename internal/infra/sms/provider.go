package sms

import (
	"log/slog"

	"cloudburst/config"
	"cloudburst/internal/domain/constants"
	"cloudburst/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// GatewayParams holds dependencies for the SMS gateway, injected by Fx
type GatewayParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewGateway picks the gateway named by sms.gateway. Whether messages are sent
// at all is decided by the sender from SMSConfig.Configured.
func NewGateway(params GatewayParams) (service.SMSGateway, error) {
	cfg := params.Config.SMS
	logger := params.Logger

	gateway := constants.SMSGatewaySimulated
	if cfg != nil && cfg.Gateway != "" {
		gateway = cfg.Gateway
	}

	switch gateway {
	case constants.SMSGatewaySimulated:
		logger.Info("Using simulated SMS gateway")

		return NewSimulatedGateway(logger), nil

	case constants.SMSGatewayTwilio:
		logger.Info("Using Twilio SMS gateway",
			slog.Bool("configured", cfg.Configured()),
		)

		return NewTwilioGateway(cfg.AccountSID, cfg.AuthToken), nil

	default:
		return nil, errors.Errorf("unknown sms gateway: %s", gateway)
	}
}

// Module provides the SMS gateway FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewGateway),
)
