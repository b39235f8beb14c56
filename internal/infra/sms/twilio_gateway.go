package sms

import (
	"context"

	"cloudburst/internal/domain/constants"
	"cloudburst/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// messageCreator is the part of the Twilio API client the gateway uses
type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

type twilioGateway struct {
	api messageCreator
}

// NewTwilioGateway creates a gateway that sends through the Twilio Messages API
func NewTwilioGateway(accountSID, authToken string) service.SMSGateway {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &twilioGateway{api: client.Api}
}

func (g *twilioGateway) Name() string {
	return constants.SMSGatewayTwilio
}

// Send submits one message. The Twilio client does not take a context, so
// cancellation is only checked before the request.
func (g *twilioGateway) Send(ctx context.Context, msg *service.SMSMessage) (*service.SMSReceipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(msg.To)
	params.SetFrom(msg.From)
	params.SetBody(msg.Body)

	resp, err := g.api.CreateMessage(params)
	if err != nil {
		return nil, errors.Wrapf(err, "twilio send to %s", msg.To)
	}

	receipt := &service.SMSReceipt{}
	if resp.Sid != nil {
		receipt.SID = *resp.Sid
	}
	if resp.Status != nil {
		receipt.Status = *resp.Status
	}

	return receipt, nil
}
