package sms

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"cloudburst/config"
	"cloudburst/internal/domain/constants"
	"cloudburst/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeCreator struct {
	params *openapi.CreateMessageParams
	err    error
}

func (f *fakeCreator) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	sid, status := "SM123", "queued"

	return &openapi.ApiV2010Message{Sid: &sid, Status: &status}, nil
}

func TestTwilioGateway_Send(t *testing.T) {
	creator := &fakeCreator{}
	gateway := &twilioGateway{api: creator}

	receipt, err := gateway.Send(context.Background(), &service.SMSMessage{
		To: "+919876543210", From: "+15550001111", Body: "[CRITICAL] Flash flood",
	})
	require.NoError(t, err)
	assert.Equal(t, "SM123", receipt.SID)
	assert.Equal(t, "queued", receipt.Status)
	require.NotNil(t, creator.params.To)
	assert.Equal(t, "+919876543210", *creator.params.To)
	assert.Equal(t, "[CRITICAL] Flash flood", *creator.params.Body)
}

func TestTwilioGateway_SendError(t *testing.T) {
	gateway := &twilioGateway{api: &fakeCreator{err: errors.New("401 unauthorized")}}

	_, err := gateway.Send(context.Background(), &service.SMSMessage{To: "+919876543210"})
	assert.ErrorContains(t, err, "401 unauthorized")
}

func TestSimulatedGateway_Send(t *testing.T) {
	gateway := NewSimulatedGateway(discardLogger())

	receipt, err := gateway.Send(context.Background(), &service.SMSMessage{To: "+919876543210", Body: "hi"})
	require.NoError(t, err)
	assert.Regexp(t, `^SIM\d+$`, receipt.SID)
	assert.Equal(t, "simulated", receipt.Status)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = gateway.Send(ctx, &service.SMSMessage{To: "+919876543210"})
	assert.Error(t, err)
}

func TestNewGateway(t *testing.T) {
	cfg := &config.Config{SMS: &config.SMSConfig{Gateway: constants.SMSGatewayTwilio}}
	gateway, err := NewGateway(GatewayParams{Config: cfg, Logger: discardLogger()})
	require.NoError(t, err)
	assert.Equal(t, constants.SMSGatewayTwilio, gateway.Name())

	gateway, err = NewGateway(GatewayParams{Config: &config.Config{}, Logger: discardLogger()})
	require.NoError(t, err)
	assert.Equal(t, constants.SMSGatewaySimulated, gateway.Name())

	_, err = NewGateway(GatewayParams{Config: &config.Config{SMS: &config.SMSConfig{Gateway: "carrier-pigeon"}}, Logger: discardLogger()})
	assert.Error(t, err)
}
