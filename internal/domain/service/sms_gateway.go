package service

import "context"

// SMSMessage is a single text message to one recipient
type SMSMessage struct {
	To   string
	From string
	Body string
}

// SMSReceipt is what the gateway returned for one message
type SMSReceipt struct {
	SID    string
	Status string
}

// SMSGateway delivers text messages through an external provider
type SMSGateway interface {
	// Name identifies the gateway in notification records and status reports
	Name() string

	// Send submits one message
	Send(ctx context.Context, msg *SMSMessage) (*SMSReceipt, error)
}
