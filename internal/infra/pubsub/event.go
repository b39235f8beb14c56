package pubsub

import (
	"encoding/json"
	"strconv"

	"cloudburst/internal/domain/service"

	"github.com/pkg/errors"
)

// Attribute keys let subscribers filter alerts without decoding the payload.
const (
	attrAlertID   = "alert_id"
	attrSeverity  = "severity"
	attrNodeCount = "node_count"
	attrRequestID = "request_id"
)

// encodeAlertEvent returns the JSON payload and message attributes shared by
// every publisher.
func encodeAlertEvent(event *service.AlertEvent) ([]byte, map[string]string, error) {
	if event == nil || event.AlertID == "" {
		return nil, nil, errors.New("alert event without alert id")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, nil, errors.Wrap(err, "encode alert event")
	}

	attrs := map[string]string{
		attrAlertID:   event.AlertID,
		attrSeverity:  event.Severity,
		attrNodeCount: strconv.Itoa(len(event.AffectedNodes)),
	}
	if event.RequestID != "" {
		attrs[attrRequestID] = event.RequestID
	}

	return data, attrs, nil
}
