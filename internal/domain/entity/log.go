package entity

// LogType is the kind of an audit log entry.
type LogType string

const (
	LogTypeNodeRegistration  LogType = "node_registration"
	LogTypeNodeEdit          LogType = "node_edit"
	LogTypeNodeDeletion      LogType = "node_deletion"
	LogTypeAlertTriggered    LogType = "alert_triggered"
	LogTypeAlertAcknowledged LogType = "alert_acknowledged"
	LogTypeSMSSent           LogType = "sms_sent"
	LogTypeSMSPending        LogType = "sms_pending"
	LogTypeSMSFailed         LogType = "sms_failed"
	LogTypeSystemError       LogType = "system_error"
	LogTypeDataReceived      LogType = "data_received"
	LogTypeDataCleanup       LogType = "data_cleanup"
	LogTypeContactAdded      LogType = "contact_added"
	LogTypeContactRemoved    LogType = "contact_removed"
)

// LogEntry is an append-only audit record.
type LogEntry struct {
	ID        string         `json:"id"`
	Type      LogType        `json:"type"`
	Message   string         `json:"message"`
	Timestamp Millis         `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}
