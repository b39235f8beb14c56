package entity

// Severity is the urgency of an alert.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	return s == SeverityWarning || s == SeverityCritical
}

// AlertType tells how an alert was raised.
type AlertType string

const AlertTypeManual AlertType = "manual"

// Alert sources
const (
	AlertSourceAdminPanel = "admin_panel"
	AlertCreatedByAdmin   = "admin"
)

// Alert is a warning raised against one or more nodes. Only the
// acknowledgement fields change after creation.
type Alert struct {
	ID             string    `json:"id"`
	Type           AlertType `json:"type"`
	Severity       Severity  `json:"severity"`
	Message        string    `json:"message"`
	AffectedNodes  []string  `json:"affectedNodes"`
	Timestamp      Millis    `json:"timestamp"`
	Acknowledged   bool      `json:"acknowledged"`
	AcknowledgedBy *string   `json:"acknowledgedBy"`
	AcknowledgedAt *Millis   `json:"acknowledgedAt"`
	SentSMS        bool      `json:"sentSMS"`
	SMSSentAt      *Millis   `json:"smsSentAt"`
	// Recipients is the phone snapshot taken when the alert was created.
	Recipients []string `json:"recipients"`
	CreatedBy  string   `json:"createdBy"`
	Source     string   `json:"source"`
}

// NodeRef builds the back-reference stored under an affected node.
func (a *Alert) NodeRef() *NodeAlertRef {
	return &NodeAlertRef{
		AlertID:      a.ID,
		Severity:     a.Severity,
		Timestamp:    a.Timestamp,
		Acknowledged: false,
	}
}
