package entity

// NotificationType is the delivery channel of a notification.
type NotificationType string

const (
	NotificationTypeSMS   NotificationType = "sms"
	NotificationTypeInApp NotificationType = "in_app"
)

// Notification statuses
const (
	NotificationStatusPending = "pending"
	NotificationStatusSent    = "sent"
	NotificationStatusPartial = "partial"
	NotificationStatusFailed  = "failed"
	NotificationStatusUnread  = "unread"
	NotificationStatusRead    = "read"
)

// Delivery statuses
const (
	DeliveryStatusNotConfigured = "not_configured"
	DeliveryStatusDelivered     = "delivered"
	DeliveryStatusPartial       = "partially_delivered"
	DeliveryStatusFailed        = "failed"
)

// DeliveryResult is the gateway outcome for a single recipient.
type DeliveryResult struct {
	To     string `json:"to"`
	Status string `json:"status"`
	SID    string `json:"sid,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Notification records one send attempt for an alert.
type Notification struct {
	ID             string           `json:"id"`
	Type           NotificationType `json:"type"`
	Status         string           `json:"status"`
	AlertID        string           `json:"alertId"`
	Severity       Severity         `json:"severity"`
	Message        string           `json:"message"`
	Recipients     []string         `json:"recipients,omitempty"`
	AffectedNodes  []string         `json:"affectedNodes,omitempty"`
	Timestamp      Millis           `json:"timestamp"`
	Method         string           `json:"method,omitempty"`
	DeliveryStatus string           `json:"deliveryStatus,omitempty"`
	Note           string           `json:"note,omitempty"`
	Results        []DeliveryResult `json:"deliveryResults,omitempty"`
	ExpiresAt      *Millis          `json:"expiresAt,omitempty"`
	ReadBy         []string         `json:"readBy,omitempty"`
}

// IsReadBy reports whether user has read the notification.
func (n *Notification) IsReadBy(user string) bool {
	for _, r := range n.ReadBy {
		if r == user {
			return true
		}
	}

	return false
}
