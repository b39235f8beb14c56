package entity

import (
	"strings"
	"time"
)

// NodeType distinguishes sensor nodes from gateways.
type NodeType string

const (
	NodeTypeNode    NodeType = "node"
	NodeTypeGateway NodeType = "gateway"
)

// Valid reports whether t is a known node type.
func (t NodeType) Valid() bool {
	return t == NodeTypeNode || t == NodeTypeGateway
}

// NodeStatus is the liveness classification derived from the last update.
type NodeStatus string

const (
	NodeStatusOnline  NodeStatus = "online"
	NodeStatusWarning NodeStatus = "warning"
	NodeStatusOffline NodeStatus = "offline"
)

// Liveness thresholds
const (
	OnlineThreshold  = 5 * time.Minute
	WarningThreshold = 15 * time.Minute
)

// DeriveNodeStatus classifies a node by the age of its last update.
// A zero lastUpdate means the node never reported and is offline.
func DeriveNodeStatus(lastUpdate Millis, now time.Time) NodeStatus {
	if lastUpdate.IsZero() {
		return NodeStatusOffline
	}

	age := now.Sub(lastUpdate.Time())
	switch {
	case age < OnlineThreshold:
		return NodeStatusOnline
	case age < WarningThreshold:
		return NodeStatusWarning
	default:
		return NodeStatusOffline
	}
}

// NodeMetadata is the registration data of a node.
type NodeMetadata struct {
	NodeID        string   `json:"nodeId"`
	Type          NodeType `json:"type"`
	Name          string   `json:"name"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	Altitude      *float64 `json:"altitude"`
	InstalledDate string   `json:"installedDate"`
	InstalledBy   string   `json:"installedBy"`
	Description   string   `json:"description"`
	NearbyNodes   []string `json:"nearbyNodes"`
	Status        string   `json:"status"`
	CreatedAt     Millis   `json:"createdAt"`
}

// SensorReadings holds the meteorological values of one sample.
// Absent sensors are nil.
type SensorReadings struct {
	Temperature *float64 `json:"temperature,omitempty"`
	Pressure    *float64 `json:"pressure,omitempty"`
	Altitude    *float64 `json:"altitude,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	Rainfall    *float64 `json:"rainfall,omitempty"`
}

// SensorSnapshot is the latest state a node reported.
type SensorSnapshot struct {
	SensorReadings
	RSSI         *float64 `json:"rssi,omitempty"`
	BatteryLevel *float64 `json:"batteryLevel,omitempty"`
	Timestamp    Millis   `json:"timestamp,omitempty"`
	LastUpdate   Millis   `json:"lastUpdate,omitempty"`
	LastSeen     Millis   `json:"lastSeen,omitempty"`
	AlertStatus  string   `json:"alertStatus,omitempty"`
	MessageCount int      `json:"messageCount,omitempty"`
}

// HistoryEntry is one archived sample, keyed by its millisecond timestamp.
type HistoryEntry struct {
	Sensors SensorReadings `json:"sensors"`
	RSSI    *float64       `json:"rssi,omitempty"`
}

// NodeAlertRef is the back-reference an alert leaves under each affected node.
type NodeAlertRef struct {
	AlertID        string   `json:"alertId"`
	Severity       Severity `json:"severity"`
	Timestamp      Millis   `json:"timestamp"`
	Acknowledged   bool     `json:"acknowledged"`
	AcknowledgedBy *string  `json:"acknowledgedBy,omitempty"`
	AcknowledgedAt *Millis  `json:"acknowledgedAt,omitempty"`
}

// Node is a sensor or gateway with its live and historical readings.
type Node struct {
	ID       string                  `json:"-"`
	Metadata NodeMetadata            `json:"metadata"`
	Realtime *SensorSnapshot         `json:"realtime,omitempty"`
	History  map[string]HistoryEntry `json:"history,omitempty"`
	Alerts   map[string]NodeAlertRef `json:"alerts,omitempty"`
}

// LastUpdate returns the node's last update time, zero if it never reported.
func (n *Node) LastUpdate() Millis {
	if n == nil || n.Realtime == nil {
		return 0
	}

	return n.Realtime.LastUpdate
}

// Status derives the node's liveness at now.
func (n *Node) Status(now time.Time) NodeStatus {
	return DeriveNodeStatus(n.LastUpdate(), now)
}

// DisplayName returns the metadata name, falling back to the id.
func (n *Node) DisplayName() string {
	if name := strings.TrimSpace(n.Metadata.Name); name != "" {
		return name
	}

	return n.ID
}

// ValidCoordinates reports whether lat and lon are within WGS84 bounds.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
