package usecase

import (
	"context"

	"cloudburst/internal/domain/entity"

	"github.com/paulmach/orb/geojson"
)

// RegisterNodeInput describes a new sensor node or gateway
type RegisterNodeInput struct {
	NodeID        string
	Name          string
	Type          entity.NodeType
	Latitude      float64
	Longitude     float64
	Altitude      *float64
	InstalledDate string
	InstalledBy   string
	Description   string
	NearbyNodes   []string
}

// UpdateNodeInput holds the editable metadata; nil fields are left unchanged
type UpdateNodeInput struct {
	Name        *string
	Description *string
	Latitude    *float64
	Longitude   *float64
	Altitude    *float64
	NearbyNodes []string
}

// ReadingInput is one sensor report. A zero Timestamp means "now".
type ReadingInput struct {
	entity.SensorReadings
	RSSI         *float64
	BatteryLevel *float64
	Timestamp    entity.Millis
}

// NodeView is a node with its derived status
type NodeView struct {
	ID           string                 `json:"id"`
	Metadata     entity.NodeMetadata    `json:"metadata"`
	Realtime     *entity.SensorSnapshot `json:"realtime,omitempty"`
	Status       entity.NodeStatus      `json:"status"`
	LastUpdate   entity.Millis          `json:"lastUpdate,omitempty"`
	ActiveAlerts int                    `json:"activeAlerts"`
}

// Node list sort keys
const (
	NodeSortName     = "name"
	NodeSortStatus   = "status"
	NodeSortLastSeen = "lastSeen"
)

// NodeQuery filters and orders the node list
type NodeQuery struct {
	Search string
	Status entity.NodeStatus
	SortBy string
}

// HistoryPoint is one history sample with its timestamp
type HistoryPoint struct {
	Timestamp entity.Millis         `json:"timestamp"`
	Sensors   entity.SensorReadings `json:"sensors"`
	RSSI      *float64              `json:"rssi,omitempty"`
}

// NearbyNode is a node within the requested radius
type NearbyNode struct {
	NodeID         string  `json:"nodeId"`
	Name           string  `json:"name"`
	DistanceMeters float64 `json:"distanceMeters"`
}

// NodeUsecase defines node registration, monitoring and map use cases
type NodeUsecase interface {
	Register(ctx context.Context, input *RegisterNodeInput) (*NodeView, error)
	Update(ctx context.Context, nodeID string, input *UpdateNodeInput) (*NodeView, error)
	Delete(ctx context.Context, nodeID string) error
	Get(ctx context.Context, nodeID string) (*NodeView, error)
	List(ctx context.Context, query *NodeQuery) ([]*NodeView, error)

	// RecordReading overwrites the realtime snapshot and appends a history entry
	RecordReading(ctx context.Context, nodeID string, input *ReadingInput) (*NodeView, error)

	// History returns samples with from <= timestamp <= to, oldest first. Zero bounds are open.
	History(ctx context.Context, nodeID string, from, to entity.Millis) ([]*HistoryPoint, error)

	// Nearby returns other nodes within radiusMeters, closest first
	Nearby(ctx context.Context, nodeID string, radiusMeters float64) ([]*NearbyNode, error)

	// GeoJSON returns every node as a point feature
	GeoJSON(ctx context.Context) (*geojson.FeatureCollection, error)

	// Label returns a PNG QR code for the node
	Label(ctx context.Context, nodeID string) ([]byte, error)
}
