package impl

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	deliverycontext "cloudburst/internal/delivery/context"
	"cloudburst/internal/domain/entity"
	domainerrors "cloudburst/internal/domain/errors"
	"cloudburst/internal/domain/repository"
	"cloudburst/internal/domain/service"
	"cloudburst/internal/usecase"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"github.com/samber/lo"
	"go.uber.org/fx"
)

const nodeStatusActive = "active"

var statusRank = map[entity.NodeStatus]int{
	entity.NodeStatusOnline:  0,
	entity.NodeStatusWarning: 1,
	entity.NodeStatusOffline: 2,
}

type nodeService struct {
	nodeRepo repository.NodeRepository
	logRepo  repository.LogRepository
	qrCode   service.QRCodeService
	logger   *slog.Logger
	now      func() time.Time
}

// NodeServiceParams holds dependencies for NodeService, injected by Fx.
type NodeServiceParams struct {
	fx.In

	NodeRepo repository.NodeRepository
	LogRepo  repository.LogRepository
	QRCode   service.QRCodeService
	Logger   *slog.Logger
}

// NewNodeService is the constructor for nodeService.
func NewNodeService(params NodeServiceParams) usecase.NodeUsecase {
	return &nodeService{
		nodeRepo: params.NodeRepo,
		logRepo:  params.LogRepo,
		qrCode:   params.QRCode,
		logger:   params.Logger,
		now:      time.Now,
	}
}

func (s *nodeService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerFrom(ctx, s.logger)
}

// Register stores a new node without a realtime snapshot, so it starts offline.
func (s *nodeService) Register(ctx context.Context, input *usecase.RegisterNodeInput) (*usecase.NodeView, error) {
	nodeID := strings.TrimSpace(input.NodeID)
	name := strings.TrimSpace(input.Name)
	if nodeID == "" || name == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("node id and name are required")
	}
	if !entity.ValidCoordinates(input.Latitude, input.Longitude) {
		return nil, domainerrors.ErrInvalidCoordinates
	}

	nodeType := input.Type
	if nodeType == "" {
		nodeType = entity.NodeTypeNode
	}
	if !nodeType.Valid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("type must be node or gateway")
	}

	exists, err := s.nodeRepo.Exists(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domainerrors.ErrNodeAlreadyExists
	}

	now := s.now()
	node := &entity.Node{
		ID: nodeID,
		Metadata: entity.NodeMetadata{
			NodeID:        nodeID,
			Type:          nodeType,
			Name:          name,
			Latitude:      input.Latitude,
			Longitude:     input.Longitude,
			Altitude:      input.Altitude,
			InstalledDate: input.InstalledDate,
			InstalledBy:   strings.TrimSpace(input.InstalledBy),
			Description:   strings.TrimSpace(input.Description),
			NearbyNodes:   lo.Without(lo.Uniq(lo.Compact(input.NearbyNodes)), nodeID),
			Status:        nodeStatusActive,
			CreatedAt:     entity.MillisOf(now),
		},
	}
	if node.Metadata.InstalledDate == "" {
		node.Metadata.InstalledDate = now.UTC().Format(time.DateOnly)
	}

	if err := s.nodeRepo.Create(ctx, node); err != nil {
		return nil, err
	}

	err = appendLog(ctx, s.logRepo, now, entity.LogTypeNodeRegistration,
		fmt.Sprintf("New %s registered: %s (%s)", nodeType, name, nodeID),
		map[string]any{
			"nodeId":    nodeID,
			"type":      string(nodeType),
			"latitude":  input.Latitude,
			"longitude": input.Longitude,
		})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("Node registered", slog.String("nodeId", nodeID), slog.String("type", string(nodeType)))

	return s.view(node, now), nil
}

func (s *nodeService) Update(ctx context.Context, nodeID string, input *usecase.UpdateNodeInput) (*usecase.NodeView, error) {
	node, err := s.find(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	meta := &node.Metadata

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domainerrors.ErrValidationFailed.WithDetails("name cannot be empty")
		}
		meta.Name = name
		fields["name"] = name
	}
	if input.Description != nil {
		meta.Description = strings.TrimSpace(*input.Description)
		fields["description"] = meta.Description
	}
	if input.Latitude != nil {
		meta.Latitude = *input.Latitude
		fields["latitude"] = meta.Latitude
	}
	if input.Longitude != nil {
		meta.Longitude = *input.Longitude
		fields["longitude"] = meta.Longitude
	}
	if !entity.ValidCoordinates(meta.Latitude, meta.Longitude) {
		return nil, domainerrors.ErrInvalidCoordinates
	}
	if input.Altitude != nil {
		meta.Altitude = input.Altitude
		fields["altitude"] = *input.Altitude
	}
	if input.NearbyNodes != nil {
		meta.NearbyNodes = lo.Without(lo.Uniq(lo.Compact(input.NearbyNodes)), nodeID)
		fields["nearbyNodes"] = meta.NearbyNodes
	}

	now := s.now()
	if len(fields) == 0 {
		return s.view(node, now), nil
	}

	if err := s.nodeRepo.UpdateMetadata(ctx, nodeID, fields); err != nil {
		return nil, err
	}

	changed := lo.Keys(fields)
	sort.Strings(changed)

	err = appendLog(ctx, s.logRepo, now, entity.LogTypeNodeEdit,
		fmt.Sprintf("Node %s updated", nodeID),
		map[string]any{
			"nodeId": nodeID,
			"fields": changed,
		})
	if err != nil {
		return nil, err
	}

	return s.view(node, now), nil
}

func (s *nodeService) Delete(ctx context.Context, nodeID string) error {
	node, err := s.find(ctx, nodeID)
	if err != nil {
		return err
	}

	if err := s.nodeRepo.Delete(ctx, nodeID); err != nil {
		return err
	}

	err = appendLog(ctx, s.logRepo, s.now(), entity.LogTypeNodeDeletion,
		fmt.Sprintf("Node deleted: %s (%s)", node.DisplayName(), nodeID),
		map[string]any{"nodeId": nodeID})
	if err != nil {
		return err
	}

	s.log(ctx).Info("Node deleted", slog.String("nodeId", nodeID))

	return nil
}

func (s *nodeService) Get(ctx context.Context, nodeID string) (*usecase.NodeView, error) {
	node, err := s.find(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	return s.view(node, s.now()), nil
}

func (s *nodeService) List(ctx context.Context, query *usecase.NodeQuery) ([]*usecase.NodeView, error) {
	nodes, err := s.nodeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if query == nil {
		query = &usecase.NodeQuery{}
	}

	now := s.now()
	search := strings.ToLower(strings.TrimSpace(query.Search))
	views := lo.FilterMap(nodes, func(n *entity.Node, _ int) (*usecase.NodeView, bool) {
		v := s.view(n, now)
		if query.Status != "" && v.Status != query.Status {
			return nil, false
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(n.ID), search) &&
			!strings.Contains(strings.ToLower(n.Metadata.Name), search) {
			return nil, false
		}

		return v, true
	})

	sortNodeViews(views, query.SortBy)

	return views, nil
}

// sortNodeViews orders by name unless sortBy selects status or lastSeen.
// Ties fall back to the node id.
func sortNodeViews(views []*usecase.NodeView, sortBy string) {
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		switch sortBy {
		case usecase.NodeSortStatus:
			if statusRank[a.Status] != statusRank[b.Status] {
				return statusRank[a.Status] < statusRank[b.Status]
			}
		case usecase.NodeSortLastSeen:
			if a.LastUpdate != b.LastUpdate {
				return a.LastUpdate > b.LastUpdate
			}
		default:
			an, bn := strings.ToLower(a.Metadata.Name), strings.ToLower(b.Metadata.Name)
			if an != bn {
				return an < bn
			}
		}

		return a.ID < b.ID
	})
}

// RecordReading overwrites the realtime snapshot and archives the sample
// under its millisecond timestamp.
func (s *nodeService) RecordReading(ctx context.Context, nodeID string, input *usecase.ReadingInput) (*usecase.NodeView, error) {
	node, err := s.find(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	at := input.Timestamp
	if at.IsZero() {
		at = entity.MillisOf(now)
	}

	messageCount := 1
	if node.Realtime != nil {
		messageCount = node.Realtime.MessageCount + 1
	}

	snapshot := &entity.SensorSnapshot{
		SensorReadings: input.SensorReadings,
		RSSI:           input.RSSI,
		BatteryLevel:   input.BatteryLevel,
		Timestamp:      at,
		LastUpdate:     at,
		LastSeen:       entity.MillisOf(now),
		MessageCount:   messageCount,
	}
	if node.Realtime != nil {
		snapshot.AlertStatus = node.Realtime.AlertStatus
	}

	if err := s.nodeRepo.SetRealtime(ctx, nodeID, snapshot); err != nil {
		return nil, err
	}

	entry := &entity.HistoryEntry{Sensors: input.SensorReadings, RSSI: input.RSSI}
	if err := s.nodeRepo.AddHistory(ctx, nodeID, at, entry); err != nil {
		return nil, err
	}

	err = appendLog(ctx, s.logRepo, now, entity.LogTypeDataReceived,
		fmt.Sprintf("Data received from %s", node.DisplayName()),
		map[string]any{
			"nodeId":    nodeID,
			"timestamp": int64(at),
		})
	if err != nil {
		return nil, err
	}

	node.Realtime = snapshot

	return s.view(node, now), nil
}

func (s *nodeService) History(ctx context.Context, nodeID string, from, to entity.Millis) ([]*usecase.HistoryPoint, error) {
	node, err := s.find(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	points := make([]*usecase.HistoryPoint, 0, len(node.History))
	for key, entry := range node.History {
		at, ok := entity.ParseMillisKey(key)
		if !ok {
			continue
		}
		if (!from.IsZero() && at < from) || (!to.IsZero() && at > to) {
			continue
		}
		points = append(points, &usecase.HistoryPoint{Timestamp: at, Sensors: entry.Sensors, RSSI: entry.RSSI})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Timestamp < points[j].Timestamp })

	return points, nil
}

func (s *nodeService) Nearby(ctx context.Context, nodeID string, radiusMeters float64) ([]*usecase.NearbyNode, error) {
	if radiusMeters <= 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("radius must be positive")
	}

	origin, err := s.find(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	nodes, err := s.nodeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	from := nodePoint(origin)
	nearby := lo.FilterMap(nodes, func(n *entity.Node, _ int) (*usecase.NearbyNode, bool) {
		if n.ID == nodeID {
			return nil, false
		}
		d := geo.Distance(from, nodePoint(n))

		return &usecase.NearbyNode{NodeID: n.ID, Name: n.DisplayName(), DistanceMeters: d}, d <= radiusMeters
	})

	sort.SliceStable(nearby, func(i, j int) bool { return nearby[i].DistanceMeters < nearby[j].DistanceMeters })

	return nearby, nil
}

func (s *nodeService) GeoJSON(ctx context.Context) (*geojson.FeatureCollection, error) {
	nodes, err := s.nodeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	fc := geojson.NewFeatureCollection()
	for _, n := range nodes {
		f := geojson.NewFeature(nodePoint(n))
		f.ID = n.ID
		f.Properties["name"] = n.DisplayName()
		f.Properties["type"] = string(n.Metadata.Type)
		f.Properties["status"] = string(n.Status(now))
		f.Properties["activeAlerts"] = activeAlerts(n)
		if last := n.LastUpdate(); !last.IsZero() {
			f.Properties["lastUpdate"] = int64(last)
		}
		fc.Append(f)
	}

	return fc, nil
}

func (s *nodeService) Label(ctx context.Context, nodeID string) ([]byte, error) {
	node, err := s.find(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	return s.qrCode.GenerateNodeLabel(node.ID, node.DisplayName())
}

func (s *nodeService) find(ctx context.Context, nodeID string) (*entity.Node, error) {
	node, err := s.nodeRepo.FindByID(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, domainerrors.ErrNodeNotFound.WithDetails(nodeID)
	}

	return node, nil
}

func (s *nodeService) view(n *entity.Node, now time.Time) *usecase.NodeView {
	return &usecase.NodeView{
		ID:           n.ID,
		Metadata:     n.Metadata,
		Realtime:     n.Realtime,
		Status:       n.Status(now),
		LastUpdate:   n.LastUpdate(),
		ActiveAlerts: activeAlerts(n),
	}
}

func activeAlerts(n *entity.Node) int {
	return lo.CountBy(lo.Values(n.Alerts), func(ref entity.NodeAlertRef) bool {
		return !ref.Acknowledged
	})
}

// nodePoint returns the node location as an orb point, longitude first.
func nodePoint(n *entity.Node) orb.Point {
	return orb.Point{n.Metadata.Longitude, n.Metadata.Latitude}
}
