package handler

import (
	"net/http"
	"strconv"

	"cloudburst/internal/delivery/api/response"
	"cloudburst/internal/delivery/api/validator"
	"cloudburst/internal/domain/entity"
	"cloudburst/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const defaultNearbyRadiusMeters = 5000

// NodeHandlerParams holds dependencies for NodeHandler, injected by Fx.
type NodeHandlerParams struct {
	fx.In

	NodeUC usecase.NodeUsecase
}

// NodeHandler serves node registration, monitoring and the map feed
type NodeHandler struct {
	nodeUC usecase.NodeUsecase
}

// NewNodeHandler is the constructor for NodeHandler
func NewNodeHandler(params NodeHandlerParams) *NodeHandler {
	return &NodeHandler{nodeUC: params.NodeUC}
}

// RegisterNodeRequest is the node registration form
type RegisterNodeRequest struct {
	NodeID        string   `json:"nodeId" validate:"required"`
	Name          string   `json:"name" validate:"required"`
	Type          string   `json:"type" validate:"omitempty,nodetype"`
	Latitude      float64  `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude     float64  `json:"longitude" validate:"gte=-180,lte=180"`
	Altitude      *float64 `json:"altitude"`
	InstalledDate string   `json:"installedDate"`
	InstalledBy   string   `json:"installedBy"`
	Description   string   `json:"description"`
	NearbyNodes   []string `json:"nearbyNodes"`
}

// UpdateNodeRequest holds the editable node fields; omitted fields are kept
type UpdateNodeRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Altitude    *float64 `json:"altitude"`
	NearbyNodes []string `json:"nearbyNodes"`
}

// RecordReadingRequest is one sensor report from a node or its gateway
type RecordReadingRequest struct {
	Temperature  *float64 `json:"temperature"`
	Pressure     *float64 `json:"pressure"`
	Altitude     *float64 `json:"altitude"`
	Humidity     *float64 `json:"humidity"`
	Rainfall     *float64 `json:"rainfall"`
	RSSI         *float64 `json:"rssi"`
	BatteryLevel *float64 `json:"batteryLevel"`
	Timestamp    int64    `json:"timestamp" validate:"gte=0"`
}

// RegisterNode registers a sensor node or gateway
func (h *NodeHandler) RegisterNode(c echo.Context) error {
	var req RegisterNodeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid node input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequestWithDetails(c, "VALIDATION_ERROR", "Invalid node input", validator.FieldErrors(err))
	}

	view, err := h.nodeUC.Register(c.Request().Context(), &usecase.RegisterNodeInput{
		NodeID:        req.NodeID,
		Name:          req.Name,
		Type:          entity.NodeType(req.Type),
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Altitude:      req.Altitude,
		InstalledDate: req.InstalledDate,
		InstalledBy:   req.InstalledBy,
		Description:   req.Description,
		NearbyNodes:   req.NearbyNodes,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, view)
}

// ListNodes returns nodes with their derived status
func (h *NodeHandler) ListNodes(c echo.Context) error {
	views, err := h.nodeUC.List(c.Request().Context(), &usecase.NodeQuery{
		Search: c.QueryParam("search"),
		Status: entity.NodeStatus(c.QueryParam("status")),
		SortBy: c.QueryParam("sort"),
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, views)
}

// GetNode returns one node
func (h *NodeHandler) GetNode(c echo.Context) error {
	view, err := h.nodeUC.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, view)
}

// UpdateNode edits node metadata
func (h *NodeHandler) UpdateNode(c echo.Context) error {
	var req UpdateNodeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid node input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequestWithDetails(c, "VALIDATION_ERROR", "Invalid node input", validator.FieldErrors(err))
	}

	view, err := h.nodeUC.Update(c.Request().Context(), c.Param("id"), &usecase.UpdateNodeInput{
		Name:        req.Name,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Altitude:    req.Altitude,
		NearbyNodes: req.NearbyNodes,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, view)
}

// DeleteNode removes a node with its readings and history
func (h *NodeHandler) DeleteNode(c echo.Context) error {
	if err := h.nodeUC.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Node deleted successfully"})
}

// RecordReading ingests a sensor report
func (h *NodeHandler) RecordReading(c echo.Context) error {
	var req RecordReadingRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reading input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequestWithDetails(c, "VALIDATION_ERROR", "Invalid reading input", validator.FieldErrors(err))
	}

	view, err := h.nodeUC.RecordReading(c.Request().Context(), c.Param("id"), &usecase.ReadingInput{
		SensorReadings: entity.SensorReadings{
			Temperature: req.Temperature,
			Pressure:    req.Pressure,
			Altitude:    req.Altitude,
			Humidity:    req.Humidity,
			Rainfall:    req.Rainfall,
		},
		RSSI:         req.RSSI,
		BatteryLevel: req.BatteryLevel,
		Timestamp:    entity.Millis(req.Timestamp),
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, view)
}

// GetHistory returns history samples between the optional from and to
// millisecond bounds
func (h *NodeHandler) GetHistory(c echo.Context) error {
	from, err := millisParam(c, "from")
	if err != nil {
		return response.BadRequest(c, "INVALID_RANGE", "from must be a millisecond timestamp")
	}

	to, err := millisParam(c, "to")
	if err != nil {
		return response.BadRequest(c, "INVALID_RANGE", "to must be a millisecond timestamp")
	}

	points, err := h.nodeUC.History(c.Request().Context(), c.Param("id"), from, to)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, points)
}

// GetNearby suggests nodes within radius meters
func (h *NodeHandler) GetNearby(c echo.Context) error {
	radius := float64(defaultNearbyRadiusMeters)
	if raw := c.QueryParam("radius"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return response.BadRequest(c, "INVALID_RADIUS", "radius must be a number of meters")
		}
		radius = parsed
	}

	nearby, err := h.nodeUC.Nearby(c.Request().Context(), c.Param("id"), radius)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, nearby)
}

// GetGeoJSON serves the node map as a bare FeatureCollection
func (h *NodeHandler) GetGeoJSON(c echo.Context) error {
	fc, err := h.nodeUC.GeoJSON(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	body, err := fc.MarshalJSON()
	if err != nil {
		return err
	}

	return c.Blob(http.StatusOK, "application/geo+json", body)
}

// GetLabel serves the node label QR code as PNG
func (h *NodeHandler) GetLabel(c echo.Context) error {
	png, err := h.nodeUC.Label(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

func millisParam(c echo.Context, name string) (entity.Millis, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, echo.ErrBadRequest
	}

	return entity.Millis(v), nil
}
