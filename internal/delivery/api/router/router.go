// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"net/http"

	"cloudburst/internal/delivery/api/middleware"
	"cloudburst/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AlertHandler        *handler.AlertHandler
	NodeHandler         *handler.NodeHandler
	ContactHandler      *handler.ContactHandler
	NotificationHandler *handler.NotificationHandler
	LogHandler          *handler.LogHandler
	DataHandler         *handler.DataHandler
	AuthHandler         *handler.AuthHandler
	WatchHandler        *handler.WatchHandler
	AuthMiddleware      *middleware.AuthMiddleware

	// MetricsHandler serves /metrics when provided
	MetricsHandler http.Handler `name:"metricsHandler" optional:"true"`
}

// router holds all the handlers that need to be registered.
type router struct {
	alertHandler        *handler.AlertHandler
	nodeHandler         *handler.NodeHandler
	contactHandler      *handler.ContactHandler
	notificationHandler *handler.NotificationHandler
	logHandler          *handler.LogHandler
	dataHandler         *handler.DataHandler
	authHandler         *handler.AuthHandler
	watchHandler        *handler.WatchHandler
	authMiddleware      *middleware.AuthMiddleware
	metricsHandler      http.Handler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		alertHandler:        params.AlertHandler,
		nodeHandler:         params.NodeHandler,
		contactHandler:      params.ContactHandler,
		notificationHandler: params.NotificationHandler,
		logHandler:          params.LogHandler,
		dataHandler:         params.DataHandler,
		authHandler:         params.AuthHandler,
		watchHandler:        params.WatchHandler,
		authMiddleware:      params.AuthMiddleware,
		metricsHandler:      params.MetricsHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
// Reads are public; every mutating route goes through the auth middleware.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)
	if r.metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(r.metricsHandler))
	}

	e.POST("/auth/login", r.authHandler.Login)

	apiV1 := e.Group("/api/v1")
	admin := r.authMiddleware.Authenticate

	// Live collection feeds
	apiV1.GET("/watch/:collection", r.watchHandler.Watch)

	nodesGroup := apiV1.Group("/nodes")
	{
		nodesGroup.GET("", r.nodeHandler.ListNodes)
		nodesGroup.GET("/geojson", r.nodeHandler.GetGeoJSON)
		nodesGroup.GET("/:id", r.nodeHandler.GetNode)
		nodesGroup.GET("/:id/history", r.nodeHandler.GetHistory)
		nodesGroup.GET("/:id/nearby", r.nodeHandler.GetNearby)
		nodesGroup.GET("/:id/label.png", r.nodeHandler.GetLabel)
		nodesGroup.POST("", r.nodeHandler.RegisterNode, admin)
		nodesGroup.PUT("/:id", r.nodeHandler.UpdateNode, admin)
		nodesGroup.DELETE("/:id", r.nodeHandler.DeleteNode, admin)

		// Gateways report without an admin token
		nodesGroup.POST("/:id/readings", r.nodeHandler.RecordReading)
	}

	alertsGroup := apiV1.Group("/alerts")
	{
		alertsGroup.GET("", r.alertHandler.ListAlerts)
		alertsGroup.GET("/:id", r.alertHandler.GetAlert)
		alertsGroup.GET("/:id/notifications", r.alertHandler.ListAlertNotifications)
		alertsGroup.POST("", r.alertHandler.DispatchAlert, admin)
		alertsGroup.POST("/:id/acknowledge", r.alertHandler.AcknowledgeAlert, admin)
	}

	contactsGroup := apiV1.Group("/contacts")
	{
		contactsGroup.GET("", r.contactHandler.ListContacts)
		contactsGroup.POST("", r.contactHandler.CreateContact, admin)
		contactsGroup.PUT("/:id", r.contactHandler.UpdateContact, admin)
		contactsGroup.DELETE("/:id", r.contactHandler.DeleteContact, admin)
	}

	notificationsGroup := apiV1.Group("/notifications")
	{
		notificationsGroup.GET("/sms/status", r.notificationHandler.GetSMSStatus)
		notificationsGroup.POST("/:id/read", r.notificationHandler.MarkRead, admin)
	}

	apiV1.GET("/logs", r.logHandler.ListLogs)

	// Exports contain contact phone numbers, so the whole group is guarded
	dataGroup := apiV1.Group("/data", admin)
	{
		dataGroup.GET("/export", r.dataHandler.Export)
		dataGroup.POST("/archive", r.dataHandler.Archive)
		dataGroup.POST("/import", r.dataHandler.Import)
		dataGroup.POST("/cleanup", r.dataHandler.Cleanup)
		dataGroup.POST("/reset", r.dataHandler.Reset)
	}
}
