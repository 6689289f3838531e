package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/metrics"
)

// Router holds all handlers
type Router struct {
	auth      echo.MiddlewareFunc
	metrics   *metrics.Metrics
	health    *Health
	webhooks  *WebhookHandler
	identity  *IdentityWebhookHandler
	directory *Directory
	meetings  *Meeting
}

// NewRouter creates a new router with all handlers
func NewRouter(
	auth echo.MiddlewareFunc,
	m *metrics.Metrics,
	health *Health,
	webhooks *WebhookHandler,
	identity *IdentityWebhookHandler,
	directory *Directory,
	meetings *Meeting,
) *Router {
	return &Router{
		auth:      auth,
		metrics:   m,
		health:    health,
		webhooks:  webhooks,
		identity:  identity,
		directory: directory,
		meetings:  meetings,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.health.Check)
	e.GET("/metrics", echo.WrapHandler(rt.metrics.Handler()))

	api := e.Group("/api")

	hooks := api.Group("/webhooks")
	hooks.POST("/meetingbaas", rt.webhooks.HandleMeetingBaaS)
	hooks.POST("/clerk", rt.identity.HandleClerk)

	authed := api.Group("", rt.auth)
	authed.GET("/me", rt.directory.Me)
	rt.setupDirectoryRoutes(authed)
	rt.setupMeetingRoutes(authed)
}

// setupDirectoryRoutes configures team, employee and department routes
func (rt *Router) setupDirectoryRoutes(g *echo.Group) {
	managers := middleware.RequireRole(entities.RoleAdmin, entities.RoleManager)

	teams := g.Group("/teams")
	teams.GET("", rt.directory.ListTeams)
	teams.GET("/:id", rt.directory.GetTeam)
	teams.POST("", rt.directory.CreateTeam, managers)
	teams.DELETE("/:id", rt.directory.DeleteTeam, middleware.RequireRole(entities.RoleAdmin))

	employees := g.Group("/employees")
	employees.GET("", rt.directory.ListEmployees)
	employees.PUT("/:id/manager", rt.directory.AssignManager, managers)

	g.GET("/departments", rt.directory.ListDepartments)
}

// setupMeetingRoutes configures meeting routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetings := g.Group("/meetings")
	meetings.GET("", rt.meetings.ListMeetings)
	meetings.GET("/:id", rt.meetings.GetMeeting)
	meetings.POST("", rt.meetings.ScheduleMeeting, middleware.RequireRole(entities.RoleAdmin, entities.RoleManager))
}
