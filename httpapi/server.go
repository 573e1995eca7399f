// Package httpapi exposes the marketplace over HTTP. Handlers translate
// between the wire format and the domain services; all business rules live
// in the services.
package httpapi

import (
	"context"
	"net/http"

	"quickfixhub/auth"
	"quickfixhub/notify"
	"quickfixhub/provider"
	"quickfixhub/request"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// Pinger is the readiness slice of the database pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server binds the domain services to echo routes.
type Server struct {
	auth     *auth.Service
	requests *request.Service
	profiles provider.Repository
	notifier notify.Notifier
	db       Pinger
	log      zerolog.Logger
}

// NewServer wires a Server over its collaborators.
func NewServer(authSvc *auth.Service, requests *request.Service, profiles provider.Repository, notifier notify.Notifier, db Pinger, log zerolog.Logger) *Server {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Server{
		auth:     authSvc,
		requests: requests,
		profiles: profiles,
		notifier: notifier,
		db:       db,
		log:      log,
	}
}

// Register installs middleware and all routes on the echo instance.
func (s *Server) Register(e *echo.Echo, corsOrigins []string) {
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     corsOrigins,
		AllowCredentials: true,
	}))

	e.GET("/", s.health)
	e.GET("/health", s.health)
	e.GET("/ready", s.ready)

	// Per-IP rate limit on the auth surface to slow credential abuse.
	authGroup := e.Group("/api/auth")
	authGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/signup", s.handleSignup)
	authGroup.POST("/login", s.handleLogin)

	api := e.Group("/api")
	api.Use(s.requireAuth)

	api.GET("/auth/me", s.handleMe)

	service := api.Group("/service", s.requireRole(auth.RoleHomeowner))
	service.POST("/requests", s.handleCreateRequest)
	service.GET("/my-requests", s.handleMyRequests)
	service.POST("/requests/:id/cancel", s.handleCancelRequest)

	prov := api.Group("/provider", s.requireRole(auth.RoleProvider))
	prov.GET("/dashboard/summary", s.handleDashboardSummary)
	prov.GET("/jobs/available", s.handleAvailableJobs)
	prov.GET("/jobs/my", s.handleMyJobs)
	prov.POST("/offers/:id/accept", s.handleAcceptOffer)
	prov.POST("/offers/:id/reject", s.handleRejectOffer)
	prov.POST("/jobs/:id/start", s.handleStartJob)
	prov.POST("/jobs/:id/complete", s.handleCompleteJob)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": "quickfixhub"})
}

func (s *Server) ready(c echo.Context) error {
	if err := s.db.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db unreachable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
}
