package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/AI2HU/trader-ai/internal/db"
	"github.com/AI2HU/trader-ai/internal/models"
	"github.com/AI2HU/trader-ai/internal/services"
)

// Default request budget for the whole API
const (
	DefaultRateLimit = 20
	DefaultRateBurst = 40
)

// Server is the HTTP API
type Server struct {
	router        *gin.Engine
	conn          *db.Conn
	healthService *services.HealthService
	corsOrigins   []string
	limiter       *rate.Limiter
}

// NewServer creates a new API server
func NewServer(conn *db.Conn, healthService *services.HealthService, corsOrigins []string) *Server {
	s := &Server{
		router:        gin.New(),
		conn:          conn,
		healthService: healthService,
		corsOrigins:   corsOrigins,
		limiter:       rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateBurst),
	}

	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(requestLogger())
	s.router.Use(s.corsMiddleware())
	s.router.Use(s.rateLimitMiddleware())

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/health", s.healthCheck)
		v1.GET("/database", s.databaseOptions)
	}
}

// Handler exposes the router for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) successResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    data,
	})
}

func (s *Server) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}
