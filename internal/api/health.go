package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AI2HU/trader-ai/internal/models"
	"github.com/AI2HU/trader-ai/internal/shared"
)

// healthCheck handles GET /api/v1/health
func (s *Server) healthCheck(c *gin.Context) {
	status := s.healthService.Status(c.Request.Context())

	code := http.StatusOK
	if status.Status != models.StatusHealthy {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, models.APIResponse{
		Success: code == http.StatusOK,
		Data:    status,
	})
}

// databaseOptions handles GET /api/v1/database
func (s *Server) databaseOptions(c *gin.Context) {
	if s.conn == nil {
		s.errorResponse(c, http.StatusServiceUnavailable, "Database is not configured")
		return
	}

	opts := s.conn.Options
	opts.URL = shared.RedactURL(opts.URL)
	s.successResponse(c, opts)
}
