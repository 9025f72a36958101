package services

import (
	"context"
	"time"

	"github.com/AI2HU/trader-ai/internal/db"
	"github.com/AI2HU/trader-ai/internal/logger"
	"github.com/AI2HU/trader-ai/internal/models"
)

const probeTimeout = 5 * time.Second

// HealthService reports whether the service and its database are usable
type HealthService struct {
	conn    *db.Conn
	version string
	now     func() time.Time
}

// NewHealthService creates a new health service
func NewHealthService(conn *db.Conn, version string) *HealthService {
	return &HealthService{
		conn:    conn,
		version: version,
		now:     time.Now,
	}
}

// CheckDatabase runs a trivial query and returns healthy or degraded
func (s *HealthService) CheckDatabase(ctx context.Context) string {
	if s.conn == nil || s.conn.DB() == nil {
		return models.StatusDegraded
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	var one int
	if err := s.conn.DB().QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		logger.Warning("Database health check failed: %v", err)
		return models.StatusDegraded
	}
	return models.StatusHealthy
}

// Status returns the full health report
func (s *HealthService) Status(ctx context.Context) *models.HealthStatus {
	databaseStatus := s.CheckDatabase(ctx)

	status := models.StatusHealthy
	if databaseStatus != models.StatusHealthy {
		status = models.StatusDegraded
	}

	engine := ""
	if s.conn != nil {
		engine = s.conn.Kind().String()
	}

	return &models.HealthStatus{
		Status:    status,
		Version:   s.version,
		Timestamp: s.now().UTC(),
		Engine:    engine,
		Services: map[string]string{
			"database": databaseStatus,
		},
	}
}
