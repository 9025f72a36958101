package models

import "time"

// Health status values
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// HealthStatus is the service health report
type HealthStatus struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	Engine    string            `json:"engine"`
	Services  map[string]string `json:"services"`
}
