package services

import (
	"context"
	"log/slog"
	"time"
)

// HealthService reports liveness and readiness for the dashboard server.
type HealthService struct {
	version   string
	buildTime string
	startedAt time.Time
	datasets  *DatasetService
	logger    *slog.Logger
}

// NewHealthService creates a health service with build information.
func NewHealthService(version, buildTime string, datasets *DatasetService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		startedAt: time.Now().UTC(),
		datasets:  datasets,
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns the overall service status.
func (s *HealthService) HealthCheck(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{
		"status":    "healthy",
		"version":   s.version,
		"uptime":    time.Since(s.startedAt).String(),
		"datasets":  s.datasets.Count(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}

// ReadinessCheck reports whether the service can accept uploads. There are
// no external dependencies, so readiness follows liveness.
func (s *HealthService) ReadinessCheck(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{
		"ready":     true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}

// LivenessCheck reports process liveness.
func (s *HealthService) LivenessCheck(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{
		"alive":     true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}

// Version returns build metadata.
func (s *HealthService) Version() map[string]interface{} {
	return map[string]interface{}{
		"version":    s.version,
		"build_time": s.buildTime,
	}
}
