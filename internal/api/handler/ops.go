// Package handler provides HTTP handlers for the PawRoute API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pawroute/pawroute/internal/api/models"
	"github.com/pawroute/pawroute/internal/api/response"
	"github.com/pawroute/pawroute/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	registry  *resilience.Registry
	pool      *pgxpool.Pool
}

// NewOpsHandler creates a new OpsHandler. The registry and pool are
// optional; absent subsystems are simply not reported.
func NewOpsHandler(version, buildTime string, registry *resilience.Registry, pool *pgxpool.Pool) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		registry:  registry,
		pool:      pool,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
// Fails when the database is configured but unreachable.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatusOK
	code := http.StatusOK

	if h.pool != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.pool.Ping(ctx); err != nil {
			status = models.HealthStatusFail
			code = http.StatusServiceUnavailable
		}
	}

	health := models.Health{
		Status: status,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, code, health)
}

// SystemStatus handles GET /v1/ops/status - provider and subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())

	status := models.SystemStatus{
		Status:     models.HealthStatusOK,
		Time:       now,
		Subsystems: []models.SubsystemStatus{},
		Providers:  []models.ProviderStatus{},
	}

	if h.pool != nil {
		dbStatus := models.SubsystemStatus{Name: "postgres", Status: models.HealthStatusOK}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.pool.Ping(ctx); err != nil {
			detail := err.Error()
			dbStatus.Status = models.HealthStatusFail
			dbStatus.Detail = &detail
			status.Status = models.HealthStatusDegraded
		}
		status.Subsystems = append(status.Subsystems, dbStatus)
	}

	if h.registry != nil {
		for _, p := range h.registry.Snapshot() {
			ps := models.ProviderStatus{
				Provider:     p.Name,
				Status:       models.HealthStatusOK,
				CircuitState: p.CircuitState,
			}
			if !p.Healthy {
				ps.Status = models.HealthStatusDegraded
				status.Status = models.HealthStatusDegraded
				if p.LastError != "" {
					msg := p.LastError
					ps.Message = &msg
				}
			}
			if p.LastSuccess != nil {
				ts := models.Timestamp(*p.LastSuccess)
				ps.LastSuccessAt = &ts
			}
			if p.LastFailure != nil {
				ts := models.Timestamp(*p.LastFailure)
				ps.LastFailureAt = &ts
			}
			status.Providers = append(status.Providers, ps)
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}
