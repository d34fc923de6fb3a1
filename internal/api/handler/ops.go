package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/airlens/airlens/internal/api/models"
	"github.com/airlens/airlens/internal/api/response"
	"github.com/airlens/airlens/internal/pollution"
	"github.com/airlens/airlens/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	providers *resilience.Registry
	cache     *pollution.Cache
}

// OpsHandlerConfig holds dependencies for the OpsHandler. Providers and
// Cache are optional; without them the status report omits those sections.
type OpsHandlerConfig struct {
	Version   string
	BuildTime string
	Providers *resilience.Registry
	Cache     *pollution.Cache
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsHandlerConfig) *OpsHandler {
	return &OpsHandler{
		version:   cfg.Version,
		buildTime: cfg.BuildTime,
		providers: cfg.Providers,
		cache:     cfg.Cache,
	}
}

// HealthCheck handles GET /api/health - liveness check.
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

// ReadinessCheck handles GET /api/ready - readiness check. The service has
// no hard dependencies: pollution queries degrade to synthetic data when
// the provider is down, so readiness only means the process is serving.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /api/status - provider and subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())
	status := models.SystemStatus{
		Status:     models.HealthStatusOK,
		Time:       now,
		Subsystems: []models.SubsystemStatus{},
		Providers:  []models.ProviderStatus{},
	}

	if h.cache != nil {
		detail := fmt.Sprintf("%d fresh readings", h.cache.Len())
		status.Subsystems = append(status.Subsystems, models.SubsystemStatus{
			Name:   "reading-cache",
			Status: models.HealthStatusOK,
			Detail: &detail,
		})
	}

	if h.providers != nil {
		for _, health := range h.providers.AllHealth() {
			providerStatus := models.ProviderStatus{
				Provider: health.Name,
				Status:   healthStatusFor(health.CircuitState),
			}
			if health.LastSuccessAt != nil {
				ts := models.Timestamp(*health.LastSuccessAt)
				providerStatus.LastSuccessAt = &ts
			}
			if health.LastFailureAt != nil {
				ts := models.Timestamp(*health.LastFailureAt)
				providerStatus.LastFailureAt = &ts
			}
			if health.LastError != "" {
				msg := health.LastError
				providerStatus.Message = &msg
			}
			status.Providers = append(status.Providers, providerStatus)

			// A broken provider degrades the system but never fails it;
			// the aggregation layer keeps serving synthetic data.
			if !health.IsHealthy() && status.Status == models.HealthStatusOK {
				status.Status = models.HealthStatusDegraded
			}
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

func healthStatusFor(state gobreaker.State) models.HealthStatus {
	switch state {
	case gobreaker.StateOpen:
		return models.HealthStatusFail
	case gobreaker.StateHalfOpen:
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusOK
	}
}
