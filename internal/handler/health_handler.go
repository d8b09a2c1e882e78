package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/yourorg/trading-dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether an optional dependency is reachable
type Pinger func(ctx context.Context) error

// HealthHandler reports service and dependency health
type HealthHandler struct {
	dashboardService *service.DashboardService
	dependencies     map[string]Pinger
}

// NewHealthHandler creates a health handler. Dependencies are optional and keyed by name.
func NewHealthHandler(dashboardService *service.DashboardService, dependencies map[string]Pinger) *HealthHandler {
	return &HealthHandler{dashboardService: dashboardService, dependencies: dependencies}
}

// Health handles the health check
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	backend := h.dashboardService.Health(ctx)
	if !backend.Healthy {
		status = "degraded"
	}

	dependencies := make(map[string]bool, len(h.dependencies))
	for name, ping := range h.dependencies {
		ok := ping(ctx) == nil
		dependencies[name] = ok
		if !ok {
			status = "degraded"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       status,
		"backend":      backend,
		"dependencies": dependencies,
	})
}
