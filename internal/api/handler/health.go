package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/licensehub/console-gateway/internal/core/ports"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	upstream ports.Upstream
}

func NewHealthHandler(upstream ports.Upstream) *HealthHandler {
	return &HealthHandler{upstream: upstream}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Liveness handles GET /health. It returns 200 as long as the process runs.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Readiness handles GET /health/ready. The backend counts as up when it
// answers with any HTTP status.
func (h *HealthHandler) Readiness(c echo.Context) error {
	if err := h.upstream.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, readinessResponse{
			Status: "degraded",
			Dependencies: map[string]dependencyStatus{
				"backend": {Status: "unhealthy", Error: err.Error()},
			},
		})
	}

	return c.JSON(http.StatusOK, readinessResponse{
		Status:       "ok",
		Dependencies: map[string]dependencyStatus{"backend": {Status: "ok"}},
	})
}
