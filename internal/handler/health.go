package handler

import (
	"net/http"
	"time"

	"itemhub-rest-api/internal/service"
	"itemhub-rest-api/pkg/response"
)

// startTime tracks when the server started for uptime calculation
var startTime = time.Now()

// HealthHandler contains liveness and status handlers.
type HealthHandler struct {
	itemService *service.ItemService
	environment string
	version     string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(itemService *service.ItemService, environment, version string) *HealthHandler {
	return &HealthHandler{
		itemService: itemService,
		environment: environment,
		version:     version,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.OK(w, HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.environment,
	})
}

// StatusChecks represents the checks in status response
type StatusChecks struct {
	Database string `json:"database"`
}

// StatusResponse represents the unified status response for monitoring.
type StatusResponse struct {
	Service       string       `json:"service"`
	Status        string       `json:"status"`
	Version       string       `json:"version"`
	Timestamp     string       `json:"timestamp"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	Checks        StatusChecks `json:"checks"`
}

// Status handles GET /api/status - health check including store reachability.
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	database := "ok"
	status := "ok"
	if err := h.itemService.PingStore(r.Context()); err != nil {
		database = "unreachable"
		status = "degraded"
	}

	resp := StatusResponse{
		Service:       "itemhub-rest-api",
		Status:        status,
		Version:       h.version,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		UptimeSeconds: int64(time.Since(startTime).Seconds()),
		Checks:        StatusChecks{Database: database},
	}

	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	response.OK(w, resp)
}
