package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AmityTek/chat-node-next/internal/service"
)

// Check represents the status of a single health check.
type Check struct {
	Status  string `json:"status"` // "pass" or "fail"
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string           `json:"status"` // "healthy" or "degraded"
	Checks    map[string]Check `json:"checks"`
	Timestamp string           `json:"timestamp"`
}

// HealthHandler reports reachability of the message store and the
// fanout bus.
type HealthHandler struct {
	db     *mongo.Database
	fanout service.IFanoutBus
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *mongo.Database, fanout service.IFanoutBus) *HealthHandler {
	return &HealthHandler{db: db, fanout: fanout}
}

// Handle handles GET /healthz.
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]Check)
	allHealthy := true

	mongoStart := time.Now()
	if err := h.db.Client().Ping(ctx, nil); err != nil {
		checks["mongo"] = Check{Status: "fail", Message: "connection failed"}
		allHealthy = false
	} else {
		checks["mongo"] = Check{Status: "pass", Latency: time.Since(mongoStart).String()}
	}

	busStart := time.Now()
	if err := h.fanout.Ping(ctx); err != nil {
		checks["bus"] = Check{Status: "fail", Message: "connection failed"}
		allHealthy = false
	} else {
		checks["bus"] = Check{Status: "pass", Latency: time.Since(busStart).String()}
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(HealthResponse{
		Status:    status,
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
