// Package handlers provides HTTP request handlers for the API endpoints.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/trip-planner/backend/internal/planner"
	"github.com/trip-planner/backend/internal/storage"
	"github.com/trip-planner/backend/internal/websocket"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	DBConnected bool   `json:"db_connected"`
}

// HealthCheck returns a handler that performs a health check.
func HealthCheck(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbConnected := db.Ping() == nil

		status := "healthy"
		if !dbConnected {
			status = "degraded"
		}

		response := HealthResponse{
			Status:      status,
			DBConnected: dbConnected,
		}

		w.Header().Set("Content-Type", "application/json")
		if status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(response)
	}
}

// StatusResponse represents the system status response.
type StatusResponse struct {
	DBConnected      bool `json:"db_connected"`
	TripsCount       int  `json:"trips_count"`
	OpenSessions     int  `json:"open_sessions"`
	ConnectedClients int  `json:"connected_clients"`
}

// Status returns a handler that provides system status information.
func Status(db *storage.DB, hub *websocket.Hub, registry *planner.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var tripsCount int
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM trips").Scan(&tripsCount)

		response := StatusResponse{
			DBConnected:      db.Ping() == nil,
			TripsCount:       tripsCount,
			OpenSessions:     registry.SessionCount(),
			ConnectedClients: hub.ClientCount(),
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}
