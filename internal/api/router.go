// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trip-planner/backend/internal/api/handlers"
	"github.com/trip-planner/backend/internal/api/middleware"
	"github.com/trip-planner/backend/internal/planner"
	"github.com/trip-planner/backend/internal/storage"
	"github.com/trip-planner/backend/internal/websocket"
)

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(
	db *storage.DB,
	store planner.Store,
	registry *planner.Registry,
	hub *websocket.Hub,
	staticDir string,
	uploadDir string,
) *mux.Router {
	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// API subrouter
	api := r.PathPrefix("/api").Subrouter()

	// Health and status endpoints
	api.HandleFunc("/health", handlers.HealthCheck(db)).Methods("GET")
	api.HandleFunc("/status", handlers.Status(db, hub, registry)).Methods("GET")

	// WebSocket endpoint
	api.HandleFunc("/ws", handlers.WebSocketUpgrade(hub)).Methods("GET")

	// Trip lifecycle endpoints
	api.HandleFunc("/trips", handlers.ListTrips(store)).Methods("GET")
	api.HandleFunc("/trips", handlers.CreateTrip(registry)).Methods("POST")
	api.HandleFunc("/trips/import", handlers.ImportTrip(registry)).Methods("POST")
	api.HandleFunc("/trips/demo", handlers.LoadDemo(registry)).Methods("POST")
	api.HandleFunc("/trips/{id}", handlers.GetTrip(registry)).Methods("GET")
	api.HandleFunc("/trips/{id}", handlers.DeleteTrip(store, registry)).Methods("DELETE")
	api.HandleFunc("/trips/{id}/title", handlers.UpdateTripTitle(registry)).Methods("PUT")
	api.HandleFunc("/trips/{id}/cover", handlers.UpdateTripCover(store)).Methods("PUT")
	api.HandleFunc("/trips/{id}/cover", handlers.UploadTripCover(store, uploadDir)).Methods("POST")

	// Editing session endpoints
	api.HandleFunc("/trips/{id}/state", handlers.GetEditorState(registry)).Methods("GET")
	api.HandleFunc("/trips/{id}/places", handlers.AddPlace(registry)).Methods("POST")
	api.HandleFunc("/trips/{id}/places/{placeId}", handlers.UpdatePlace(registry)).Methods("PUT")
	api.HandleFunc("/trips/{id}/days/{dayId}/places/{placeId}", handlers.DeletePlace(registry)).Methods("DELETE")
	api.HandleFunc("/trips/{id}/days/{dayId}/title", handlers.UpdateDayTitle(registry)).Methods("PUT")
	api.HandleFunc("/trips/{id}/days/move", handlers.MoveDay(registry)).Methods("POST")
	api.HandleFunc("/trips/{id}/drag", handlers.DragEnd(registry)).Methods("POST")
	api.HandleFunc("/trips/{id}/active-day", handlers.SetActiveDay(registry)).Methods("PUT")
	api.HandleFunc("/trips/{id}/undo", handlers.Undo(registry)).Methods("POST")
	api.HandleFunc("/trips/{id}/focus", handlers.Focus(registry)).Methods("POST")

	// Assistant-backed endpoints
	api.HandleFunc("/trips/{id}/generate", handlers.Generate(registry)).Methods("POST")
	api.HandleFunc("/trips/{id}/optimize", handlers.Optimize(registry)).Methods("POST")
	api.HandleFunc("/trips/{id}/search", handlers.SearchPlaces(registry)).Methods("GET")
	api.HandleFunc("/trips/{id}/stopovers", handlers.Stopovers(registry)).Methods("GET")

	// Uploaded cover images
	r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	// Serve static frontend files
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))

	return r
}
