package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/trip-planner/backend/internal/api/middleware"
	"github.com/trip-planner/backend/internal/assistant"
	"github.com/trip-planner/backend/internal/itinerary"
	"github.com/trip-planner/backend/internal/planner"
)

// Editor request types. Mutating operations respond with the session's
// post-operation state so the client re-renders from one source of truth.

type AddPlaceRequest struct {
	DayID string          `json:"day_id"`
	Place itinerary.Place `json:"place"`
}

type UpdatePlaceRequest struct {
	DayID string          `json:"day_id"`
	Place itinerary.Place `json:"place"`
}

type DragEndRequest struct {
	ActiveID string  `json:"active_id"`
	OverID   *string `json:"over_id"`
}

type DayTitleRequest struct {
	Title string `json:"title"`
}

type MoveDayRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type ActiveDayRequest struct {
	DayID string `json:"day_id"`
}

type FocusRequest struct {
	PlaceID string `json:"place_id"`
}

type GenerateRequest struct {
	Prompt   string `json:"prompt"`
	DayCount int    `json:"day_count"`
}

type OptimizeRequest struct {
	Scope       string `json:"scope"`
	Constraints string `json:"constraints"`
}

// openEditor resolves the session for the trip in the route, writing a
// 404 on failure.
func openEditor(w http.ResponseWriter, r *http.Request, registry *planner.Registry) (*planner.Editor, bool) {
	editor, err := registry.Editor(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Trip not found")
		return nil, false
	}
	return editor, true
}

func writeState(w http.ResponseWriter, editor *planner.Editor) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(editor.State())
}

// GetEditorState returns the session's current observable state.
func GetEditorState(registry *planner.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		editor, ok := openEditor(w, r, registry)
		if !ok {
			return
		}
		writeState(w, editor)
	}
}

// AddPlace appends a place to a day.
func AddPlace(registry *planner.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		editor, ok := openEditor(w, r, registry)
		if !ok {
			return
		}

		var req AddPlaceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if strings.TrimSpace(req.Place.Name) == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Place name is required")
			return
		}

		if !editor.AddPlace(req.DayID, req.Place) {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Day not found")
			return
		}
		writeState(w, editor)
	}
}

// UpdatePlace replaces a place's fields in a day.
func UpdatePlace(registry *planner.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		editor, ok := openEditor(w, r, registry)
		if !ok {
			return
		}

		var req UpdatePlaceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		req.Place.ID = mux.Vars(r)["placeId"]

		if !editor.UpdatePlace(req.DayID, req.Place) {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Place not found")
			return
		}
		writeState(w, editor)
	}
}

// DeletePlace removes a place from a day.
func DeletePlace(registry *planner.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		editor, ok := openEditor(w, r, registry)
		if !ok {
			return
		}

		vars := mux.Vars(r)
		if !editor.DeletePlace(vars["dayId"], vars["placeId"]) {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Place not found")
			return
		}
		writeState(w, editor)
	}
}

// DragEnd applies the end of a drag gesture. An abandoned or unresolvable
// drop is a no-op, not an error: the client still gets the current state.
func DragEnd(registry *planner.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		editor, ok := openEditor(w, r, registry)
		if !ok {
			return
		}

		var req DragEndRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if req.ActiveID == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "active_id is required")
			return
		}

		editor.HandleDragEnd(req.ActiveID, req.OverID)
		writeState(w, editor)
	}
}

// UpdateDayTitle renames a day.
func UpdateDayTitle(registry *planner.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		editor, ok := openEditor(w, r, registry)
		if !ok {
			return
		}

		var req DayTitleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if !editor.UpdateDayTitle(mux.Vars(r)["dayId"], req.Title) {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Day not found")
			return
		}
		writeState(w, editor)
	}
}

// MoveDay reorders the calendar sequence of days.
func MoveDay(registry *planner.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		editor, ok := openEditor(w, r, registry)
		if !ok {
			return
		}

		var req MoveDayRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if !editor.MoveDay(req.From, req.To) {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Day position out of range")
			return
		}
		writeState(w, editor)
	}
}

// SetActiveDay switches which day the map and the travel-time pipeline
// follow. "overview" selects the whole-trip view.
func SetActiveDay(registry *planner.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		editor, ok := openEditor(w, r, registry)
		if !ok {
			return
		}

		var req ActiveDayRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if !editor.SetActiveDay(req.DayID) {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Day not found")
			return
		}
		writeState(w, editor)
	}
}

// Undo restores the most recent snapshot. With nothing to undo the state
// is returned unchanged.
func Undo(registry *planner.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		editor, ok := openEditor(w, r, registry)
		if !ok {
			return
		}

		editor.Undo()
		writeState(w, editor)
	}
}

// Focus recenters the map on a place.
func Focus(registry *planner.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		editor, ok := openEditor(w, r, registry)
		if !ok {
			return
		}

		var req FocusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		editor.Focus(req.PlaceID)
		writeState(w, editor)
	}
}

// Generate replaces the whole itinerary with an AI-drafted one. The
// previous state is snapshotted so the replacement is undoable.
func Generate(registry *planner.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		editor, ok := openEditor(w, r, registry)
		if !ok {
			return
		}

		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Prompt is required")
			return
		}

		if err := editor.Generate(r.Context(), req.Prompt, req.DayCount); err != nil {
			middleware.WriteError(w, http.StatusBadGateway, middleware.ErrUpstream, "Itinerary generation failed")
			return
		}
		writeState(w, editor)
	}
}

// Optimize asks the assistant to reorder the itinerary within a scope.
// Proposals that add or drop places are rejected and the itinerary is
// left untouched.
func Optimize(registry *planner.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		editor, ok := openEditor(w, r, registry)
		if !ok {
			return
		}

		var req OptimizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		scope := assistant.OptimizeScope(req.Scope)
		if !scope.Valid() {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Scope must be \"day\" or \"trip\"")
			return
		}

		if err := editor.Optimize(r.Context(), scope, req.Constraints); err != nil {
			if errors.Is(err, planner.ErrPlaceCountMismatch) || errors.Is(err, planner.ErrScopeViolated) {
				middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, "Optimization result rejected: it changed the set of places")
				return
			}
			middleware.WriteError(w, http.StatusBadGateway, middleware.ErrUpstream, "Optimization failed")
			return
		}
		writeState(w, editor)
	}
}

// SearchPlaces asks the assistant for place candidates near the current
// map focus.
func SearchPlaces(registry *planner.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		editor, ok := openEditor(w, r, registry)
		if !ok {
			return
		}

		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Query parameter q is required")
			return
		}

		candidates, err := editor.SearchPlaces(r.Context(), query)
		if err != nil {
			middleware.WriteError(w, http.StatusBadGateway, middleware.ErrUpstream, "Place search failed")
			return
		}
		if candidates == nil {
			candidates = []itinerary.Place{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(candidates)
	}
}

// Stopovers asks the assistant for stops between two itinerary places.
func Stopovers(registry *planner.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		editor, ok := openEditor(w, r, registry)
		if !ok {
			return
		}

		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")
		if from == "" || to == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Query parameters from and to are required")
			return
		}

		candidates, err := editor.Stopovers(r.Context(), from, to)
		if err != nil {
			middleware.WriteError(w, http.StatusBadGateway, middleware.ErrUpstream, "Stopover search failed")
			return
		}
		if candidates == nil {
			candidates = []itinerary.Place{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(candidates)
	}
}
