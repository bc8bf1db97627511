package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/trip-planner/backend/internal/api/middleware"
	"github.com/trip-planner/backend/internal/itinerary"
	"github.com/trip-planner/backend/internal/planner"
)

// Trip request/response types

type CreateTripRequest struct {
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

type ImportTripRequest struct {
	Text string `json:"text"`
}

type UpdateTitleRequest struct {
	Title string `json:"title"`
}

type UpdateCoverRequest struct {
	URL string `json:"url"`
}

// TripSummary is the list-view shape: the full day structure is omitted,
// only counts are included.
type TripSummary struct {
	ID            string `json:"id"`
	Destination   string `json:"destination"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Title         string `json:"title"`
	DayCount      int    `json:"day_count"`
	PlaceCount    int    `json:"place_count"`
	CoverImageURL string `json:"cover_image_url,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// ListTrips returns summaries of all stored trips, newest first.
func ListTrips(store planner.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trips, err := store.ListTrips(r.Context())
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query trips")
			return
		}

		summaries := make([]TripSummary, 0, len(trips))
		for _, t := range trips {
			summaries = append(summaries, TripSummary{
				ID:            t.ID,
				Destination:   t.Destination,
				StartDate:     t.StartDate,
				EndDate:       t.EndDate,
				Title:         t.Title,
				DayCount:      len(t.Days),
				PlaceCount:    itinerary.TotalPlaces(t.Days),
				CoverImageURL: t.CoverImageURL,
				CreatedAt:     t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summaries)
	}
}

// CreateTrip creates a new trip with one empty day per calendar day and
// opens its editing session.
func CreateTrip(registry *planner.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateTripRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if strings.TrimSpace(req.Destination) == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Destination is required")
			return
		}

		trip, err := registry.CreateTrip(r.Context(), req.Destination, req.StartDate, req.EndDate)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create trip")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(trip)
	}
}

// ImportTrip parses pasted free-form itinerary text into a new trip. A
// failed parse creates nothing.
func ImportTrip(registry *planner.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ImportTripRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if strings.TrimSpace(req.Text) == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Text is required")
			return
		}

		trip, err := registry.ImportFromText(r.Context(), req.Text)
		if err != nil {
			middleware.WriteError(w, http.StatusBadGateway, middleware.ErrUpstream, "Could not parse an itinerary from the text")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(trip)
	}
}

// LoadDemo creates a trip pre-filled with the sample itinerary.
func LoadDemo(registry *planner.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trip, err := registry.LoadDemo(r.Context())
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create demo trip")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(trip)
	}
}

// GetTrip opens (or reuses) the trip's editing session and returns its
// current state.
func GetTrip(registry *planner.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := mux.Vars(r)["id"]

		editor, err := registry.Editor(r.Context(), tripID)
		if err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Trip not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(editor.State())
	}
}

// DeleteTrip closes the trip's session, discarding pending edits after a
// final flush, and removes the stored trip.
func DeleteTrip(store planner.Store, registry *planner.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := mux.Vars(r)["id"]

		registry.Close(tripID)
		if err := store.DeleteTrip(r.Context(), tripID); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Trip not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// UpdateTripTitle renames a trip. The rename persists immediately rather
// than through the autosave pipeline.
func UpdateTripTitle(registry *planner.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := mux.Vars(r)["id"]

		var req UpdateTitleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Title is required")
			return
		}

		editor, err := registry.Editor(r.Context(), tripID)
		if err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Trip not found")
			return
		}

		if err := editor.SetTitle(r.Context(), req.Title); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to rename trip")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(editor.State())
	}
}

// UpdateTripCover sets the cover image URL for a trip.
func UpdateTripCover(store planner.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := mux.Vars(r)["id"]

		var req UpdateCoverRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if err := store.UpdateCoverURL(r.Context(), tripID, req.URL); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Trip not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// maxCoverUploadBytes caps cover image uploads at 10 MiB.
const maxCoverUploadBytes = 10 << 20

// UploadTripCover accepts a multipart cover image, stores it in uploadDir
// named after the trip, and records its public URL on the trip.
func UploadTripCover(store planner.Store, uploadDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := mux.Vars(r)["id"]

		r.Body = http.MaxBytesReader(w, r.Body, maxCoverUploadBytes)
		if err := r.ParseMultipartForm(maxCoverUploadBytes); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid multipart form")
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Missing image file")
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		switch ext {
		case ".jpg", ".jpeg", ".png", ".webp", ".gif":
		default:
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Unsupported image type")
			return
		}

		name := tripID + ext
		dst, err := os.Create(filepath.Join(uploadDir, name))
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to store image")
			return
		}
		defer dst.Close()

		if _, err := io.Copy(dst, file); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to store image")
			return
		}

		url := "/uploads/" + name
		if err := store.UpdateCoverURL(r.Context(), tripID, url); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Trip not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"cover_image_url": url})
	}
}
