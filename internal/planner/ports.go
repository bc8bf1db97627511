// Package planner implements the itinerary editing engine: synchronous
// user mutations, the bounded undo history, the debounced autosave and
// travel-time recomputation pipelines, and atomic bulk replacement of the
// itinerary from AI proposals.
//
// The engine owns the in-memory trip state exclusively. Collaborators
// (persistence, planning assistant, event notification) are injected as
// interfaces and only ever receive copies; they never hold a live
// reference into engine-owned state.
package planner

import (
	"context"

	"github.com/trip-planner/backend/internal/assistant"
	"github.com/trip-planner/backend/internal/itinerary"
)

// Store is the persistence collaborator. All calls may fail; a failure
// must never corrupt in-memory state.
type Store interface {
	ListTrips(ctx context.Context) ([]itinerary.Trip, error)
	GetTrip(ctx context.Context, tripID string) (*itinerary.Trip, error)
	CreateTrip(ctx context.Context, trip *itinerary.Trip) error
	SaveItinerary(ctx context.Context, tripID string, days []itinerary.Day) error
	UpdateTitle(ctx context.Context, tripID, title string) error
	UpdateCoverURL(ctx context.Context, tripID, url string) error
	DeleteTrip(ctx context.Context, tripID string) error
}

// Assistant is the AI planning collaborator. Each call is bounded by the
// collaborator's own timeout and may fail; the engine treats failure as
// "no change" except where a caller explicitly requires otherwise
// (text-import failure aborts trip creation).
type Assistant interface {
	FindPlaces(ctx context.Context, query string, center itinerary.LatLng) ([]itinerary.Place, error)
	GenerateItinerary(ctx context.Context, prompt string, dayCount int) ([]itinerary.Day, error)
	Optimize(ctx context.Context, days []itinerary.Day, scope assistant.OptimizeScope, activeDayID, constraints string) ([]itinerary.Day, error)
	ParseText(ctx context.Context, text string) (*assistant.ParsedTrip, error)
	EstimateTravelTimes(ctx context.Context, places []itinerary.Place) ([]string, error)
	FindStopovers(ctx context.Context, from, to itinerary.Place) ([]itinerary.Place, error)
}

// Save states surfaced through the Notifier.
const (
	SaveStateSaving = "saving"
	SaveStateSaved  = "saved"
	SaveStateFailed = "failed"
)

// Notifier receives engine events for best-effort user-facing surfacing
// (the websocket broadcaster in production). Implementations must not
// block.
type Notifier interface {
	SaveStateChanged(tripID, state string, err error)
	ItineraryReplaced(tripID, reason string)
}

// noopNotifier lets the engine run without an event sink in tests.
type noopNotifier struct{}

func (noopNotifier) SaveStateChanged(string, string, error) {}
func (noopNotifier) ItineraryReplaced(string, string)       {}
