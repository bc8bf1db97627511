package planner

import (
	"context"
	"log/slog"
	"time"

	"github.com/trip-planner/backend/internal/itinerary"
	"github.com/trip-planner/backend/internal/metrics"
)

const recomputeTimeout = 30 * time.Second

// recomputeNow is the travel-time pipeline body. It annotates the active
// day's place sequence through the assistant. The day that triggered the
// call is captured by dayId at fire time: the user may switch tabs or
// reorder days while the call is in flight, so the result is reconciled
// against whichever day carries that id when it lands, never an array
// index.
func (e *Editor) recomputeNow() {
	e.mu.Lock()
	dayID := e.activeDayID
	if dayID == "" || dayID == itinerary.OverviewDayID {
		e.mu.Unlock()
		return
	}
	day := itinerary.FindDay(e.days, dayID)
	if day == nil || len(day.Places) < 2 {
		e.mu.Unlock()
		metrics.RecomputeRuns.WithLabelValues("skipped").Inc()
		return
	}
	places := itinerary.ClonePlaces(day.Places)
	gen := e.replaceGen
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), recomputeTimeout)
	defer cancel()

	times, err := e.assistant.EstimateTravelTimes(ctx, places)
	if err != nil {
		slog.Warn("travel time estimation failed", "trip_id", e.tripID, "day_id", dayID, "error", err)
		metrics.RecomputeRuns.WithLabelValues("error").Inc()
		return
	}

	annotated := annotateTravelTimes(places, times)

	e.mu.Lock()
	if e.replaceGen != gen {
		// The whole itinerary was swapped (bulk replacement or undo) while
		// the call was in flight. The new days may reuse the triggering
		// dayId, so the id lookup alone cannot tell fresh from stale;
		// discard the result outright.
		e.mu.Unlock()
		metrics.RecomputeRuns.WithLabelValues("stale").Inc()
		return
	}
	day = itinerary.FindDay(e.days, dayID)
	if day == nil {
		// The triggering day no longer exists; the result is stale.
		e.mu.Unlock()
		metrics.RecomputeRuns.WithLabelValues("stale").Inc()
		return
	}
	if itinerary.PlacesEqual(day.Places, annotated) {
		// Identical result: no state update, no redundant save.
		e.mu.Unlock()
		metrics.RecomputeRuns.WithLabelValues("unchanged").Inc()
		return
	}
	day.Places = annotated
	e.markMutatedLocked(dayID)
	e.mu.Unlock()

	slog.Debug("travel times updated", "trip_id", e.tripID, "day_id", dayID, "places", len(annotated))
	metrics.RecomputeRuns.WithLabelValues("ok").Inc()
}

// annotateTravelTimes writes the estimated durations onto the sequence.
// times holds one estimate per consecutive pair, so times[i-1] is the leg
// arriving at place i; the first entry of a day has no preceding leg and
// stays unannotated.
func annotateTravelTimes(places []itinerary.Place, times []string) []itinerary.Place {
	annotated := itinerary.ClonePlaces(places)
	for i := range annotated {
		if i == 0 || i-1 >= len(times) {
			annotated[i].TravelTime = ""
			continue
		}
		annotated[i].TravelTime = times[i-1]
	}
	return annotated
}
