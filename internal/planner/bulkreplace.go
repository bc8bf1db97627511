package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/trip-planner/backend/internal/assistant"
	"github.com/trip-planner/backend/internal/itinerary"
	"github.com/trip-planner/backend/internal/metrics"
)

// Bulk replacement shape violations. These are the one loud error class:
// silently accepting a corrupted AI rewrite would destroy user data, so
// the whole operation is rejected and prior state left intact.
var (
	ErrPlaceCountMismatch = errors.New("bulk replacement does not preserve the place count")
	ErrScopeViolated      = errors.New("day-scoped optimization modified other days")
)

// ReplaceAll atomically swaps the whole itinerary for newDays (already
// normalized by the caller). A snapshot is pushed first unless the session
// has nothing worth restoring (first-time creation). The active day resets
// to the first day of the new set, or overview when empty, and the map
// refocuses on the first place of the first day if it has coordinates.
func (e *Editor) ReplaceAll(newDays []itinerary.Day, snapshot bool, reason string) {
	e.mu.Lock()
	if snapshot {
		e.history.Snapshot(e.days)
	}
	e.days = newDays
	e.replaceGen++
	if len(newDays) > 0 {
		e.activeDayID = newDays[0].DayID
	} else {
		e.activeDayID = itinerary.OverviewDayID
	}
	if len(newDays) > 0 && len(newDays[0].Places) > 0 && newDays[0].Places[0].HasCoordinates() {
		p := newDays[0].Places[0]
		e.mapCenter = itinerary.LatLng{Lat: float64(p.Lat), Lng: float64(p.Lng)}
	}
	e.stopovers = nil
	e.markMutatedLocked(e.activeDayID)
	e.mu.Unlock()

	slog.Info("itinerary replaced", "trip_id", e.tripID, "reason", reason, "days", len(newDays))
	metrics.BulkReplacements.WithLabelValues(reason, "ok").Inc()
	e.notifier.ItineraryReplaced(e.tripID, reason)
}

// Generate asks the assistant for a full itinerary and applies it as a
// bulk replacement. The assistant's identifiers are never trusted; they
// are re-issued during normalization.
func (e *Editor) Generate(ctx context.Context, prompt string, dayCount int) error {
	days, err := e.assistant.GenerateItinerary(ctx, prompt, dayCount)
	if err != nil {
		metrics.BulkReplacements.WithLabelValues("generate", "error").Inc()
		return fmt.Errorf("generating itinerary: %w", err)
	}
	e.ReplaceAll(itinerary.Normalize(days), true, "generate")
	return nil
}

// Optimize asks the assistant to reorder the itinerary and applies the
// result as a bulk replacement after verifying the shape invariants:
// a "day" scope must only reorder places inside the targeted day and a
// "trip" scope may redistribute across days, but both must preserve the
// exact multiset of places. Violations reject the whole operation.
func (e *Editor) Optimize(ctx context.Context, scope assistant.OptimizeScope, constraints string) error {
	e.mu.Lock()
	before := itinerary.CloneDays(e.days)
	activeDayID := e.activeDayID
	e.mu.Unlock()

	result, err := e.assistant.Optimize(ctx, before, scope, activeDayID, constraints)
	if err != nil {
		metrics.BulkReplacements.WithLabelValues("optimize", "error").Inc()
		return fmt.Errorf("optimizing itinerary: %w", err)
	}

	sanitized := itinerary.Normalize(result)
	if err := verifyOptimized(before, sanitized, scope, activeDayID); err != nil {
		slog.Error("optimization rejected", "trip_id", e.tripID, "scope", scope, "error", err)
		metrics.BulkReplacements.WithLabelValues("optimize", "rejected").Inc()
		return err
	}

	e.ReplaceAll(sanitized, true, "optimize")
	return nil
}

// verifyOptimized defends the place multiset across an AI rewrite. Place
// ids are re-issued during normalization, so identity is compared by name.
func verifyOptimized(before, after []itinerary.Day, scope assistant.OptimizeScope, activeDayID string) error {
	if itinerary.TotalPlaces(before) != itinerary.TotalPlaces(after) {
		return ErrPlaceCountMismatch
	}

	switch scope {
	case assistant.ScopeDay:
		if len(before) != len(after) {
			return ErrScopeViolated
		}
		for i := range before {
			if before[i].DayID == activeDayID {
				if !sameNameMultiset(before[i].Places, after[i].Places) {
					return ErrPlaceCountMismatch
				}
				continue
			}
			if !sameNameSequence(before[i].Places, after[i].Places) {
				return ErrScopeViolated
			}
		}
	case assistant.ScopeTrip:
		if !sameNameMultiset(flattenPlaces(before), flattenPlaces(after)) {
			return ErrPlaceCountMismatch
		}
	}
	return nil
}

func flattenPlaces(days []itinerary.Day) []itinerary.Place {
	var out []itinerary.Place
	for _, d := range days {
		out = append(out, d.Places...)
	}
	return out
}

func sameNameSequence(a, b []itinerary.Place) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			return false
		}
	}
	return true
}

func sameNameMultiset(a, b []itinerary.Place) bool {
	if len(a) != len(b) {
		return false
	}
	na := make([]string, len(a))
	nb := make([]string, len(b))
	for i := range a {
		na[i] = a[i].Name
		nb[i] = b[i].Name
	}
	sort.Strings(na)
	sort.Strings(nb)
	for i := range na {
		if na[i] != nb[i] {
			return false
		}
	}
	return true
}
