package planner

import (
	"context"
	"log/slog"
	"time"

	"github.com/trip-planner/backend/internal/itinerary"
	"github.com/trip-planner/backend/internal/metrics"
)

// saveTimeout bounds how long a single persistence call may take. The
// collaborator owns its own timeout policy; this is the engine's eventual
// give-up point for logging purposes.
const saveTimeout = 30 * time.Second

// saveNow is the autosave pipeline body. It always serializes the state it
// reads at execution time, never a payload captured when the window was
// armed; that is what makes a stale completed save harmless and what
// prevents lost updates between rapid edits and slow network calls.
//
// A failed save is logged and broadcast but not retried here: the next
// qualifying mutation rearms the window and attempts again with fresher
// state (retry by supersession).
func (e *Editor) saveNow() {
	e.mu.Lock()
	days := itinerary.CloneDays(e.days)
	e.mu.Unlock()

	e.notifier.SaveStateChanged(e.tripID, SaveStateSaving, nil)

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := e.store.SaveItinerary(ctx, e.tripID, days); err != nil {
		slog.Error("autosave failed", "trip_id", e.tripID, "days", len(days), "error", err)
		metrics.AutosaveRuns.WithLabelValues("error").Inc()
		e.notifier.SaveStateChanged(e.tripID, SaveStateFailed, err)
		return
	}

	slog.Debug("autosave complete", "trip_id", e.tripID, "days", len(days))
	metrics.AutosaveRuns.WithLabelValues("ok").Inc()
	e.notifier.SaveStateChanged(e.tripID, SaveStateSaved, nil)
}
