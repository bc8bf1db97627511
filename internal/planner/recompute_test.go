package planner

import (
	"testing"

	"github.com/trip-planner/backend/internal/itinerary"
)

func TestRecompute_AnnotatesActiveDay(t *testing.T) {
	h := newHarness()
	h.ai.estimate = func(places []itinerary.Place) ([]string, error) {
		if len(places) != 3 {
			t.Fatalf("estimate got %d places, want 3", len(places))
		}
		return []string{"15 min", "25 min"}, nil
	}

	h.editor.SetActiveDay("day-1")
	h.clock.fire()

	st := h.editor.State()
	got := st.Days[0].Places
	if got[0].TravelTime != "" || got[1].TravelTime != "15 min" || got[2].TravelTime != "25 min" {
		t.Fatalf("travel times = %q %q %q", got[0].TravelTime, got[1].TravelTime, got[2].TravelTime)
	}
}

func TestRecompute_AnnotationPersists(t *testing.T) {
	h := newHarness()
	h.ai.estimate = func(places []itinerary.Place) ([]string, error) {
		return []string{"15 min", "25 min"}, nil
	}

	h.editor.SetActiveDay("day-1")
	h.clock.fire() // recompute mutates, arming autosave
	h.clock.fire() // autosave picks up the annotated state

	saved := h.store.savedDays()
	if len(saved) == 0 || saved[0].Places[1].TravelTime != "15 min" {
		t.Fatalf("annotated state was not persisted: %+v", saved)
	}
}

func TestRecompute_SkipsFewerThanTwoPlaces(t *testing.T) {
	h := newHarness()
	h.editor.SetActiveDay("day-2")
	h.clock.fire() // flush the arm from switching days
	calls := h.ai.estimateCount()

	h.editor.DeletePlace("day-2", "e")
	h.clock.fire()

	if h.ai.estimateCount() != calls {
		t.Fatalf("recompute ran for a single-place day")
	}
}

func TestRecompute_OverviewNeverRecomputes(t *testing.T) {
	h := newHarness()

	h.editor.SetActiveDay(itinerary.OverviewDayID)
	h.clock.fire()

	if h.ai.estimateCount() != 0 {
		t.Fatalf("recompute ran for the overview pseudo day")
	}
}

func TestRecompute_UnchangedResultStopsThePipeline(t *testing.T) {
	h := newHarness()
	// nil estimates annotate everything empty, matching current state.
	h.editor.SetActiveDay("day-1")
	h.clock.fire()

	if got := h.ai.estimateCount(); got != 1 {
		t.Fatalf("estimate calls = %d, want 1", got)
	}
	if h.store.saveCount() != 0 {
		t.Fatalf("identical annotations triggered a save")
	}

	// Nothing re-armed: another window elapsing runs nothing.
	h.clock.fire()
	if got := h.ai.estimateCount(); got != 1 {
		t.Fatalf("estimate calls = %d after idle window, want 1", got)
	}
}

func TestRecompute_StaleResultDiscardedAfterReplacement(t *testing.T) {
	h := newHarness()
	replacement := []itinerary.Day{{
		DayID: "fresh-day",
		Title: "Fresh",
		Places: []itinerary.Place{
			{ID: "x", Name: "X", Lat: 25.0, Lng: 121.5, Type: itinerary.TypeActivity},
			{ID: "y", Name: "Y", Lat: 25.1, Lng: 121.6, Type: itinerary.TypeActivity},
		},
	}}
	h.ai.estimate = func(places []itinerary.Place) ([]string, error) {
		// The itinerary is bulk-replaced while the estimate is in flight;
		// day-1 no longer exists when the result lands.
		h.editor.ReplaceAll(itinerary.Normalize(replacement), false, "generate")
		return []string{"40 min", "50 min"}, nil
	}

	h.editor.SetActiveDay("day-1")
	h.clock.fire()

	st := h.editor.State()
	if len(st.Days) != 1 || st.Days[0].DayID != "fresh-day" {
		t.Fatalf("replacement not applied: %+v", st.Days)
	}
	for _, p := range st.Days[0].Places {
		if p.TravelTime != "" {
			t.Fatalf("stale annotation leaked onto the replacement: %+v", p)
		}
	}
}

func TestRecompute_StaleResultDiscardedWhenReplacementReusesDayID(t *testing.T) {
	h := newHarness()
	replacement := []itinerary.Day{{
		// Generated and imported itineraries routinely reuse day-1-style
		// ids, so after the swap the triggering dayId resolves to the new
		// day. The result must still be discarded, not written over it.
		DayID: "day-1",
		Title: "Rewritten",
		Places: []itinerary.Place{
			{ID: "n1", Name: "New A", Lat: 25.0, Lng: 121.5, Type: itinerary.TypeActivity},
			{ID: "n2", Name: "New B", Lat: 25.1, Lng: 121.6, Type: itinerary.TypeActivity},
		},
	}}
	h.ai.estimate = func(places []itinerary.Place) ([]string, error) {
		h.editor.ReplaceAll(itinerary.Normalize(replacement), false, "generate")
		return []string{"40 min", "50 min"}, nil
	}

	h.editor.SetActiveDay("day-1")
	h.clock.fire()

	st := h.editor.State()
	if len(st.Days) != 1 || st.Days[0].DayID != "day-1" {
		t.Fatalf("replacement not applied: %+v", st.Days)
	}
	got := st.Days[0].Places
	if len(got) != 2 || got[0].Name != "New A" || got[1].Name != "New B" {
		t.Fatalf("stale estimate overwrote the replacement, places = %+v", got)
	}
	for _, p := range got {
		if p.TravelTime != "" {
			t.Fatalf("stale annotation leaked onto the replacement: %+v", p)
		}
	}
}

func TestRecompute_StaleResultDiscardedAfterUndo(t *testing.T) {
	h := newHarness()
	h.ai.estimate = func(places []itinerary.Place) ([]string, error) {
		// The snapshot restored here contains day-1 with the same places,
		// so only the swap generation distinguishes fresh from stale.
		h.editor.Undo()
		return []string{"15 min", "25 min"}, nil
	}

	h.editor.ReplaceAll(itinerary.CloneDays(h.editor.State().Days), true, "optimize")
	h.editor.SetActiveDay("day-1")
	h.clock.fire()

	st := h.editor.State()
	for _, p := range st.Days[0].Places {
		if p.TravelTime != "" {
			t.Fatalf("stale annotation applied across an undo: %+v", p)
		}
	}
}
