package itinerary

import "testing"

func testDays() []Day {
	return []Day{
		{
			DayID: "day-1",
			Title: "Day 1",
			Places: []Place{
				{ID: "a", Name: "A"},
				{ID: "b", Name: "B"},
				{ID: "c", Name: "C"},
			},
		},
		{
			DayID: "day-2",
			Title: "Day 2",
			Places: []Place{
				{ID: "d", Name: "D"},
				{ID: "e", Name: "E"},
			},
		},
		{
			DayID:  "day-3",
			Title:  "Day 3",
			Places: []Place{},
		},
	}
}

func placeIDs(d Day) []string {
	ids := make([]string, len(d.Places))
	for i, p := range d.Places {
		ids[i] = p.ID
	}
	return ids
}

func assertOrder(t *testing.T, d Day, want ...string) {
	t.Helper()
	got := placeIDs(d)
	if len(got) != len(want) {
		t.Fatalf("day %s: got %v, want %v", d.DayID, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("day %s: got %v, want %v", d.DayID, got, want)
		}
	}
}

func TestMoveWithinDay_Down(t *testing.T) {
	days := testDays()
	if !MoveWithinDay(days, "day-1", "a", "c") {
		t.Fatalf("expected move to apply")
	}
	assertOrder(t, days[0], "b", "c", "a")
}

func TestMoveWithinDay_Up(t *testing.T) {
	days := testDays()
	if !MoveWithinDay(days, "day-1", "c", "a") {
		t.Fatalf("expected move to apply")
	}
	assertOrder(t, days[0], "c", "a", "b")
}

func TestMoveWithinDay_SamePosition(t *testing.T) {
	days := testDays()
	if MoveWithinDay(days, "day-1", "b", "b") {
		t.Fatalf("expected no-op for identical source and target")
	}
	assertOrder(t, days[0], "a", "b", "c")
}

func TestMoveWithinDay_UnknownIDs(t *testing.T) {
	days := testDays()
	if MoveWithinDay(days, "day-1", "a", "zzz") {
		t.Fatalf("expected no-op for unknown target")
	}
	if MoveWithinDay(days, "nope", "a", "b") {
		t.Fatalf("expected no-op for unknown day")
	}
	assertOrder(t, days[0], "a", "b", "c")
}

func TestMoveAcrossDays_AtTargetIndex(t *testing.T) {
	days := testDays()
	if !MoveAcrossDays(days, "day-1", "day-2", "b", "e") {
		t.Fatalf("expected move to apply")
	}
	assertOrder(t, days[0], "a", "c")
	assertOrder(t, days[1], "d", "b", "e")
}

func TestMoveAcrossDays_ContainerDropAppends(t *testing.T) {
	days := testDays()
	if !MoveAcrossDays(days, "day-1", "day-3", "a", "day-3") {
		t.Fatalf("expected move to apply")
	}
	assertOrder(t, days[0], "b", "c")
	assertOrder(t, days[2], "a")
}

func TestMoveAcrossDays_NoDuplicate(t *testing.T) {
	days := testDays()
	MoveAcrossDays(days, "day-1", "day-2", "a", "d")

	count := 0
	for _, d := range days {
		for _, p := range d.Places {
			if p.ID == "a" {
				count++
			}
		}
	}
	if count != 1 {
		t.Fatalf("place a appears %d times, want 1", count)
	}
}

func TestMoveDay(t *testing.T) {
	days := testDays()
	if !MoveDay(days, 0, 2) {
		t.Fatalf("expected move to apply")
	}
	if days[0].DayID != "day-2" || days[1].DayID != "day-3" || days[2].DayID != "day-1" {
		t.Fatalf("unexpected day order: %s %s %s", days[0].DayID, days[1].DayID, days[2].DayID)
	}
	// The moved day keeps its own places and id.
	assertOrder(t, days[2], "a", "b", "c")
}

func TestMoveDay_OutOfRange(t *testing.T) {
	days := testDays()
	if MoveDay(days, 0, 3) || MoveDay(days, -1, 1) || MoveDay(days, 1, 1) {
		t.Fatalf("expected out-of-range moves to be rejected")
	}
}

func TestResolveDrop_WithinDay(t *testing.T) {
	days := testDays()
	if !ResolveDrop(days, "c", "a") {
		t.Fatalf("expected drop to resolve")
	}
	assertOrder(t, days[0], "c", "a", "b")
}

func TestResolveDrop_AcrossDaysOntoPlace(t *testing.T) {
	days := testDays()
	if !ResolveDrop(days, "a", "e") {
		t.Fatalf("expected drop to resolve")
	}
	assertOrder(t, days[0], "b", "c")
	assertOrder(t, days[1], "d", "a", "e")
}

func TestResolveDrop_OntoDayContainer(t *testing.T) {
	days := testDays()
	if !ResolveDrop(days, "d", "day-3") {
		t.Fatalf("expected drop to resolve")
	}
	assertOrder(t, days[1], "e")
	assertOrder(t, days[2], "d")
}

func TestResolveDrop_Unresolvable(t *testing.T) {
	days := testDays()
	if ResolveDrop(days, "zzz", "a") {
		t.Fatalf("expected unknown active id to be a no-op")
	}
	if ResolveDrop(days, "a", "zzz") {
		t.Fatalf("expected unknown target to be a no-op")
	}
	assertOrder(t, days[0], "a", "b", "c")
	assertOrder(t, days[1], "d", "e")
}
