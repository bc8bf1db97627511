package storage

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/trip-planner/backend/internal/itinerary"
)

func newTestRepo(t *testing.T) *TripRepository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "trips.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := RunMigrations(db); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	return NewTripRepository(db)
}

func sampleTrip() *itinerary.Trip {
	return itinerary.NewTrip("Taipei", "2026-04-01", "2026-04-02", []itinerary.Day{
		{
			DayID: "day-1",
			Title: "Day 1",
			Places: []itinerary.Place{
				{ID: "a", Name: "Taipei 101", Lat: 25.033, Lng: 121.564, Type: itinerary.TypeActivity},
			},
		},
	})
}

func TestTripRepository_CreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	trip := sampleTrip()
	if err := repo.CreateTrip(ctx, trip); err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}

	got, err := repo.GetTrip(ctx, trip.ID)
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if got == nil {
		t.Fatalf("trip not found after create")
	}
	if got.Destination != "Taipei" || got.Title != "Taipei Trip" {
		t.Fatalf("unexpected trip: %+v", got)
	}
	if !itinerary.DaysEqual(trip.Days, got.Days) {
		t.Fatalf("itinerary did not round-trip: %+v", got.Days)
	}
}

func TestTripRepository_CreateAssignsID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	trip := &itinerary.Trip{Destination: "Kyoto", StartDate: "2026-05-01", EndDate: "2026-05-02"}
	if err := repo.CreateTrip(ctx, trip); err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}
	if trip.ID == "" {
		t.Fatalf("no id assigned on create")
	}

	got, err := repo.GetTrip(ctx, trip.ID)
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if got == nil || got.Destination != "Kyoto" {
		t.Fatalf("trip not retrievable under assigned id: %+v", got)
	}
}

func TestTripRepository_GetMissingReturnsNil(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.GetTrip(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing trip")
	}
}

func TestTripRepository_SaveItinerary(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	trip := sampleTrip()
	if err := repo.CreateTrip(ctx, trip); err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}

	updated := itinerary.CloneDays(trip.Days)
	updated[0].Places = append(updated[0].Places, itinerary.Place{
		ID: "b", Name: "Unresolved", Type: itinerary.TypeActivity,
		Lat: itinerary.Coord(math.NaN()), Lng: itinerary.Coord(math.NaN()),
	})
	if err := repo.SaveItinerary(ctx, trip.ID, updated); err != nil {
		t.Fatalf("SaveItinerary: %v", err)
	}

	got, err := repo.GetTrip(ctx, trip.ID)
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if len(got.Days[0].Places) != 2 {
		t.Fatalf("itinerary not replaced: %+v", got.Days)
	}
	// Unresolved coordinates survive persistence as null and come back
	// unresolved, not zero.
	if got.Days[0].Places[1].HasCoordinates() {
		t.Fatalf("NaN coordinate resolved through the round trip: %+v", got.Days[0].Places[1])
	}
}

func TestTripRepository_SaveItineraryUnknownTrip(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.SaveItinerary(context.Background(), "nope", nil); err == nil {
		t.Fatalf("expected error for unknown trip")
	}
}

func TestTripRepository_List(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := sampleTrip()
	if err := repo.CreateTrip(ctx, first); err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}
	second := itinerary.NewTrip("Kyoto", "2026-05-01", "2026-05-02", nil)
	if err := repo.CreateTrip(ctx, second); err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}

	trips, err := repo.ListTrips(ctx)
	if err != nil {
		t.Fatalf("ListTrips: %v", err)
	}
	if len(trips) != 2 {
		t.Fatalf("got %d trips, want 2", len(trips))
	}
}

func TestTripRepository_UpdateTitleAndCover(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	trip := sampleTrip()
	if err := repo.CreateTrip(ctx, trip); err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}

	if err := repo.UpdateTitle(ctx, trip.ID, "Renamed"); err != nil {
		t.Fatalf("UpdateTitle: %v", err)
	}
	if err := repo.UpdateCoverURL(ctx, trip.ID, "https://example.com/cover.jpg"); err != nil {
		t.Fatalf("UpdateCoverURL: %v", err)
	}

	got, _ := repo.GetTrip(ctx, trip.ID)
	if got.Title != "Renamed" || got.CoverImageURL != "https://example.com/cover.jpg" {
		t.Fatalf("updates not visible: %+v", got)
	}

	if err := repo.UpdateTitle(ctx, "nope", "x"); err == nil {
		t.Fatalf("expected error for unknown trip")
	}
}

func TestTripRepository_Delete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	trip := sampleTrip()
	if err := repo.CreateTrip(ctx, trip); err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}
	if err := repo.DeleteTrip(ctx, trip.ID); err != nil {
		t.Fatalf("DeleteTrip: %v", err)
	}
	if got, _ := repo.GetTrip(ctx, trip.ID); got != nil {
		t.Fatalf("trip still present after delete")
	}
	if err := repo.DeleteTrip(ctx, trip.ID); err == nil {
		t.Fatalf("expected error deleting twice")
	}
}
