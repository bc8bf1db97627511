package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/trip-planner/backend/internal/itinerary"
)

// TripRepository provides data access for trips. The day/place structure
// is stored as a single JSON document per trip; the engine always writes
// the whole itinerary at once, so there is no row-per-place schema to keep
// consistent.
type TripRepository struct {
	BaseRepository
}

// NewTripRepository creates a new trip repository.
func NewTripRepository(db *DB) *TripRepository {
	return &TripRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// CreateTrip inserts a new trip, assigning an id when the caller left it
// empty.
func (r *TripRepository) CreateTrip(ctx context.Context, trip *itinerary.Trip) error {
	days, err := encodeDays(trip.Days)
	if err != nil {
		return err
	}

	if trip.ID == "" {
		trip.ID = GenerateID()
	}
	now := r.Now()
	trip.CreatedAt = now

	_, err = r.DB().ExecContext(ctx, `
		INSERT INTO trips (
			id, destination, start_date, end_date, title, itinerary,
			cover_image_url, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		trip.ID, trip.Destination, trip.StartDate, trip.EndDate,
		trip.Title, days, trip.CoverImageURL, now, now,
	)

	if err != nil {
		return fmt.Errorf("inserting trip: %w", err)
	}

	return nil
}

// GetTrip retrieves a trip by ID, or nil if it does not exist.
func (r *TripRepository) GetTrip(ctx context.Context, tripID string) (*itinerary.Trip, error) {
	trip := &itinerary.Trip{}
	var days string

	err := r.DB().QueryRowContext(ctx, `
		SELECT id, destination, start_date, end_date, title, itinerary,
			   cover_image_url, created_at
		FROM trips WHERE id = ?
	`, tripID).Scan(
		&trip.ID, &trip.Destination, &trip.StartDate, &trip.EndDate,
		&trip.Title, &days, &trip.CoverImageURL, &trip.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying trip: %w", err)
	}

	if trip.Days, err = decodeDays(days); err != nil {
		return nil, fmt.Errorf("trip %s: %w", tripID, err)
	}

	return trip, nil
}

// ListTrips retrieves all trips, newest first. Itineraries are included
// so callers can show per-trip summaries without a second query.
func (r *TripRepository) ListTrips(ctx context.Context) ([]itinerary.Trip, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, destination, start_date, end_date, title, itinerary,
			   cover_image_url, created_at
		FROM trips
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying trips: %w", err)
	}
	defer rows.Close()

	var trips []itinerary.Trip
	for rows.Next() {
		var trip itinerary.Trip
		var days string
		if err := rows.Scan(
			&trip.ID, &trip.Destination, &trip.StartDate, &trip.EndDate,
			&trip.Title, &days, &trip.CoverImageURL, &trip.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning trip: %w", err)
		}
		if trip.Days, err = decodeDays(days); err != nil {
			return nil, fmt.Errorf("trip %s: %w", trip.ID, err)
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// SaveItinerary replaces the stored day/place structure for a trip.
func (r *TripRepository) SaveItinerary(ctx context.Context, tripID string, days []itinerary.Day) error {
	encoded, err := encodeDays(days)
	if err != nil {
		return err
	}

	result, err := r.DB().ExecContext(ctx, `
		UPDATE trips SET itinerary = ?, updated_at = ? WHERE id = ?
	`, encoded, r.Now(), tripID)
	if err != nil {
		return fmt.Errorf("saving itinerary: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("trip not found: %s", tripID)
	}

	return nil
}

// UpdateTitle renames a trip.
func (r *TripRepository) UpdateTitle(ctx context.Context, tripID, title string) error {
	result, err := r.DB().ExecContext(ctx, `
		UPDATE trips SET title = ?, updated_at = ? WHERE id = ?
	`, title, r.Now(), tripID)
	if err != nil {
		return fmt.Errorf("updating trip title: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("trip not found: %s", tripID)
	}

	return nil
}

// UpdateCoverURL sets the cover image URL for a trip.
func (r *TripRepository) UpdateCoverURL(ctx context.Context, tripID, url string) error {
	result, err := r.DB().ExecContext(ctx, `
		UPDATE trips SET cover_image_url = ?, updated_at = ? WHERE id = ?
	`, url, r.Now(), tripID)
	if err != nil {
		return fmt.Errorf("updating cover image: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("trip not found: %s", tripID)
	}

	return nil
}

// DeleteTrip removes a trip by ID.
func (r *TripRepository) DeleteTrip(ctx context.Context, tripID string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM trips WHERE id = ?", tripID)
	if err != nil {
		return fmt.Errorf("deleting trip: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("trip not found: %s", tripID)
	}

	return nil
}

func encodeDays(days []itinerary.Day) (string, error) {
	if days == nil {
		days = []itinerary.Day{}
	}
	encoded, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("encoding itinerary: %w", err)
	}
	return string(encoded), nil
}

func decodeDays(encoded string) ([]itinerary.Day, error) {
	if encoded == "" {
		return []itinerary.Day{}, nil
	}
	var days []itinerary.Day
	if err := json.Unmarshal([]byte(encoded), &days); err != nil {
		return nil, fmt.Errorf("decoding itinerary: %w", err)
	}
	if days == nil {
		days = []itinerary.Day{}
	}
	return days, nil
}
