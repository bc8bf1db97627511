// Package itinerary contains the domain model for trips: ordered days of
// ordered places, the reorder engine and the undo history.
package itinerary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// PlaceType categorizes a stop on the itinerary.
type PlaceType string

const (
	TypeActivity PlaceType = "activity"
	TypeFlight   PlaceType = "flight"
	TypeHotel    PlaceType = "hotel"
)

// Valid reports whether the type is one of the known categories.
func (t PlaceType) Valid() bool {
	switch t {
	case TypeActivity, TypeFlight, TypeHotel:
		return true
	}
	return false
}

// Coord is a latitude or longitude that may be unresolved.
// An unresolved coordinate is NaN in memory and null on the wire, since
// JSON cannot represent NaN.
type Coord float64

// IsSet reports whether the coordinate holds a plottable value.
func (c Coord) IsSet() bool {
	f := float64(c)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// MarshalJSON encodes non-finite coordinates as null.
func (c Coord) MarshalJSON() ([]byte, error) {
	if !c.IsSet() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(c))
}

// UnmarshalJSON decodes null (or a quoted number, which some AI responses
// produce) into a coordinate; null becomes NaN.
func (c *Coord) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*c = Coord(math.NaN())
		return nil
	}
	s := strings.Trim(string(data), `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parsing coordinate %q: %w", data, err)
	}
	*c = Coord(f)
	return nil
}

// Money is an expense amount. AI responses and form inputs sometimes supply
// amounts as strings ("120", "120.50"), so decoding accepts both forms.
type Money float64

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*m = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*m = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parsing amount %q: %w", data, err)
	}
	*m = Money(f)
	return nil
}

// Expenses records the cost attached to a place.
type Expenses struct {
	Amount   Money  `json:"amount"`
	Currency string `json:"currency"`
}

// Place is a single stop: an activity, a flight segment or a hotel check-in.
// Its ID is assigned at creation and unique across the whole trip, never
// reused; cross-day moves carry the same ID.
type Place struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Lat     Coord     `json:"lat"`
	Lng     Coord     `json:"lng"`
	Remarks string    `json:"remarks"`
	Address string    `json:"address,omitempty"`
	Type    PlaceType `json:"type"`

	// Time is a free-form display string ("14:00", "Check-in"); it does
	// not participate in ordering.
	Time string `json:"time,omitempty"`

	// TravelTime is derived from the preceding stop and only meaningful
	// for non-first entries of a day.
	TravelTime string `json:"travelTime,omitempty"`

	Expenses *Expenses `json:"expenses,omitempty"`
}

// NewPlace builds a place with a fresh ID. An empty or unknown type
// defaults to activity.
func NewPlace(name string, lat, lng float64, placeType PlaceType) Place {
	if !placeType.Valid() {
		placeType = TypeActivity
	}
	return Place{
		ID:   uuid.NewString(),
		Name: name,
		Lat:  Coord(lat),
		Lng:  Coord(lng),
		Type: placeType,
	}
}

// HasCoordinates reports whether the place can be plotted on a map.
func (p Place) HasCoordinates() bool {
	return p.Lat.IsSet() && p.Lng.IsSet()
}

// Clone returns a deep copy of the place.
func (p Place) Clone() Place {
	out := p
	if p.Expenses != nil {
		e := *p.Expenses
		out.Expenses = &e
	}
	return out
}

// Equal reports structural equality. Unresolved (NaN) coordinates compare
// equal to each other, which reflect.DeepEqual would not do.
func (p Place) Equal(other Place) bool {
	if p.ID != other.ID || p.Name != other.Name || p.Remarks != other.Remarks ||
		p.Address != other.Address || p.Type != other.Type ||
		p.Time != other.Time || p.TravelTime != other.TravelTime {
		return false
	}
	if !coordEqual(p.Lat, other.Lat) || !coordEqual(p.Lng, other.Lng) {
		return false
	}
	if (p.Expenses == nil) != (other.Expenses == nil) {
		return false
	}
	if p.Expenses != nil && *p.Expenses != *other.Expenses {
		return false
	}
	return true
}

func coordEqual(a, b Coord) bool {
	if !a.IsSet() && !b.IsSet() {
		return true
	}
	return a == b
}

// ClonePlaces deep-copies a place sequence.
func ClonePlaces(places []Place) []Place {
	out := make([]Place, len(places))
	for i, p := range places {
		out[i] = p.Clone()
	}
	return out
}

// PlacesEqual reports structural equality of two ordered place sequences.
func PlacesEqual(a, b []Place) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// LatLng is a plain coordinate pair used for map focus and search bias.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
