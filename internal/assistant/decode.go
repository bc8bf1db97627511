package assistant

import (
	"math"
	"strings"

	"github.com/trip-planner/backend/internal/itinerary"
)

// Raw wire shapes. AI responses are not trusted: fields may be missing,
// numbers may arrive as strings, categories may be invented. Everything
// crosses into domain types through the decode functions below, which
// default or drop explicitly instead of trusting shape.

type rawPlace struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Lat        *itinerary.Coord    `json:"lat"`
	Lng        *itinerary.Coord    `json:"lng"`
	Remarks    string              `json:"remarks"`
	Address    string              `json:"address"`
	Type       string              `json:"type"`
	Time       string              `json:"time"`
	TravelTime string              `json:"travelTime"`
	Expenses   *itinerary.Expenses `json:"expenses"`
}

type rawDay struct {
	DayID  string     `json:"dayId"`
	Title  string     `json:"title"`
	Date   string     `json:"date"`
	Places []rawPlace `json:"places"`
}

type rawParsedTrip struct {
	Destination string   `json:"destination"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Days        []rawDay `json:"days"`
}

// decodePlace coerces one raw place. Identifiers are carried through as-is
// here; callers re-issue them via itinerary.Normalize before the data
// enters engine-owned state. Unknown types collapse to activity, absent
// coordinates become NaN ("unplottable but kept").
func decodePlace(r rawPlace) itinerary.Place {
	p := itinerary.Place{
		ID:         r.ID,
		Name:       strings.TrimSpace(r.Name),
		Lat:        itinerary.Coord(math.NaN()),
		Lng:        itinerary.Coord(math.NaN()),
		Remarks:    r.Remarks,
		Address:    r.Address,
		Type:       itinerary.PlaceType(r.Type),
		Time:       r.Time,
		TravelTime: r.TravelTime,
		Expenses:   r.Expenses,
	}
	if r.Lat != nil {
		p.Lat = *r.Lat
	}
	if r.Lng != nil {
		p.Lng = *r.Lng
	}
	if !p.Type.Valid() {
		p.Type = itinerary.TypeActivity
	}
	return p
}

func decodePlaces(raw []rawPlace) []itinerary.Place {
	out := make([]itinerary.Place, 0, len(raw))
	for _, r := range raw {
		p := decodePlace(r)
		if p.Name == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// decodeCandidates additionally drops unplottable suggestions: a search
// result the map cannot show is useless, unlike an itinerary entry.
func decodeCandidates(raw []rawPlace) []itinerary.Place {
	out := make([]itinerary.Place, 0, len(raw))
	for _, r := range raw {
		p := decodePlace(r)
		if p.Name == "" || !p.HasCoordinates() {
			continue
		}
		if p.Lat == 0 && p.Lng == 0 {
			continue
		}
		out = append(out, p)
	}
	return out
}

func decodeDays(raw []rawDay) []itinerary.Day {
	out := make([]itinerary.Day, 0, len(raw))
	for _, r := range raw {
		out = append(out, itinerary.Day{
			DayID:  r.DayID,
			Title:  r.Title,
			Date:   r.Date,
			Places: decodePlaces(r.Places),
		})
	}
	return out
}
