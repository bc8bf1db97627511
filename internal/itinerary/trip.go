package itinerary

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OverviewDayID is the pseudo day selected when the user views the whole
// trip on the map instead of a single day.
const OverviewDayID = "overview"

// Day is one calendar day's ordered list of stops. The order of Places is
// the visit sequence. A place belongs to exactly one day at a time; a move
// is a delete-then-insert, never a copy.
type Day struct {
	DayID  string  `json:"dayId"`
	Title  string  `json:"title"`
	Date   string  `json:"date,omitempty"` // ISO YYYY-MM-DD
	Places []Place `json:"places"`
}

// NewDay builds a day with a fresh dayId.
func NewDay(title, date string) Day {
	return Day{
		DayID:  uuid.NewString(),
		Title:  title,
		Date:   date,
		Places: []Place{},
	}
}

// Clone returns a deep copy of the day.
func (d Day) Clone() Day {
	out := d
	out.Places = ClonePlaces(d.Places)
	return out
}

// IndexOfPlace returns the position of the place with the given id, or -1.
func (d Day) IndexOfPlace(placeID string) int {
	for i, p := range d.Places {
		if p.ID == placeID {
			return i
		}
	}
	return -1
}

// Trip is the top-level itinerary aggregate. The order of Days is the
// calendar sequence and is independent of each day's Date field; reordering
// days neither renames dates nor changes dayIds.
type Trip struct {
	ID            string    `json:"id"`
	Destination   string    `json:"destination"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	Title         string    `json:"title"`
	Days          []Day     `json:"days"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

// NewTrip builds a trip with a fresh id and a default title.
func NewTrip(destination, startDate, endDate string, days []Day) *Trip {
	return &Trip{
		ID:          uuid.NewString(),
		Destination: destination,
		StartDate:   startDate,
		EndDate:     endDate,
		Title:       fmt.Sprintf("%s Trip", destination),
		Days:        days,
	}
}

// EmptyDays builds one empty day per calendar day between start and end
// (inclusive). Dates must be ISO YYYY-MM-DD; an unparseable range yields a
// single undated day so trip creation never fails on bad input.
func EmptyDays(startDate, endDate string) []Day {
	start, err1 := time.Parse("2006-01-02", startDate)
	end, err2 := time.Parse("2006-01-02", endDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return []Day{{DayID: "day-1", Title: "Day 1", Places: []Place{}}}
	}

	count := int(end.Sub(start).Hours()/24) + 1
	days := make([]Day, count)
	for i := 0; i < count; i++ {
		days[i] = Day{
			DayID:  fmt.Sprintf("day-%d", i+1),
			Title:  fmt.Sprintf("Day %d", i+1),
			Date:   start.AddDate(0, 0, i).Format("2006-01-02"),
			Places: []Place{},
		}
	}
	return days
}

// CloneDays deep-copies a day sequence.
func CloneDays(days []Day) []Day {
	out := make([]Day, len(days))
	for i, d := range days {
		out[i] = d.Clone()
	}
	return out
}

// DaysEqual reports structural equality of two day sequences.
func DaysEqual(a, b []Day) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].DayID != b[i].DayID || a[i].Title != b[i].Title || a[i].Date != b[i].Date {
			return false
		}
		if !PlacesEqual(a[i].Places, b[i].Places) {
			return false
		}
	}
	return true
}

// TotalPlaces counts places across all days.
func TotalPlaces(days []Day) int {
	n := 0
	for _, d := range days {
		n += len(d.Places)
	}
	return n
}

// FindDay returns a pointer into days for the given dayId, or nil.
func FindDay(days []Day, dayID string) *Day {
	for i := range days {
		if days[i].DayID == dayID {
			return &days[i]
		}
	}
	return nil
}

// FindPlace locates a place by id across all days, returning its day id and
// position, or ("", -1) when absent.
func FindPlace(days []Day, placeID string) (dayID string, index int) {
	for _, d := range days {
		for i, p := range d.Places {
			if p.ID == placeID {
				return d.DayID, i
			}
		}
	}
	return "", -1
}
