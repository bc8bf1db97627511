package itinerary

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Normalize sanitizes externally supplied days (AI responses, text imports,
// demo data) into engine-owned state. AI responses routinely omit or
// hallucinate identifiers, so place IDs are always re-issued; dayIds are
// kept when present and unique within the set, otherwise replaced with a
// positional day-N id. Unknown place types collapse to activity.
func Normalize(days []Day) []Day {
	out := make([]Day, len(days))
	seen := make(map[string]bool, len(days))

	for i, d := range days {
		day := d.Clone()

		id := strings.TrimSpace(day.DayID)
		if id == "" || seen[id] {
			id = fmt.Sprintf("day-%d", i+1)
			for seen[id] {
				id = "day-" + uuid.NewString()
			}
		}
		seen[id] = true
		day.DayID = id

		if day.Places == nil {
			day.Places = []Place{}
		}
		for j := range day.Places {
			day.Places[j].ID = uuid.NewString()
			if !day.Places[j].Type.Valid() {
				day.Places[j].Type = TypeActivity
			}
		}
		out[i] = day
	}
	return out
}
