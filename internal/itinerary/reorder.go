package itinerary

// The reorder engine mutates a day sequence in place. Every operation is a
// no-op when an identifier cannot be resolved: drags onto stale or foreign
// targets must never partially mutate the itinerary.

// MoveWithinDay removes the place activeID from the named day and reinserts
// it at the position previously held by overID. Insertion uses the target's
// pre-removal index, so moving an item down shifts the intervening items up
// by one, matching conventional list-reorder semantics.
func MoveWithinDay(days []Day, dayID, activeID, overID string) bool {
	day := FindDay(days, dayID)
	if day == nil {
		return false
	}
	from := day.IndexOfPlace(activeID)
	to := day.IndexOfPlace(overID)
	if from < 0 || to < 0 || from == to {
		return false
	}

	moved := day.Places[from]
	day.Places = append(day.Places[:from], day.Places[from+1:]...)
	day.Places = append(day.Places, Place{})
	copy(day.Places[to+1:], day.Places[to:])
	day.Places[to] = moved
	return true
}

// MoveAcrossDays removes activeID from the source day and inserts it into
// the destination day. When overID names a place in the destination, the
// moved place lands at that place's index; the moved place is foreign to
// the destination list, so no compensating shift applies. When overID names
// the destination day itself (a drop onto empty area), the place is
// appended.
func MoveAcrossDays(days []Day, sourceDayID, destDayID, activeID, overID string) bool {
	source := FindDay(days, sourceDayID)
	dest := FindDay(days, destDayID)
	if source == nil || dest == nil || source == dest {
		return false
	}
	from := source.IndexOfPlace(activeID)
	if from < 0 {
		return false
	}

	moved := source.Places[from]
	at := dest.IndexOfPlace(overID)

	source.Places = append(source.Places[:from], source.Places[from+1:]...)
	if at < 0 {
		dest.Places = append(dest.Places, moved)
		return true
	}
	dest.Places = append(dest.Places, Place{})
	copy(dest.Places[at+1:], dest.Places[at:])
	dest.Places[at] = moved
	return true
}

// MoveDay reorders the day sequence itself. DayIds and dates travel with
// their day.
func MoveDay(days []Day, from, to int) bool {
	if from < 0 || from >= len(days) || to < 0 || to >= len(days) || from == to {
		return false
	}
	moved := days[from]
	copy(days[from:], days[from+1:])
	copy(days[to+1:], days[to:])
	days[to] = moved
	return true
}

// ResolveDrop maps raw drag identifiers onto a reorder operation. The
// source day is the day containing activeID; the destination is the day
// containing overID's place, or the day named directly by overID when the
// drop landed on a day container. Returns false when either side cannot be
// resolved.
func ResolveDrop(days []Day, activeID, overID string) bool {
	sourceDayID, _ := FindPlace(days, activeID)
	if sourceDayID == "" {
		return false
	}

	destDayID, _ := FindPlace(days, overID)
	if destDayID == "" {
		if FindDay(days, overID) == nil {
			return false
		}
		destDayID = overID
	}

	if sourceDayID == destDayID {
		return MoveWithinDay(days, sourceDayID, activeID, overID)
	}
	return MoveAcrossDays(days, sourceDayID, destDayID, activeID, overID)
}
