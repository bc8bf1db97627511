package planner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/trip-planner/backend/internal/itinerary"
)

// defaultCenter is where the map focuses before any place has coordinates.
var defaultCenter = itinerary.LatLng{Lat: 25.0330, Lng: 121.5654}

// Config carries the collaborators and tuning for an editor. Zero-valued
// fields get production defaults (real clock, 2s debounce windows, no-op
// notifier).
type Config struct {
	Store     Store
	Assistant Assistant
	Notifier  Notifier
	Clock     Clock

	SaveDebounce      time.Duration
	RecomputeDebounce time.Duration
}

func (c Config) withDefaults() Config {
	if c.Notifier == nil {
		c.Notifier = noopNotifier{}
	}
	if c.Clock == nil {
		c.Clock = realClock{}
	}
	if c.SaveDebounce <= 0 {
		c.SaveDebounce = 2 * time.Second
	}
	if c.RecomputeDebounce <= 0 {
		c.RecomputeDebounce = 2 * time.Second
	}
	return c
}

// Editor is the single active editing session for one trip. All state
// behind mu is engine-owned; mutations are applied synchronously and
// atomically under the lock, while the debounced pipelines re-read current
// state at fire time and perform their external calls on copies outside
// the lock.
type Editor struct {
	store     Store
	assistant Assistant
	notifier  Notifier

	tripID string // immutable after construction

	mu          sync.Mutex
	title       string
	destination string
	startDate   string
	endDate     string
	days        []itinerary.Day
	activeDayID string
	history     itinerary.History
	mapCenter   itinerary.LatLng
	stopovers   []itinerary.Place
	replaceGen  uint64 // bumped on every wholesale days swap

	autosave  *Debouncer
	recompute *Debouncer
}

// NewEditor opens an editing session over a loaded trip.
func NewEditor(trip *itinerary.Trip, cfg Config) *Editor {
	cfg = cfg.withDefaults()

	e := &Editor{
		store:       cfg.Store,
		assistant:   cfg.Assistant,
		notifier:    cfg.Notifier,
		tripID:      trip.ID,
		title:       trip.Title,
		destination: trip.Destination,
		startDate:   trip.StartDate,
		endDate:     trip.EndDate,
		days:        itinerary.CloneDays(trip.Days),
		activeDayID: itinerary.OverviewDayID,
		mapCenter:   defaultCenter,
	}
	if len(e.days) > 0 {
		e.activeDayID = e.days[0].DayID
		if len(e.days[0].Places) > 0 && e.days[0].Places[0].HasCoordinates() {
			p := e.days[0].Places[0]
			e.mapCenter = itinerary.LatLng{Lat: float64(p.Lat), Lng: float64(p.Lng)}
		}
	}

	e.autosave = NewDebouncer(cfg.Clock, cfg.SaveDebounce, e.saveNow)
	e.recompute = NewDebouncer(cfg.Clock, cfg.RecomputeDebounce, e.recomputeNow)
	return e
}

// TripID returns the persistence identity this session is attached to.
func (e *Editor) TripID() string {
	return e.tripID
}

// State is a copy of the session's observable state for API responses.
type State struct {
	TripID      string            `json:"trip_id"`
	Title       string            `json:"title"`
	Destination string            `json:"destination"`
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date"`
	Days        []itinerary.Day   `json:"days"`
	ActiveDayID string            `json:"active_day_id"`
	MapCenter   itinerary.LatLng  `json:"map_center"`
	CanUndo     bool              `json:"can_undo"`
	Stopovers   []itinerary.Place `json:"stopover_candidates,omitempty"`
}

// State snapshots the session for rendering.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{
		TripID:      e.tripID,
		Title:       e.title,
		Destination: e.destination,
		StartDate:   e.startDate,
		EndDate:     e.endDate,
		Days:        itinerary.CloneDays(e.days),
		ActiveDayID: e.activeDayID,
		MapCenter:   e.mapCenter,
		CanUndo:     e.history.Len() > 0,
		Stopovers:   itinerary.ClonePlaces(e.stopovers),
	}
}

// markMutatedLocked records a qualifying mutation: every mutation rearms
// autosave, and a mutation touching the active day's place sequence also
// rearms recompute. Caller holds e.mu; the debouncers have their own
// locking and never call back into the editor synchronously.
func (e *Editor) markMutatedLocked(touchedDayIDs ...string) {
	e.autosave.Arm()
	for _, id := range touchedDayIDs {
		if id != "" && id != itinerary.OverviewDayID && id == e.activeDayID {
			e.recompute.Arm()
			return
		}
	}
}

// AddPlace appends a place to the named day (or the active day when dayID
// is empty). A missing or colliding id is re-issued; an unknown type
// defaults to activity. Returns false when the day cannot be resolved.
func (e *Editor) AddPlace(dayID string, p itinerary.Place) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if dayID == "" {
		dayID = e.activeDayID
	}
	day := itinerary.FindDay(e.days, dayID)
	if day == nil {
		return false
	}

	if p.ID == "" {
		p = withFreshID(p)
	} else if owner, _ := itinerary.FindPlace(e.days, p.ID); owner != "" {
		p = withFreshID(p)
	}
	if !p.Type.Valid() {
		p.Type = itinerary.TypeActivity
	}

	day.Places = append(day.Places, p)
	if p.HasCoordinates() {
		e.mapCenter = itinerary.LatLng{Lat: float64(p.Lat), Lng: float64(p.Lng)}
	}
	e.markMutatedLocked(dayID)
	return true
}

func withFreshID(p itinerary.Place) itinerary.Place {
	fresh := itinerary.NewPlace(p.Name, float64(p.Lat), float64(p.Lng), p.Type)
	fresh.Remarks = p.Remarks
	fresh.Address = p.Address
	fresh.Time = p.Time
	fresh.TravelTime = p.TravelTime
	if p.Expenses != nil {
		e := *p.Expenses
		fresh.Expenses = &e
	}
	return fresh
}

// UpdatePlace replaces the place matching p.ID inside the named day. An
// unresolvable day or place is a silent no-op.
func (e *Editor) UpdatePlace(dayID string, p itinerary.Place) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	day := itinerary.FindDay(e.days, dayID)
	if day == nil {
		return false
	}
	i := day.IndexOfPlace(p.ID)
	if i < 0 {
		return false
	}
	if !p.Type.Valid() {
		p.Type = itinerary.TypeActivity
	}
	day.Places[i] = p
	e.markMutatedLocked(dayID)
	return true
}

// DeletePlace removes a place from the named day.
func (e *Editor) DeletePlace(dayID, placeID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	day := itinerary.FindDay(e.days, dayID)
	if day == nil {
		return false
	}
	i := day.IndexOfPlace(placeID)
	if i < 0 {
		return false
	}
	day.Places = append(day.Places[:i], day.Places[i+1:]...)
	e.markMutatedLocked(dayID)
	return true
}

// UpdateDayTitle renames a day. Titles do not affect the place sequence,
// so only autosave is armed.
func (e *Editor) UpdateDayTitle(dayID, title string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	day := itinerary.FindDay(e.days, dayID)
	if day == nil {
		return false
	}
	day.Title = title
	e.autosave.Arm()
	return true
}

// MoveDay reorders the calendar sequence. DayIds and dates stay with their
// day; no day's internal place sequence changes.
func (e *Editor) MoveDay(from, to int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !itinerary.MoveDay(e.days, from, to) {
		return false
	}
	e.autosave.Arm()
	return true
}

// SetActiveDay switches which day the recompute pipeline watches. The
// switch arms recompute for the newly active day; its annotations may be
// stale, and the diff guard suppresses a write when they are not.
func (e *Editor) SetActiveDay(dayID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if dayID != itinerary.OverviewDayID && itinerary.FindDay(e.days, dayID) == nil {
		return false
	}
	e.activeDayID = dayID
	if dayID != itinerary.OverviewDayID {
		e.recompute.Arm()
	}
	return true
}

// HandleDragEnd applies the end of a drag session. A nil overID means the
// drag was abandoned: no mutation. Unresolvable identifiers are a silent
// no-op; a successful move is a qualifying mutation for autosave and, when
// it touches the active day, recompute.
func (e *Editor) HandleDragEnd(activeID string, overID *string) bool {
	if overID == nil {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	sourceDayID, _ := itinerary.FindPlace(e.days, activeID)
	if !itinerary.ResolveDrop(e.days, activeID, *overID) {
		return false
	}
	destDayID, _ := itinerary.FindPlace(e.days, activeID)
	e.markMutatedLocked(sourceDayID, destDayID)
	return true
}

// Undo restores the itinerary to the most recent snapshot. With an empty
// history the state is returned unchanged. The restored state is itself a
// qualifying mutation so it persists.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	days, ok := e.history.Pop()
	if !ok {
		return false
	}
	e.days = days
	e.replaceGen++
	if e.activeDayID != itinerary.OverviewDayID && itinerary.FindDay(e.days, e.activeDayID) == nil {
		if len(e.days) > 0 {
			e.activeDayID = e.days[0].DayID
		} else {
			e.activeDayID = itinerary.OverviewDayID
		}
	}
	e.markMutatedLocked(e.activeDayID)
	return true
}

// Focus recenters the map on a place. Unplottable places are ignored.
func (e *Editor) Focus(placeID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	dayID, i := itinerary.FindPlace(e.days, placeID)
	if dayID == "" {
		return false
	}
	p := itinerary.FindDay(e.days, dayID).Places[i]
	if !p.HasCoordinates() {
		return false
	}
	e.mapCenter = itinerary.LatLng{Lat: float64(p.Lat), Lng: float64(p.Lng)}
	return true
}

// SetTitle renames the trip, persisting immediately (titles are cheap and
// not part of the itinerary document the autosave pipeline writes).
func (e *Editor) SetTitle(ctx context.Context, title string) error {
	e.mu.Lock()
	e.title = title
	e.mu.Unlock()
	return e.store.UpdateTitle(ctx, e.tripID, title)
}

// SearchPlaces asks the assistant for candidates near the current map
// focus. A failed call surfaces as an error with no state change.
func (e *Editor) SearchPlaces(ctx context.Context, query string) ([]itinerary.Place, error) {
	e.mu.Lock()
	center := e.mapCenter
	e.mu.Unlock()
	return e.assistant.FindPlaces(ctx, query, center)
}

// Stopovers asks the assistant for stops between two places of the trip
// and retains the candidates on the session for the map overlay.
func (e *Editor) Stopovers(ctx context.Context, fromID, toID string) ([]itinerary.Place, error) {
	e.mu.Lock()
	from, okFrom := e.placeByIDLocked(fromID)
	to, okTo := e.placeByIDLocked(toID)
	e.mu.Unlock()
	if !okFrom || !okTo {
		return nil, nil
	}

	candidates, err := e.assistant.FindStopovers(ctx, from, to)
	if err != nil {
		slog.Warn("stopover search failed", "trip_id", e.tripID, "error", err)
		return nil, err
	}

	e.mu.Lock()
	e.stopovers = itinerary.ClonePlaces(candidates)
	e.mu.Unlock()
	return candidates, nil
}

func (e *Editor) placeByIDLocked(placeID string) (itinerary.Place, bool) {
	dayID, i := itinerary.FindPlace(e.days, placeID)
	if dayID == "" {
		return itinerary.Place{}, false
	}
	return itinerary.FindDay(e.days, dayID).Places[i].Clone(), true
}

// Close flushes any pending save and stops the pipelines. Safe to call
// once per session; the session must not be used afterwards.
func (e *Editor) Close() {
	e.recompute.Stop()
	e.autosave.Flush()
}
