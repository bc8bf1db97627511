package planner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/trip-planner/backend/internal/itinerary"
	"github.com/trip-planner/backend/internal/metrics"
)

// Registry hands out at most one editor per trip and owns their
// lifecycle: lazy open from the store, explicit close, and an idle sweep
// driven by the cron scheduler in main. A single active editor per trip is
// the collaboration model; there is no multi-client merge.
type Registry struct {
	cfg Config

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	editor   *Editor
	lastUsed time.Time
}

// NewRegistry creates a registry; cfg supplies the collaborators every
// editor is built with.
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:      cfg.withDefaults(),
		sessions: make(map[string]*session),
	}
}

// Editor returns the editing session for a trip, opening one from the
// store on first use.
func (r *Registry) Editor(ctx context.Context, tripID string) (*Editor, error) {
	r.mu.Lock()
	if s, ok := r.sessions[tripID]; ok {
		s.lastUsed = time.Now()
		r.mu.Unlock()
		return s.editor, nil
	}
	r.mu.Unlock()

	trip, err := r.cfg.Store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("loading trip %s: %w", tripID, err)
	}
	if trip == nil {
		return nil, fmt.Errorf("trip %s not found", tripID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[tripID]; ok {
		// Lost the open race; use the session that won.
		s.lastUsed = time.Now()
		return s.editor, nil
	}
	e := NewEditor(trip, r.cfg)
	r.sessions[tripID] = &session{editor: e, lastUsed: time.Now()}
	metrics.OpenSessions.Set(float64(len(r.sessions)))
	slog.Info("editor session opened", "trip_id", tripID)
	return e, nil
}

// CreateTrip persists a new trip with one empty day per calendar day and
// opens its session.
func (r *Registry) CreateTrip(ctx context.Context, destination, startDate, endDate string) (*itinerary.Trip, error) {
	days := itinerary.EmptyDays(startDate, endDate)
	return r.createFromDays(ctx, destination, startDate, endDate, "", days)
}

// ImportFromText parses a pasted itinerary through the assistant and
// creates a trip from the result. A parse failure aborts creation; no
// trip is persisted.
func (r *Registry) ImportFromText(ctx context.Context, text string) (*itinerary.Trip, error) {
	parsed, err := r.cfg.Assistant.ParseText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("parsing itinerary text: %w", err)
	}
	days := itinerary.Normalize(parsed.Days)
	return r.createFromDays(ctx, parsed.Destination, parsed.StartDate, parsed.EndDate, "", days)
}

// LoadDemo creates a trip from the bundled example itinerary.
func (r *Registry) LoadDemo(ctx context.Context) (*itinerary.Trip, error) {
	return r.createFromDays(ctx, itinerary.DemoDestination, itinerary.DemoStartDate, itinerary.DemoEndDate, itinerary.DemoTitle, itinerary.DemoDays())
}

func (r *Registry) createFromDays(ctx context.Context, destination, startDate, endDate, title string, days []itinerary.Day) (*itinerary.Trip, error) {
	trip := itinerary.NewTrip(destination, startDate, endDate, days)
	if title != "" {
		trip.Title = title
	}
	if err := r.cfg.Store.CreateTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("creating trip: %w", err)
	}

	r.mu.Lock()
	r.sessions[trip.ID] = &session{editor: NewEditor(trip, r.cfg), lastUsed: time.Now()}
	metrics.OpenSessions.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	slog.Info("trip created", "trip_id", trip.ID, "destination", destination, "days", len(days))
	return trip, nil
}

// SessionCount returns the number of sessions currently open.
func (r *Registry) SessionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close flushes and drops the session for a trip, if open.
func (r *Registry) Close(tripID string) {
	r.mu.Lock()
	s, ok := r.sessions[tripID]
	if ok {
		delete(r.sessions, tripID)
		metrics.OpenSessions.Set(float64(len(r.sessions)))
	}
	r.mu.Unlock()

	if ok {
		s.editor.Close()
		slog.Info("editor session closed", "trip_id", tripID)
	}
}

// SweepIdle closes sessions that have not been touched for maxIdle,
// flushing their pending saves. Returns the number of sessions closed.
func (r *Registry) SweepIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.Lock()
	var stale []*session
	for id, s := range r.sessions {
		if s.lastUsed.Before(cutoff) {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	metrics.OpenSessions.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	for _, s := range stale {
		s.editor.Close()
		slog.Info("idle editor session swept", "trip_id", s.editor.TripID())
	}
	return len(stale)
}

// CloseAll flushes every open session; called on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := make([]*session, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.sessions = make(map[string]*session)
	metrics.OpenSessions.Set(0)
	r.mu.Unlock()

	for _, s := range all {
		s.editor.Close()
	}
}
