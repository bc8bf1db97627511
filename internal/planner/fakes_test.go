package planner

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/trip-planner/backend/internal/assistant"
	"github.com/trip-planner/backend/internal/itinerary"
)

// fakeClock hands out timers that only fire when the test says so.
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	mu    sync.Mutex
	fn    func()
	armed bool
}

func (t *fakeTimer) Reset(time.Duration) bool {
	t.mu.Lock()
	was := t.armed
	t.armed = true
	t.mu.Unlock()
	return was
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	was := t.armed
	t.armed = false
	t.mu.Unlock()
	return was
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	t := &fakeTimer{fn: fn, armed: true}
	c.mu.Lock()
	c.timers = append(c.timers, t)
	c.mu.Unlock()
	return t
}

// fire expires every armed timer, as if the quiet window elapsed.
func (c *fakeClock) fire() {
	c.mu.Lock()
	timers := append([]*fakeTimer(nil), c.timers...)
	c.mu.Unlock()

	for _, t := range timers {
		t.mu.Lock()
		armed := t.armed
		t.armed = false
		t.mu.Unlock()
		if armed {
			t.fn()
		}
	}
}

// memStore is an in-memory Store that records calls.
type memStore struct {
	mu       sync.Mutex
	trips    map[string]*itinerary.Trip
	saves    int
	lastSave []itinerary.Day
	failSave bool
	titles   map[string]string
}

func newMemStore() *memStore {
	return &memStore{
		trips:  make(map[string]*itinerary.Trip),
		titles: make(map[string]string),
	}
}

func (s *memStore) ListTrips(ctx context.Context) ([]itinerary.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []itinerary.Trip
	for _, t := range s.trips {
		out = append(out, *t)
	}
	return out, nil
}

func (s *memStore) GetTrip(ctx context.Context, tripID string) (*itinerary.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[tripID]
	if !ok {
		return nil, nil
	}
	cp := *t
	cp.Days = itinerary.CloneDays(t.Days)
	return &cp, nil
}

func (s *memStore) CreateTrip(ctx context.Context, trip *itinerary.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips[trip.ID] = trip
	return nil
}

func (s *memStore) SaveItinerary(ctx context.Context, tripID string, days []itinerary.Day) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.failSave {
		return errors.New("disk full")
	}
	s.lastSave = itinerary.CloneDays(days)
	if t, ok := s.trips[tripID]; ok {
		t.Days = itinerary.CloneDays(days)
	}
	return nil
}

func (s *memStore) UpdateTitle(ctx context.Context, tripID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.titles[tripID] = title
	return nil
}

func (s *memStore) UpdateCoverURL(ctx context.Context, tripID, url string) error {
	return nil
}

func (s *memStore) DeleteTrip(ctx context.Context, tripID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.trips, tripID)
	return nil
}

func (s *memStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *memStore) savedDays() []itinerary.Day {
	s.mu.Lock()
	defer s.mu.Unlock()
	return itinerary.CloneDays(s.lastSave)
}

// fakeAssistant answers from configurable functions; unset functions
// return empty results.
type fakeAssistant struct {
	mu            sync.Mutex
	estimateCalls int

	estimate  func(places []itinerary.Place) ([]string, error)
	optimize  func(days []itinerary.Day, scope assistant.OptimizeScope, activeDayID string) ([]itinerary.Day, error)
	generate  func(prompt string, dayCount int) ([]itinerary.Day, error)
	parse     func(text string) (*assistant.ParsedTrip, error)
	find      func(query string) ([]itinerary.Place, error)
	stopovers func(from, to itinerary.Place) ([]itinerary.Place, error)
}

func (f *fakeAssistant) FindPlaces(ctx context.Context, query string, center itinerary.LatLng) ([]itinerary.Place, error) {
	if f.find == nil {
		return nil, nil
	}
	return f.find(query)
}

func (f *fakeAssistant) GenerateItinerary(ctx context.Context, prompt string, dayCount int) ([]itinerary.Day, error) {
	if f.generate == nil {
		return nil, errors.New("no generator configured")
	}
	return f.generate(prompt, dayCount)
}

func (f *fakeAssistant) Optimize(ctx context.Context, days []itinerary.Day, scope assistant.OptimizeScope, activeDayID, constraints string) ([]itinerary.Day, error) {
	if f.optimize == nil {
		return nil, errors.New("no optimizer configured")
	}
	return f.optimize(days, scope, activeDayID)
}

func (f *fakeAssistant) ParseText(ctx context.Context, text string) (*assistant.ParsedTrip, error) {
	if f.parse == nil {
		return nil, errors.New("no parser configured")
	}
	return f.parse(text)
}

func (f *fakeAssistant) EstimateTravelTimes(ctx context.Context, places []itinerary.Place) ([]string, error) {
	f.mu.Lock()
	f.estimateCalls++
	f.mu.Unlock()
	if f.estimate == nil {
		return nil, nil
	}
	return f.estimate(places)
}

func (f *fakeAssistant) FindStopovers(ctx context.Context, from, to itinerary.Place) ([]itinerary.Place, error) {
	if f.stopovers == nil {
		return nil, nil
	}
	return f.stopovers(from, to)
}

func (f *fakeAssistant) estimateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.estimateCalls
}

// recordNotifier records events in order.
type recordNotifier struct {
	mu       sync.Mutex
	states   []string
	replaced []string
}

func (n *recordNotifier) SaveStateChanged(tripID, state string, err error) {
	n.mu.Lock()
	n.states = append(n.states, state)
	n.mu.Unlock()
}

func (n *recordNotifier) ItineraryReplaced(tripID, reason string) {
	n.mu.Lock()
	n.replaced = append(n.replaced, reason)
	n.mu.Unlock()
}

func (n *recordNotifier) saveStates() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.states...)
}

func nan() float64 {
	return math.NaN()
}

func tripFixture() *itinerary.Trip {
	return &itinerary.Trip{
		ID:          "trip-1",
		Destination: "Taipei",
		Title:       "Taipei Trip",
		StartDate:   "2026-04-01",
		EndDate:     "2026-04-02",
		Days: []itinerary.Day{
			{
				DayID: "day-1",
				Title: "Day 1",
				Places: []itinerary.Place{
					{ID: "a", Name: "Chiang Kai-shek Memorial", Lat: 25.034, Lng: 121.521, Type: itinerary.TypeActivity},
					{ID: "b", Name: "Taipei 101", Lat: 25.033, Lng: 121.564, Type: itinerary.TypeActivity},
					{ID: "c", Name: "Raohe Night Market", Lat: 25.050, Lng: 121.577, Type: itinerary.TypeActivity},
				},
			},
			{
				DayID: "day-2",
				Title: "Day 2",
				Places: []itinerary.Place{
					{ID: "d", Name: "Jiufen Old Street", Lat: 25.109, Lng: 121.845, Type: itinerary.TypeActivity},
					{ID: "e", Name: "Shifen Waterfall", Lat: 25.048, Lng: 121.785, Type: itinerary.TypeActivity},
				},
			},
		},
	}
}

type harness struct {
	editor   *Editor
	clock    *fakeClock
	store    *memStore
	ai       *fakeAssistant
	notifier *recordNotifier
}

func newHarness() *harness {
	clock := &fakeClock{}
	store := newMemStore()
	ai := &fakeAssistant{}
	notifier := &recordNotifier{}

	trip := tripFixture()
	store.trips[trip.ID] = trip

	editor := NewEditor(trip, Config{
		Store:     store,
		Assistant: ai,
		Notifier:  notifier,
		Clock:     clock,
	})
	return &harness{editor: editor, clock: clock, store: store, ai: ai, notifier: notifier}
}
