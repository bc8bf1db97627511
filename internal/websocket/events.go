package websocket

import (
	"log/slog"
)

// EventBroadcaster fans engine events out to connected clients. It
// satisfies the planning engine's Notifier port; every method is
// fire-and-forget and never blocks the caller.
type EventBroadcaster struct {
	hub *Hub
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

// SaveStateChanged sends an itinerary save-state transition. A failed
// save additionally raises a user-facing notification; the save-state
// event only drives the indicator, and an edit can be lost if the user
// closes the tab unaware the last save never landed.
func (b *EventBroadcaster) SaveStateChanged(tripID, state string, err error) {
	payload := SaveStatePayload{
		TripID: tripID,
		State:  state,
	}
	if err != nil {
		payload.Error = err.Error()
	}

	b.broadcast(NewMessage(TypeSaveStateChanged, payload))

	if state == "failed" {
		b.BroadcastNotification("error", "Save failed", "Your latest changes could not be saved. They will be retried on the next edit.")
	}
}

// ItineraryReplaced tells clients a trip's itinerary was atomically
// replaced and should be reloaded.
func (b *EventBroadcaster) ItineraryReplaced(tripID, reason string) {
	payload := ItineraryReplacedPayload{
		TripID: tripID,
		Reason: reason,
	}

	b.broadcast(NewMessage(TypeItineraryReplaced, payload))
}

// BroadcastNotification sends a notification to all connected clients.
func (b *EventBroadcaster) BroadcastNotification(level, title, message string) {
	payload := NotificationPayload{
		Level:       level,
		Title:       title,
		Message:     message,
		Dismissible: true,
	}

	b.broadcast(NewMessage(TypeNotification, payload))
}

// broadcast sends a message to all connected clients.
func (b *EventBroadcaster) broadcast(msg Message) {
	data, err := msg.JSON()
	if err != nil {
		slog.Error("encoding websocket message", "error", err)
		return
	}

	b.hub.Broadcast(data)
}
