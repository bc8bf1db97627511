package websocket

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	// Server -> Client event types
	TypeSaveStateChanged  MessageType = "itinerary.save_state"
	TypeItineraryReplaced MessageType = "itinerary.replaced"
	TypeNotification      MessageType = "notification"

	// Client -> Server command types
	TypeSubscribe MessageType = "subscribe"
	TypePing      MessageType = "ping"

	// Server -> Client response types
	TypeSubscribeAck MessageType = "subscribe.ack"
	TypePong         MessageType = "pong"
	TypeError        MessageType = "error"
)

// Message represents a WebSocket message envelope.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON serializes the message to JSON bytes.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// SaveStatePayload is the payload for itinerary.save_state events.
type SaveStatePayload struct {
	TripID string `json:"trip_id"`
	State  string `json:"state"` // saving, saved, failed
	Error  string `json:"error,omitempty"`
}

// ItineraryReplacedPayload is the payload for itinerary.replaced events.
// Clients reload the full itinerary when they receive one; the event
// carries no diff because replacements are atomic and wholesale.
type ItineraryReplacedPayload struct {
	TripID string `json:"trip_id"`
	Reason string `json:"reason"` // generate, optimize
}

// NotificationPayload is the payload for notification events.
type NotificationPayload struct {
	Level       string `json:"level"` // info, warning, error, success
	Title       string `json:"title"`
	Message     string `json:"message"`
	Dismissible bool   `json:"dismissible"`
}

// ErrorPayload is the payload for error messages.
type ErrorPayload struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	OriginalType string `json:"original_type,omitempty"`
}
