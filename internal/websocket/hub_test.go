package websocket

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	return hub
}

func register(t *testing.T, hub *Hub) *Client {
	t.Helper()
	client := NewClient(hub)
	hub.Register(client)
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client never registered")
		}
		time.Sleep(time.Millisecond)
	}
	return client
}

func receive(t *testing.T, client *Client) Message {
	t.Helper()
	select {
	case data := <-client.Send():
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decoding message: %v", err)
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("no message received")
	}
	return Message{}
}

func TestHub_BroadcastReachesClient(t *testing.T) {
	hub := startHub(t)
	client := register(t, hub)

	data, err := NewMessage(TypeNotification, NotificationPayload{Level: "info", Title: "hi"}).JSON()
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}
	hub.Broadcast(data)

	msg := receive(t, client)
	if msg.Type != TypeNotification {
		t.Fatalf("got type %q, want %q", msg.Type, TypeNotification)
	}
}

func TestHub_DropsClientWithFullSendBuffer(t *testing.T) {
	hub := startHub(t)
	client := register(t, hub)

	// Saturate the client's send buffer so the next broadcast cannot be
	// queued and the hub drops the connection. ClientCount polls the map
	// concurrently throughout.
	for i := 0; i < cap(client.Send()); i++ {
		client.Send() <- []byte("{}")
	}
	hub.Broadcast([]byte("{}"))

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("saturated client was not dropped, count = %d", hub.ClientCount())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestEventBroadcaster_FailedSaveRaisesNotification(t *testing.T) {
	hub := startHub(t)
	client := register(t, hub)
	b := NewEventBroadcaster(hub)

	b.SaveStateChanged("trip-1", "failed", errors.New("disk full"))

	first := receive(t, client)
	if first.Type != TypeSaveStateChanged {
		t.Fatalf("got type %q, want %q", first.Type, TypeSaveStateChanged)
	}
	second := receive(t, client)
	if second.Type != TypeNotification {
		t.Fatalf("got type %q, want %q", second.Type, TypeNotification)
	}

	payload, ok := second.Payload.(map[string]any)
	if !ok {
		t.Fatalf("unexpected payload shape: %T", second.Payload)
	}
	if payload["level"] != "error" {
		t.Fatalf("notification level = %v, want error", payload["level"])
	}
}

func TestEventBroadcaster_SuccessfulSaveSendsNoNotification(t *testing.T) {
	hub := startHub(t)
	client := register(t, hub)
	b := NewEventBroadcaster(hub)

	b.SaveStateChanged("trip-1", "saved", nil)

	msg := receive(t, client)
	if msg.Type != TypeSaveStateChanged {
		t.Fatalf("got type %q, want %q", msg.Type, TypeSaveStateChanged)
	}
	select {
	case data := <-client.Send():
		t.Fatalf("unexpected extra message: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}
