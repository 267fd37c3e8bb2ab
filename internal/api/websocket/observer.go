package websocket

import (
	"log"

	"github.com/anrtools/anr-companion/internal/events"
)

// Observer forwards card-pool events to WebSocket clients. It implements
// events.Observer so it can be registered with the snapshot loader's
// dispatcher.
type Observer struct {
	name string
	hub  *Hub
}

// NewObserver creates an observer that broadcasts events through the hub.
func NewObserver(hub *Hub) *Observer {
	return &Observer{
		name: "WebSocketObserver",
		hub:  hub,
	}
}

// OnEvent broadcasts the event to all connected clients.
func (o *Observer) OnEvent(event events.Event) error {
	if o.hub == nil {
		log.Printf("[%s] dropping event %s: hub is nil", o.name, event.Type)
		return nil
	}

	o.hub.BroadcastEvent(Event{
		Type: event.Type,
		Data: event.Data,
	})
	return nil
}

// Name returns the observer's name.
func (o *Observer) Name() string {
	return o.name
}

// ShouldHandle forwards every event type to clients.
func (o *Observer) ShouldHandle(eventType string) bool {
	return true
}

var _ events.Observer = (*Observer)(nil)
