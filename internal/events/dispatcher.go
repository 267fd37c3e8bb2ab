// Package events distributes card-pool lifecycle events to interested
// observers (the WebSocket hub, loggers) without coupling the snapshot
// loader to any of them.
package events

import (
	"log"
	"sync"
)

// Event types emitted by the snapshot loader.
const (
	TypeSnapshotReloaded = "snapshot:reloaded"
	TypeSnapshotError    = "snapshot:error"
)

// Event is one card-pool lifecycle notification.
type Event struct {
	// Type is the event type, e.g. "snapshot:reloaded".
	Type string

	// Data carries the event payload.
	Data map[string]interface{}
}

// Observer is notified of dispatched events.
type Observer interface {
	// OnEvent handles one event; errors are logged, not propagated.
	OnEvent(event Event) error

	// Name identifies the observer in logs.
	Name() string

	// ShouldHandle filters the event types this observer cares about.
	ShouldHandle(eventType string) bool
}

// Dispatcher fans events out to registered observers. Safe for concurrent
// use.
type Dispatcher struct {
	observers []Observer
	mu        sync.RWMutex
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Register adds an observer; it receives all future events it opts into.
func (d *Dispatcher) Register(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, observer)
	log.Printf("[events] registered observer: %s", observer.Name())
}

// Unregister removes an observer.
func (d *Dispatcher) Unregister(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, obs := range d.observers {
		if obs == observer {
			d.observers[i] = d.observers[len(d.observers)-1]
			d.observers = d.observers[:len(d.observers)-1]
			return
		}
	}
}

// Dispatch notifies observers sequentially in registration order. A failing
// observer is logged and the rest are still notified.
func (d *Dispatcher) Dispatch(event Event) {
	d.mu.RLock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	d.mu.RUnlock()

	for _, observer := range observers {
		if !observer.ShouldHandle(event.Type) {
			continue
		}
		if err := observer.OnEvent(event); err != nil {
			log.Printf("[events] observer %s failed on %s: %v", observer.Name(), event.Type, err)
		}
	}
}

// ObserverCount returns the number of registered observers.
func (d *Dispatcher) ObserverCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.observers)
}
