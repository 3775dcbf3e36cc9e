// Package events provides the hand-off between background workers and
// the single control thread. Workers dispatch typed events; the control
// layer registers observers and applies state changes itself, so no
// worker ever mutates UI-owned state directly.
package events

import (
	"log"
	"sync"
)

// Event represents a domain event that can be dispatched to observers.
type Event struct {
	// Type is the event type (e.g., "asset:resolved", "decks:changed").
	Type string

	// Data contains the event payload as a typed struct from messages.go.
	Data any
}

// Observer defines the interface for objects that want to be notified of
// events.
type Observer interface {
	// OnEvent is called when an event is dispatched.
	OnEvent(event Event) error

	// GetName returns a human-readable name for this observer.
	GetName() string

	// ShouldHandle returns true if this observer handles the event type.
	ShouldHandle(eventType string) bool
}

// Dispatcher implements the Observer pattern for event distribution.
// Thread-safe for concurrent use.
type Dispatcher struct {
	observers []Observer
	mu        sync.RWMutex
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		observers: make([]Observer, 0),
	}
}

// Register adds an observer to the dispatcher.
func (d *Dispatcher) Register(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.observers = append(d.observers, observer)
	log.Printf("[Dispatcher] Registered observer: %s", observer.GetName())
}

// Unregister removes an observer from the dispatcher.
func (d *Dispatcher) Unregister(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, obs := range d.observers {
		if obs == observer {
			d.observers[i] = d.observers[len(d.observers)-1]
			d.observers = d.observers[:len(d.observers)-1]
			log.Printf("[Dispatcher] Unregistered observer: %s", observer.GetName())
			return
		}
	}
}

// Dispatch sends an event to all registered observers, sequentially in
// registration order. Observer errors are logged and do not stop
// delivery to the remaining observers.
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
			log.Printf("[Dispatcher] Observer %s failed to handle event %s: %v",
				observer.GetName(), event.Type, err)
		}
	}
}

// ObserverFunc adapts a function to the Observer interface, handling the
// given event types (all types when none are listed).
type ObserverFunc struct {
	Name  string
	Types []string
	Fn    func(event Event) error
}

func (o *ObserverFunc) OnEvent(event Event) error { return o.Fn(event) }

func (o *ObserverFunc) GetName() string { return o.Name }

func (o *ObserverFunc) ShouldHandle(eventType string) bool {
	if len(o.Types) == 0 {
		return true
	}
	for _, t := range o.Types {
		if t == eventType {
			return true
		}
	}
	return false
}
