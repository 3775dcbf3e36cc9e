package events

import (
	"fmt"
	"testing"
)

func TestDispatcherDeliversInOrder(t *testing.T) {
	d := NewDispatcher()
	var got []string

	d.Register(&ObserverFunc{
		Name: "first",
		Fn: func(e Event) error {
			got = append(got, "first:"+e.Type)
			return nil
		},
	})
	d.Register(&ObserverFunc{
		Name: "second",
		Fn: func(e Event) error {
			got = append(got, "second:"+e.Type)
			return nil
		},
	})

	d.Dispatch(Event{Type: TypeDeckUpdated})

	if len(got) != 2 || got[0] != "first:deck:updated" || got[1] != "second:deck:updated" {
		t.Errorf("delivery order = %v", got)
	}
}

func TestDispatcherFiltersByType(t *testing.T) {
	d := NewDispatcher()
	calls := 0

	d.Register(&ObserverFunc{
		Name:  "assets-only",
		Types: []string{TypeAssetResolved},
		Fn: func(e Event) error {
			calls++
			return nil
		},
	})

	d.Dispatch(Event{Type: TypeDecksChanged})
	d.Dispatch(Event{Type: TypeAssetResolved, Data: AssetResolvedEvent{CardName: "Wingal"}})

	if calls != 1 {
		t.Errorf("observer called %d times, want 1", calls)
	}
}

func TestDispatcherContinuesAfterObserverError(t *testing.T) {
	d := NewDispatcher()
	reached := false

	d.Register(&ObserverFunc{
		Name: "failing",
		Fn:   func(e Event) error { return fmt.Errorf("boom") },
	})
	d.Register(&ObserverFunc{
		Name: "after",
		Fn: func(e Event) error {
			reached = true
			return nil
		},
	})

	d.Dispatch(Event{Type: TypeDeckUpdated})
	if !reached {
		t.Error("dispatch should continue past a failing observer")
	}
}

func TestDispatcherUnregister(t *testing.T) {
	d := NewDispatcher()
	calls := 0
	obs := &ObserverFunc{
		Name: "temp",
		Fn: func(e Event) error {
			calls++
			return nil
		},
	}

	d.Register(obs)
	d.Dispatch(Event{Type: TypeDeckUpdated})
	d.Unregister(obs)
	d.Dispatch(Event{Type: TypeDeckUpdated})

	if calls != 1 {
		t.Errorf("observer called %d times after unregister, want 1", calls)
	}
}
