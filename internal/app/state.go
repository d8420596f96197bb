// Package app provides shared engine state, events, and theming.
package app

import (
	"sync"
)

// EventType identifies engine events.
type EventType int

const (
	EventShapeCommitted EventType = iota
	EventViewChanged
	EventToolChanged
	EventMountChanged
	EventSignalPublished
	EventHostConnected
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds cross-component engine state and the event bus. All
// exported mutation goes through methods; callbacks run on the caller's
// goroutine.
type State struct {
	mu sync.RWMutex

	// ActiveTool is the host-facing tool mode string.
	ActiveTool string

	// Mounted reports whether the overlay is currently attached.
	Mounted bool

	listeners map[EventType][]EventListener
}

// NewState creates a new engine state.
func NewState() *State {
	return &State{
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetActiveTool records the tool mode and emits an event when it changed.
func (s *State) SetActiveTool(mode string) {
	s.mu.Lock()
	changed := s.ActiveTool != mode
	s.ActiveTool = mode
	s.mu.Unlock()
	if changed {
		s.Emit(EventToolChanged, mode)
	}
}

// Tool returns the current tool mode.
func (s *State) Tool() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ActiveTool
}

// SetMounted records attachment state and emits an event when it changed.
func (s *State) SetMounted(mounted bool) {
	s.mu.Lock()
	changed := s.Mounted != mounted
	s.Mounted = mounted
	s.mu.Unlock()
	if changed {
		s.Emit(EventMountChanged, mounted)
	}
}
