package hooks

import (
	"errors"
	"fmt"
)

// EventType is the content lifecycle event a hook runs after
type EventType int

const (
	AfterInsert EventType = iota
	AfterUpdate
	AfterDelete
)

// String returns the string representation of the event type
func (e EventType) String() string {
	switch e {
	case AfterInsert:
		return "after_insert"
	case AfterUpdate:
		return "after_update"
	case AfterDelete:
		return "after_delete"
	default:
		return "unknown"
	}
}

// ErrInvalidEvent is returned when an event lacks the record states its type needs
var ErrInvalidEvent = errors.New("invalid content event")

// Event describes one saved, updated or deleted content record.
// Before is nil for inserts and After is nil for deletes.
type Event struct {
	Type        EventType
	ContentType string
	RecordID    string
	Before      map[string]any
	After       map[string]any
}

// Validate checks that the event carries the states its type needs
func (e *Event) Validate() error {
	if e.ContentType == "" {
		return fmt.Errorf("%w: missing content type", ErrInvalidEvent)
	}
	switch e.Type {
	case AfterInsert:
		if e.After == nil {
			return fmt.Errorf("%w: %s without a new record", ErrInvalidEvent, e.Type)
		}
	case AfterUpdate:
		if e.Before == nil || e.After == nil {
			return fmt.Errorf("%w: %s needs both record states", ErrInvalidEvent, e.Type)
		}
	case AfterDelete:
		if e.Before == nil {
			return fmt.Errorf("%w: %s without the deleted record", ErrInvalidEvent, e.Type)
		}
	default:
		return fmt.Errorf("%w: unknown event type %d", ErrInvalidEvent, int(e.Type))
	}
	return nil
}

// HookFunc represents a hook function that can be executed
type HookFunc func(ctx *Context, event *Event) error

// Hook represents a registered lifecycle hook
type Hook struct {
	Name  string
	Type  EventType
	Fn    HookFunc
	Async bool // Execute on the async queue, after Execute returns
}

// Registry manages all registered hooks
type Registry struct {
	hooks map[EventType][]*Hook
}

// NewRegistry creates a new hook registry
func NewRegistry() *Registry {
	return &Registry{
		hooks: make(map[EventType][]*Hook),
	}
}

// Register adds a hook to the registry
func (r *Registry) Register(eventType EventType, hook *Hook) {
	hook.Type = eventType
	r.hooks[eventType] = append(r.hooks[eventType], hook)
}

// GetHooks returns all hooks for a given event type
func (r *Registry) GetHooks(eventType EventType) []*Hook {
	return r.hooks[eventType]
}

// HasHooks returns true if there are any hooks registered for the given type
func (r *Registry) HasHooks(eventType EventType) bool {
	return len(r.hooks[eventType]) > 0
}
