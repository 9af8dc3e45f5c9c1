// Package tracking computes how the set of assets referenced by a content
// record changes across a save. The host uses the result to reconcile its
// asset usage index.
package tracking

import (
	"fmt"
	"sync"

	"github.com/conduit-lang/assetrefs/internal/assets"
)

// Event is the kind of save a UsageChange was computed for
type Event string

const (
	EventInsert Event = "insert"
	EventUpdate Event = "update"
	EventDelete Event = "delete"
)

// UsageChange is the asset reconciliation work produced by one record save
type UsageChange struct {
	Record   string
	Event    Event
	Added    []string
	Removed  []string
	Retained []string
}

// HasChanges returns true if any asset was added or removed
func (c UsageChange) HasChanges() bool {
	return len(c.Added) > 0 || len(c.Removed) > 0
}

// UsageTracker tracks the assets referenced by one record instance.
// original is the state last persisted, current the state being saved.
type UsageTracker struct {
	mu       sync.RWMutex
	schema   assets.Schema
	original *assets.IDSet
	current  *assets.IDSet
}

// NewUsageTracker creates a tracker for a record.
// A nil original means the record is new; a nil current means it is being deleted.
func NewUsageTracker(schema assets.Schema, original, current map[string]any) (*UsageTracker, error) {
	orig, err := collect(schema, original)
	if err != nil {
		return nil, fmt.Errorf("original record: %w", err)
	}
	cur, err := collect(schema, current)
	if err != nil {
		return nil, fmt.Errorf("current record: %w", err)
	}
	return &UsageTracker{schema: schema, original: orig, current: cur}, nil
}

func collect(schema assets.Schema, record map[string]any) (*assets.IDSet, error) {
	set := assets.NewIDSet()
	if record == nil {
		return set, nil
	}
	if err := assets.Extract(schema, record, set); err != nil {
		return nil, err
	}
	return set, nil
}

// Added returns assets referenced now but not in the original state
func (ut *UsageTracker) Added() []string {
	ut.mu.RLock()
	defer ut.mu.RUnlock()
	return ut.current.Difference(ut.original)
}

// Removed returns assets no longer referenced
func (ut *UsageTracker) Removed() []string {
	ut.mu.RLock()
	defer ut.mu.RUnlock()
	return ut.original.Difference(ut.current)
}

// Retained returns assets referenced both before and after
func (ut *UsageTracker) Retained() []string {
	ut.mu.RLock()
	defer ut.mu.RUnlock()
	return ut.retained()
}

func (ut *UsageTracker) retained() []string {
	out := []string{}
	for _, id := range ut.current.Slice() {
		if ut.original.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// Current returns every asset the current state references
func (ut *UsageTracker) Current() []string {
	ut.mu.RLock()
	defer ut.mu.RUnlock()
	return ut.current.Slice()
}

// HasChanges returns true if the referenced asset set changed
func (ut *UsageTracker) HasChanges() bool {
	return ut.Change("").HasChanges()
}

// Change returns the reconciliation work for the record
func (ut *UsageTracker) Change(record string) UsageChange {
	ut.mu.RLock()
	defer ut.mu.RUnlock()

	return UsageChange{
		Record:   record,
		Added:    ut.current.Difference(ut.original),
		Removed:  ut.original.Difference(ut.current),
		Retained: ut.retained(),
	}
}

// SetRecord replaces the current state and recomputes its assets.
// On failure the previous current state is kept.
func (ut *UsageTracker) SetRecord(current map[string]any) error {
	cur, err := collect(ut.schema, current)
	if err != nil {
		return err
	}

	ut.mu.Lock()
	defer ut.mu.Unlock()
	ut.current = cur
	return nil
}

// Reset makes the current state the new original.
// This should be called after the host has reconciled a change.
func (ut *UsageTracker) Reset() {
	ut.mu.Lock()
	defer ut.mu.Unlock()
	ut.original = assets.NewIDSet(ut.current.Slice()...)
}

// Compute returns the usage change between two states of a record.
// A nil before is an insert, otherwise a nil after is a delete.
func Compute(schema assets.Schema, record string, before, after map[string]any) (UsageChange, error) {
	event := EventUpdate
	switch {
	case before == nil:
		event = EventInsert
	case after == nil:
		event = EventDelete
	}
	return compute(schema, record, event, before, after)
}

// ForInsert returns the usage change of a newly created record: every
// asset it references is added
func ForInsert(schema assets.Schema, record string, created map[string]any) (UsageChange, error) {
	return compute(schema, record, EventInsert, nil, created)
}

// ForUpdate returns the usage change between the stored and the saved
// state of a record
func ForUpdate(schema assets.Schema, record string, before, after map[string]any) (UsageChange, error) {
	return compute(schema, record, EventUpdate, before, after)
}

// ForDelete returns the usage change of a deleted record: every asset it
// referenced is removed
func ForDelete(schema assets.Schema, record string, deleted map[string]any) (UsageChange, error) {
	return compute(schema, record, EventDelete, deleted, nil)
}

func compute(schema assets.Schema, record string, event Event, before, after map[string]any) (UsageChange, error) {
	ut, err := NewUsageTracker(schema, before, after)
	if err != nil {
		return UsageChange{}, err
	}
	change := ut.Change(record)
	change.Event = event
	return change, nil
}
