package hooks

import (
	"context"
	"fmt"

	"github.com/conduit-lang/assetrefs/internal/tracking"
	"go.uber.org/zap"
)

// Reconciler applies asset usage changes to the host's usage index
type Reconciler interface {
	Reconcile(ctx context.Context, contentType string, change tracking.UsageChange) error
}

// ReconcilerFunc adapts a function to the Reconciler interface
type ReconcilerFunc func(ctx context.Context, contentType string, change tracking.UsageChange) error

// Reconcile implements Reconciler
func (f ReconcilerFunc) Reconcile(ctx context.Context, contentType string, change tracking.UsageChange) error {
	return f(ctx, contentType, change)
}

// UsageChange extracts the assets the event's record referenced before and
// after it, using the schema of the hook context
func UsageChange(ctx *Context, event *Event) (tracking.UsageChange, error) {
	var (
		change tracking.UsageChange
		err    error
	)
	switch event.Type {
	case AfterInsert:
		change, err = tracking.ForInsert(ctx.Schema(), event.RecordID, event.After)
	case AfterUpdate:
		change, err = tracking.ForUpdate(ctx.Schema(), event.RecordID, event.Before, event.After)
	case AfterDelete:
		change, err = tracking.ForDelete(ctx.Schema(), event.RecordID, event.Before)
	default:
		return tracking.UsageChange{}, fmt.Errorf("%w: unknown event type %d", ErrInvalidEvent, int(event.Type))
	}
	if err != nil {
		return tracking.UsageChange{}, fmt.Errorf("extract assets of %s %s: %w", event.ContentType, event.RecordID, err)
	}
	return change, nil
}

// AssetUsageHook returns a hook that extracts the assets referenced by the
// record before and after the event and hands the difference to r.
// Events that leave the referenced assets unchanged are not reconciled.
func AssetUsageHook(r Reconciler) HookFunc {
	return func(ctx *Context, event *Event) error {
		change, err := UsageChange(ctx, event)
		if err != nil {
			return err
		}

		if !change.HasChanges() {
			ctx.Logger().Debug("asset usage unchanged", zap.Int("assets", len(change.Retained)))
			return nil
		}

		ctx.Logger().Info("reconciling asset usage",
			zap.Strings("added", change.Added),
			zap.Strings("removed", change.Removed),
		)
		return r.Reconcile(ctx, event.ContentType, change)
	}
}

// RegisterAssetUsage registers AssetUsageHook for inserts, updates and deletes
func RegisterAssetUsage(e *Executor, r Reconciler, async bool) {
	fn := AssetUsageHook(r)
	for _, eventType := range []EventType{AfterInsert, AfterUpdate, AfterDelete} {
		e.Register(eventType, &Hook{Name: "asset_usage", Fn: fn, Async: async})
	}
}
