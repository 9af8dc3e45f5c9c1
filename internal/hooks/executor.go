package hooks

import (
	"context"
	"fmt"

	"github.com/conduit-lang/assetrefs/internal/assets"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SchemaProvider resolves the asset schema of a content type
type SchemaProvider interface {
	Schema(contentType string) (assets.Schema, bool)
}

// StaticSchemas is a SchemaProvider backed by a fixed map
type StaticSchemas map[string]assets.Schema

// Schema implements SchemaProvider
func (s StaticSchemas) Schema(contentType string) (assets.Schema, bool) {
	schema, ok := s[contentType]
	return schema, ok
}

// Executor executes lifecycle hooks for content events
type Executor struct {
	registry   *Registry
	schemas    SchemaProvider
	asyncQueue *AsyncQueue
	logger     *zap.Logger
}

// NewExecutor creates a new hook executor. asyncQueue may be nil when no
// async hooks are registered.
func NewExecutor(schemas SchemaProvider, asyncQueue *AsyncQueue, logger *zap.Logger) *Executor {
	return NewExecutorWithRegistry(NewRegistry(), schemas, asyncQueue, logger)
}

// NewExecutorWithRegistry creates a new hook executor with an existing registry.
// A nil schema provider knows no content types.
func NewExecutorWithRegistry(registry *Registry, schemas SchemaProvider, asyncQueue *AsyncQueue, logger *zap.Logger) *Executor {
	if registry == nil {
		registry = NewRegistry()
	}
	if schemas == nil {
		schemas = StaticSchemas{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		registry:   registry,
		schemas:    schemas,
		asyncQueue: asyncQueue,
		logger:     logger.Named("hooks"),
	}
}

// Register registers a hook
func (e *Executor) Register(eventType EventType, hook *Hook) {
	e.registry.Register(eventType, hook)
}

// Execute runs every hook registered for the event's type, in registration
// order. A failing synchronous hook stops the run; async hook failures are
// only logged.
func (e *Executor) Execute(ctx context.Context, event *Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	hooks := e.registry.GetHooks(event.Type)
	if len(hooks) == 0 {
		return nil
	}

	schema, ok := e.schemas.Schema(event.ContentType)
	if !ok {
		// Content types without a schema reference no assets
		e.logger.Debug("no schema for content type",
			zap.String("content_type", event.ContentType),
			zap.String("event", event.Type.String()),
		)
		return nil
	}

	logger := e.logger.With(
		zap.String("content_type", event.ContentType),
		zap.String("record", event.RecordID),
		zap.String("event", event.Type.String()),
	)
	hookCtx := NewContext(ctx, uuid.NewString(), schema, logger)

	for _, hook := range hooks {
		if hook.Async {
			if err := e.enqueueAsyncHook(hookCtx, hook, event); err != nil {
				hookCtx.Logger().Warn("failed to enqueue async hook",
					zap.String("hook", hook.Name),
					zap.Error(err),
				)
			}
			continue
		}

		if err := hook.Fn(hookCtx, event); err != nil {
			return fmt.Errorf("hook %s failed: %w", event.Type.String(), err)
		}
	}

	return nil
}

// enqueueAsyncHook queues an async hook for later execution
func (e *Executor) enqueueAsyncHook(hookCtx *Context, hook *Hook, event *Event) error {
	if e.asyncQueue == nil {
		return fmt.Errorf("async queue not configured")
	}

	// The caller may keep mutating its records once Execute returns
	eventCopy := &Event{
		Type:        event.Type,
		ContentType: event.ContentType,
		RecordID:    event.RecordID,
		Before:      deepCopyRecord(event.Before),
		After:       deepCopyRecord(event.After),
	}

	task := AsyncTask{
		ID:   hookCtx.EventID(),
		Name: fmt.Sprintf("%s_hook", event.Type.String()),
		Fn: func(ctx context.Context) error {
			asyncCtx := &Context{
				Context: ctx,
				eventID: hookCtx.eventID,
				schema:  hookCtx.schema,
				logger:  hookCtx.logger,
			}
			return hook.Fn(asyncCtx, eventCopy)
		},
	}

	return e.asyncQueue.Enqueue(task)
}

// deepCopyRecord creates a deep copy of a record map. nil stays nil.
func deepCopyRecord(record map[string]any) map[string]any {
	if record == nil {
		return nil
	}
	out := make(map[string]any, len(record))
	for k, v := range record {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyRecord(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(val))
		for i, item := range val {
			out[i] = deepCopyRecord(item)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		// Scalars and Stringer values are copied by value
		return v
	}
}
