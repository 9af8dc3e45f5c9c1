package hooks

import (
	"context"

	"github.com/conduit-lang/assetrefs/internal/assets"
	"go.uber.org/zap"
)

// Context wraps the standard context with what a hook needs to know about
// the content type it runs for
type Context struct {
	context.Context
	eventID string
	schema  assets.Schema
	logger  *zap.Logger
}

// NewContext creates a new hook context
func NewContext(ctx context.Context, eventID string, schema assets.Schema, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{
		Context: ctx,
		eventID: eventID,
		schema:  schema,
		logger:  logger.With(zap.String("event_id", eventID)),
	}
}

// EventID returns the identifier shared by every hook run for one event
func (c *Context) EventID() string {
	return c.eventID
}

// Schema returns the schema of the event's content type
func (c *Context) Schema() assets.Schema {
	return c.schema
}

// Logger returns the hook logger, tagged with the event ID
func (c *Context) Logger() *zap.Logger {
	return c.logger
}
