package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/conduit-lang/assetrefs/internal/assets"
	"github.com/conduit-lang/assetrefs/internal/cli/config"
	"github.com/conduit-lang/assetrefs/internal/cli/ui"
	"github.com/conduit-lang/assetrefs/internal/hooks"
	"github.com/conduit-lang/assetrefs/internal/tracking"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// usageChangeJSON is the --format json rendering of a usage change
type usageChangeJSON struct {
	Record   string   `json:"record,omitempty"`
	Event    string   `json:"event"`
	Added    []string `json:"added"`
	Removed  []string `json:"removed"`
	Retained []string `json:"retained"`
}

func newDiffCommand(s *session) *cobra.Command {
	var (
		schemaPath    string
		contentSchema bool
		contentType   string
		recordID      string
	)

	cmd := &cobra.Command{
		Use:   "diff [flags] <before-file> <after-file>",
		Short: "Show how a save changes the assets a record references",
		Long: `Diff compares the asset IDs referenced by two states of one record.
An empty file stands for a record that does not exist, so an empty
before-file shows an insert and an empty after-file shows a delete.

The change is computed by the asset usage hook on the async hook queue,
sized by the hooks.workers and hooks.queue_size settings.`,
		Example: `  assetrefs diff --schema course.schema.json old.json new.json
  assetrefs diff --schema course.schema.json --format json /dev/null new.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := newInputs(cmd.InOrStdin())
			schema, err := in.loadSchema(schemaPath, contentSchema)
			if err != nil {
				return err
			}

			before, err := in.loadSingleRecord(args[0])
			if err != nil {
				return err
			}
			after, err := in.loadSingleRecord(args[1])
			if err != nil {
				return err
			}

			pair := args[0] + " → " + args[1]
			event, err := saveEvent(before, after)
			if err != nil {
				return &inputError{kind: "record", path: pair, err: err}
			}
			event.ContentType = contentType
			event.RecordID = recordID

			change, err := runUsageHook(cmd.Context(), s, schema, event)
			if err != nil {
				return &inputError{kind: "record", path: pair, err: err}
			}

			s.logger.Info("usage diff",
				zap.String("record", recordID),
				zap.String("event", string(change.Event)),
				zap.Int("added", len(change.Added)),
				zap.Int("removed", len(change.Removed)),
			)
			return writeChange(cmd.OutOrStdout(), s.cfg, change)
		},
	}

	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema file (JSON or YAML)")
	cmd.Flags().BoolVar(&contentSchema, "content-schema", false, "schema file is a full content schema with top-level properties")
	cmd.Flags().StringVar(&contentType, "content-type", "content", "content type to label the change with")
	cmd.Flags().StringVar(&recordID, "record", "", "record ID to label the change with")
	_ = cmd.MarkFlagRequired("schema")
	completeDataFiles(cmd)

	return cmd
}

// saveEvent picks the lifecycle event leading from before to after
func saveEvent(before, after map[string]any) (*hooks.Event, error) {
	switch {
	case before == nil && after == nil:
		return nil, fmt.Errorf("before and after are both empty")
	case before == nil:
		return &hooks.Event{Type: hooks.AfterInsert, After: after}, nil
	case after == nil:
		return &hooks.Event{Type: hooks.AfterDelete, Before: before}, nil
	default:
		return &hooks.Event{Type: hooks.AfterUpdate, Before: before, After: after}, nil
	}
}

// runUsageHook executes event through a hook executor whose usage hook runs
// on an async queue, and waits for the queue to drain
func runUsageHook(ctx context.Context, s *session, schema assets.Schema, event *hooks.Event) (tracking.UsageChange, error) {
	queue := hooks.NewAsyncQueue(s.cfg.Hooks.Workers, s.cfg.Hooks.QueueSize, s.logger)
	queue.Start()
	defer queue.Shutdown()

	var (
		change  tracking.UsageChange
		hookErr error
		ran     bool
	)
	executor := hooks.NewExecutor(hooks.StaticSchemas{event.ContentType: schema}, queue, s.logger)
	executor.Register(event.Type, &hooks.Hook{
		Name:  "usage_diff",
		Async: true,
		Fn: func(hctx *hooks.Context, ev *hooks.Event) error {
			ran = true
			change, hookErr = hooks.UsageChange(hctx, ev)
			return hookErr
		},
	})

	if err := executor.Execute(ctx, event); err != nil {
		return tracking.UsageChange{}, err
	}
	queue.Shutdown()

	if !ran {
		return tracking.UsageChange{}, fmt.Errorf("usage hook did not run for %s", event.Type)
	}
	return change, hookErr
}

func (in *inputs) loadSingleRecord(path string) (map[string]any, error) {
	records, err := in.loadRecords(path)
	if err != nil {
		return nil, err
	}
	switch len(records) {
	case 0:
		return nil, nil
	case 1:
		return records[0], nil
	default:
		return nil, &inputError{kind: "record", path: path, err: fmt.Errorf("expected one record, found %d", len(records))}
	}
}

func writeChange(w io.Writer, cfg *config.Config, change tracking.UsageChange) error {
	if cfg.Output.Format == config.FormatJSON {
		out, err := json.Marshal(usageChangeJSON{
			Record:   change.Record,
			Event:    string(change.Event),
			Added:    change.Added,
			Removed:  change.Removed,
			Retained: change.Retained,
		})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}

	if !change.HasChanges() {
		fmt.Fprintln(w, ui.FormatSuccess("asset usage unchanged", cfg.Output.NoColor))
	}
	ui.RenderUsageChange(w, change, cfg.Output.NoColor)
	return nil
}
