package commands

import (
	"fmt"
	"io"

	"github.com/conduit-lang/assetrefs/internal/assets"
	"github.com/conduit-lang/assetrefs/internal/cli/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExtractCommand(s *session) *cobra.Command {
	var (
		schemaPath    string
		contentSchema bool
		seed          []string
	)

	cmd := &cobra.Command{
		Use:   "extract [flags] <record-file>...",
		Short: "List the asset IDs referenced by content records",
		Long: `Extract walks every record in the given files against the schema and
prints each referenced asset ID once. A file holds one JSON or YAML record
or an array of records; "-" reads standard input.

IDs passed with --seed are merged into the result, so the output of an
earlier run can be extended with new records.`,
		Example: `  assetrefs extract --schema course.schema.json course.json
  assetrefs extract --schema article.json --content-schema --format json articles/*.json
  cat lesson.yaml | assetrefs extract --schema lesson.schema.yaml -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := newInputs(cmd.InOrStdin())
			schema, err := in.loadSchema(schemaPath, contentSchema)
			if err != nil {
				return err
			}
			if !schema.HasAssets() {
				s.logger.Warn("schema declares no asset fields", zap.String("schema", schemaPath))
			}

			ids := assets.NewIDSet(seed...)
			for _, path := range args {
				records, err := in.loadRecords(path)
				if err != nil {
					return err
				}
				before := ids.Len()
				for i, record := range records {
					if err := assets.Extract(schema, record, ids); err != nil {
						return &inputError{kind: "record", path: path, err: fmt.Errorf("record %d: %w", i, err)}
					}
				}
				s.logger.Debug("extracted assets",
					zap.String("file", path),
					zap.Int("records", len(records)),
					zap.Int("new_assets", ids.Len()-before),
				)
			}

			s.logger.Info("extraction complete",
				zap.Int("files", len(args)),
				zap.Int("assets", ids.Len()),
			)
			return writeIDs(cmd.OutOrStdout(), s.cfg.Output.Format, ids.Slice())
		},
	}

	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema file (JSON or YAML)")
	cmd.Flags().BoolVar(&contentSchema, "content-schema", false, "schema file is a full content schema with top-level properties")
	cmd.Flags().StringSliceVar(&seed, "seed", nil, "asset IDs already known, merged into the result")
	_ = cmd.MarkFlagRequired("schema")
	completeDataFiles(cmd)

	return cmd
}

func writeIDs(w io.Writer, format string, ids []string) error {
	if format == config.FormatJSON {
		out, err := json.Marshal(ids)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}

	for _, id := range ids {
		if _, err := fmt.Fprintln(w, id); err != nil {
			return err
		}
	}
	return nil
}
