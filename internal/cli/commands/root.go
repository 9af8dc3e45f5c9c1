package commands

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/conduit-lang/assetrefs/internal/cli/config"
	"github.com/conduit-lang/assetrefs/internal/cli/ui"
	"github.com/conduit-lang/assetrefs/internal/logging"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// session is the state shared by every command of one invocation
type session struct {
	configDir string
	format    string
	noColor   bool
	logLevel  string

	cfg    *config.Config
	logger *zap.Logger
}

// configError marks failures to load configuration
type configError struct{ err error }

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// setup loads configuration and applies flag overrides
func (s *session) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadFrom(s.configDir)
	if err != nil {
		return &configError{err: err}
	}

	if cmd.Flags().Changed("format") {
		cfg.Output.Format = s.format
	}
	if cmd.Flags().Changed("no-color") {
		cfg.Output.NoColor = s.noColor
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = s.logLevel
	}
	if cfg.Output.Format != config.FormatText && cfg.Output.Format != config.FormatJSON {
		return &configError{err: fmt.Errorf("--format must be %q or %q, got: %s", config.FormatText, config.FormatJSON, cfg.Output.Format)}
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		return &configError{err: fmt.Errorf("log.level: %w", err)}
	}

	s.cfg = cfg
	s.logger = logger
	return nil
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	s := &session{}

	rootCmd := &cobra.Command{
		Use:   "assetrefs",
		Short: "Find the asset IDs referenced by content records",
		Long: color.CyanString(`assetrefs - asset reference extraction

Walks content records alongside their schema and lists the asset IDs
they reference. Fields marked with _backboneForms "Asset" hold asset IDs;
nested "properties" and "items.properties" descriptors are followed.
Values that are already http:// or https:// links are not asset IDs.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch cmd.Name() {
			case "version", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
				return nil
			}
			return s.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if s.logger != nil {
				_ = s.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&s.configDir, "config-dir", ".", "directory holding assetrefs.yml")
	flags.StringVar(&s.format, "format", config.FormatText, "output format: text or json")
	flags.BoolVar(&s.noColor, "no-color", false, "disable colored output")
	flags.StringVar(&s.logLevel, "log-level", "info", "log level: debug, info, warn or error")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewCompletionCommand())
	rootCmd.AddCommand(newExtractCommand(s))
	rootCmd.AddCommand(newDiffCommand(s))

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the assetrefs version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			out := cmd.OutOrStdout()
			titleColor := color.New(color.FgCyan, color.Bold)

			titleColor.Fprint(out, "assetrefs version: ")
			fmt.Fprintln(out, Version)

			titleColor.Fprint(out, "Git commit: ")
			fmt.Fprintln(out, GitCommit)

			titleColor.Fprint(out, "Build date: ")
			fmt.Fprintln(out, BuildDate)

			titleColor.Fprint(out, "Go version: ")
			fmt.Fprintln(out, goVer)
		},
	}
}

// Execute runs the root command with the process arguments
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		ReportError(rootCmd.ErrOrStderr(), err, color.NoColor)
		return err
	}
	return nil
}

// ReportError prints err the way the user should see it
func ReportError(w io.Writer, err error, noColor bool) {
	var inErr *inputError
	var cfgErr *configError

	switch {
	case errors.As(err, &inErr) && inErr.kind == "schema":
		fmt.Fprint(w, ui.SchemaError(inErr.path, inErr.err, noColor))
	case errors.As(err, &inErr):
		fmt.Fprint(w, ui.ExtractionError(inErr.path, inErr.err, noColor))
	case errors.As(err, &cfgErr):
		fmt.Fprint(w, ui.ConfigError(cfgErr.err, noColor))
	default:
		errorColor := color.New(color.FgRed, color.Bold)
		if noColor {
			errorColor.DisableColor()
		}
		errorColor.Fprintf(w, "Error: %v\n", err)
	}
}
