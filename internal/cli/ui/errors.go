package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/conduit-lang/assetrefs/internal/assets"
	"github.com/fatih/color"
)

// ErrorLevel represents the severity of an error message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Detail       string
	HelpCommands []string
	NoColor      bool
}

// FormatError creates a standardized error message with help commands
//
// Example output:
//
//	✗ EXTRACTION FAILED: lesson.json
//	   _items[1].src: asset value has no string form: map[string]interface {}
//
//	   → Check the record against its schema: assetrefs extract --help
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	var headerColor, bodyColor *color.Color
	var symbol string

	switch opts.Level {
	case ErrorLevelWarning:
		headerColor = color.New(color.FgYellow, color.Bold)
		bodyColor = color.New(color.FgYellow)
		symbol = "!"
	case ErrorLevelInfo:
		headerColor = color.New(color.FgCyan, color.Bold)
		bodyColor = color.New(color.FgCyan)
		symbol = "i"
	default:
		headerColor = color.New(color.FgRed, color.Bold)
		bodyColor = color.New(color.FgRed)
		symbol = "✗"
	}

	if opts.NoColor {
		headerColor.DisableColor()
		bodyColor.DisableColor()
	}

	if opts.Context != "" {
		headerColor.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(opts.Context), opts.Problem)
	} else {
		headerColor.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	if opts.Detail != "" {
		bodyColor.Fprintf(&b, "   %s\n", opts.Detail)
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		cyan := color.New(color.FgCyan)
		if opts.NoColor {
			cyan.DisableColor()
		}
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

// WriteError writes a formatted error message to the writer
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// SchemaError creates a standardized schema error
func SchemaError(path string, err error, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelError,
		Context: "INVALID SCHEMA",
		Problem: path,
		Detail:  err.Error(),
		HelpCommands: []string{
			"A schema maps field names to descriptors; pass --content-schema for a full schema with top-level properties",
		},
		NoColor: noColor,
	})
}

// ExtractionError creates a standardized extraction error. Traversal
// faults are reported with the field path they happened at.
func ExtractionError(path string, err error, noColor bool) string {
	detail := err.Error()
	var pe *assets.PathError
	if errors.As(err, &pe) {
		detail = fmt.Sprintf("%s: %v", pe.Path, pe.Err)
	}
	return FormatError(ErrorOptions{
		Level:   ErrorLevelError,
		Context: "EXTRACTION FAILED",
		Problem: path,
		Detail:  detail,
		HelpCommands: []string{
			"Check the record against its schema: assetrefs extract --help",
		},
		NoColor: noColor,
	})
}

// ConfigError creates a standardized configuration error
func ConfigError(err error, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelError,
		Context: "CONFIGURATION ERROR",
		Problem: err.Error(),
		HelpCommands: []string{
			"View config: cat assetrefs.yml",
			"Get help: assetrefs --help",
		},
		NoColor: noColor,
	})
}

// Warning creates a standardized warning message
func Warning(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelWarning,
		Problem: message,
		NoColor: noColor,
	})
}
