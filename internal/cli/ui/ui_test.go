package ui

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/conduit-lang/assetrefs/internal/assets"
	"github.com/conduit-lang/assetrefs/internal/tracking"
	"github.com/stretchr/testify/assert"
)

func TestFormatError_NoColor(t *testing.T) {
	out := FormatError(ErrorOptions{
		Context:      "invalid schema",
		Problem:      "schema.json",
		Detail:       "expected a mapping",
		HelpCommands: []string{"Get help: assetrefs --help"},
		NoColor:      true,
	})

	assert.Equal(t, "✗ INVALID SCHEMA: schema.json\n   expected a mapping\n\n   → Get help: assetrefs --help\n", out)
}

func TestFormatError_Levels(t *testing.T) {
	assert.Contains(t, Warning("careful", true), "! careful")
	assert.Contains(t, FormatError(ErrorOptions{Level: ErrorLevelInfo, Problem: "note", NoColor: true}), "i note")
	assert.Equal(t, "✓ done", FormatSuccess("done", true))
}

func TestExtractionError_UsesFieldPath(t *testing.T) {
	err := fmt.Errorf("record 0: %w", &assets.PathError{Path: "_items[1].src", Err: assets.ErrUnstringable})

	out := ExtractionError("lesson.json", err, true)
	assert.Contains(t, out, "EXTRACTION FAILED: lesson.json")
	assert.Contains(t, out, "   _items[1].src: asset value has no string form")
}

func TestExtractionError_PlainError(t *testing.T) {
	out := ExtractionError("lesson.json", errors.New("unreadable"), true)
	assert.Contains(t, out, "   unreadable")
}

func TestConfigError(t *testing.T) {
	out := ConfigError(errors.New("output.format must be text or json"), true)
	assert.Contains(t, out, "CONFIGURATION ERROR: output.format must be text or json")
	assert.Contains(t, out, "assetrefs.yml")
}

func TestRenderUsageChange(t *testing.T) {
	var buf bytes.Buffer
	RenderUsageChange(&buf, tracking.UsageChange{
		Added:    []string{"a3"},
		Removed:  []string{"a1"},
		Retained: []string{"hero"},
	}, true)

	want := "STATUS    ASSET\n" +
		"────────  ─────\n" +
		"added     a3\n" +
		"removed   a1\n" +
		"retained  hero\n"
	assert.Equal(t, want, buf.String())
}

func TestTable_NoHeaders(t *testing.T) {
	var buf bytes.Buffer
	NewTable(&buf, true).Render()
	assert.Empty(t, buf.String())
}
