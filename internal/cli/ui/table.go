package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/conduit-lang/assetrefs/internal/tracking"
	"github.com/fatih/color"
)

// Table represents a simple table for displaying tabular data
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
	noColor bool
}

// NewTable creates a new table with the given headers
func NewTable(w io.Writer, noColor bool, headers ...string) *Table {
	return &Table{
		writer:  w,
		headers: headers,
		rows:    make([][]string, 0),
		noColor: noColor,
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render renders the table to the writer
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = len(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	bold := color.New(color.Bold, color.FgCyan)
	gray := color.New(color.FgHiBlack)
	if t.noColor {
		bold.DisableColor()
		gray.DisableColor()
	}

	separators := make([]string, len(widths))
	for i, width := range widths {
		separators[i] = strings.Repeat("─", width)
	}
	t.renderRow(t.headers, widths, bold)
	t.renderRow(separators, widths, gray)
	for _, row := range t.rows {
		t.renderRow(row, widths, nil)
	}
}

func (t *Table) renderRow(cells []string, widths []int, c *color.Color) {
	parts := make([]string, 0, len(widths))
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		if i == len(cells)-1 || i == len(widths)-1 {
			parts = append(parts, cell)
			continue
		}
		parts = append(parts, padRight(cell, widths[i]))
	}
	line := strings.Join(parts, "  ")
	if c != nil {
		c.Fprintln(t.writer, line)
		return
	}
	fmt.Fprintln(t.writer, line)
}

// padRight pads a string with spaces on the right to reach the target width
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// RenderUsageChange writes one row per asset of a usage change:
// added, removed, then retained
func RenderUsageChange(w io.Writer, change tracking.UsageChange, noColor bool) {
	t := NewTable(w, noColor, "STATUS", "ASSET")
	for _, id := range change.Added {
		t.AddRow("added", id)
	}
	for _, id := range change.Removed {
		t.AddRow("removed", id)
	}
	for _, id := range change.Retained {
		t.AddRow("retained", id)
	}
	t.Render()
}
