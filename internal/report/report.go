// Package report renders dashboards for the terminal: a go-pretty KPI table,
// a glamour-rendered markdown summary, or indented JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/pkg/contracts/domain"
)

// Format selects how a report is written
type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Formats lists the supported output formats
func Formats() []string {
	return []string{string(FormatTable), string(FormatMarkdown), string(FormatJSON)}
}

// ParseFormat parses a format name. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatMarkdown, FormatJSON:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want one of %s)", s, strings.Join(Formats(), ", "))
	}
}

// Report is a dashboard together with the file it was computed from
type Report struct {
	Source    string            `json:"source"`
	Dashboard *domain.Dashboard `json:"dashboard"`
}

// Options control terminal rendering
type Options struct {
	// Color enables ANSI colours and the dark glamour style
	Color bool
	// WordWrap is the markdown wrap width, 0 means 80
	WordWrap int
}

// Writer renders reports
type Writer struct {
	opts Options
}

// NewWriter creates a Writer
func NewWriter(opts Options) *Writer {
	if opts.WordWrap <= 0 {
		opts.WordWrap = 80
	}
	return &Writer{opts: opts}
}

// Write renders r to w in format f
func (rw *Writer) Write(w io.Writer, f Format, r Report) error {
	if r.Dashboard == nil {
		return fmt.Errorf("report for %s has no dashboard", r.Source)
	}
	switch f {
	case FormatTable:
		return rw.WriteTable(w, r)
	case FormatMarkdown:
		return rw.WriteMarkdown(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	default:
		return fmt.Errorf("unsupported output format %q", f)
	}
}

// WriteJSON writes v as indented JSON
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func window(d *domain.Dashboard) string {
	if d.Config.StartDate == "" && d.Config.EndDate == "" {
		return fmt.Sprintf("rows %d-%d", d.Config.StartRow, d.Config.EndRow)
	}
	return fmt.Sprintf("%s to %s, rows %d-%d", d.Config.StartDate, d.Config.EndDate, d.Config.StartRow, d.Config.EndRow)
}
