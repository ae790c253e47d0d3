package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/pkg/contracts/domain"
)

// Markdown builds the markdown summary of r
func Markdown(r Report) string {
	d := r.Dashboard
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Source)
	fmt.Fprintf(&b, "%d rows, %s.\n\n", d.Rows, window(d))
	if len(d.Columns) > 0 {
		fmt.Fprintf(&b, "Columns: %s\n\n", strings.Join(d.Columns, ", "))
	}

	b.WriteString("## Key Performance Indicators\n\n")
	if len(d.Cards) == 0 {
		b.WriteString("No KPIs are available for this selection.\n\n")
	} else {
		b.WriteString("| KPI | Value |\n|---|---:|\n")
		for _, card := range d.Cards {
			fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(card.Title), escapeCell(cardValue(card)))
		}
		b.WriteString("\n")
	}

	if msgs := notes(d); len(msgs) > 0 {
		b.WriteString("## Notes\n\n")
		for _, m := range msgs {
			fmt.Fprintf(&b, "- %s\n", m)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// WriteMarkdown renders the markdown summary through glamour
func (rw *Writer) WriteMarkdown(w io.Writer, r Report) error {
	style := "notty"
	if rw.opts.Color {
		style = "dark"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(rw.opts.WordWrap),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := renderer.Render(Markdown(r))
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// cardValue joins a card's lines into one cell
func cardValue(card domain.KPICard) string {
	if len(card.Lines) == 0 {
		return "N/A"
	}
	parts := make([]string, 0, len(card.Lines))
	for _, l := range card.Lines {
		if l.Label == "" {
			parts = append(parts, l.Value)
			continue
		}
		parts = append(parts, l.Label+": "+l.Value)
	}
	return strings.Join(parts, ", ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
