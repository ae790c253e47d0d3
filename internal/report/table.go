package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/pkg/contracts/domain"
)

var (
	colorUp      = text.Colors{text.FgGreen}
	colorDown    = text.Colors{text.FgRed}
	colorWarning = text.Colors{text.FgYellow}
)

// WriteTable writes the KPI cards as a terminal table followed by any
// warnings and chart errors.
func (rw *Writer) WriteTable(w io.Writer, r Report) error {
	d := r.Dashboard
	title := fmt.Sprintf("%s: %d rows (%s)", r.Source, d.Rows, window(d))
	if rw.opts.Color {
		title = text.Bold.Sprint(title)
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if rw.opts.Color {
		tw.SetStyle(table.StyleColoredDark)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false

	tw.AppendHeader(table.Row{"KPI", "", "VALUE"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignRight},
	})

	if len(d.Cards) == 0 {
		tw.AppendRow(table.Row{"KPIs", "", "N/A"})
	}
	for _, card := range d.Cards {
		for i, line := range card.Lines {
			name := ""
			if i == 0 {
				name = card.Title
			}
			tw.AppendRow(table.Row{name, line.Label, rw.colorize(card.Direction, line.Value)})
		}
		if len(card.Lines) == 0 {
			tw.AppendRow(table.Row{card.Title, "", "N/A"})
		}
	}
	tw.Render()

	for _, msg := range notes(d) {
		if rw.opts.Color {
			msg = colorWarning.Sprint(msg)
		}
		if _, err := fmt.Fprintln(w, msg); err != nil {
			return err
		}
	}
	return nil
}

func (rw *Writer) colorize(dir domain.Direction, value string) string {
	if !rw.opts.Color {
		return value
	}
	switch dir {
	case domain.DirectionUp:
		return colorUp.Sprint(value)
	case domain.DirectionDown:
		return colorDown.Sprint(value)
	default:
		return value
	}
}

// notes flattens warnings and chart errors into display lines
func notes(d *domain.Dashboard) []string {
	out := make([]string, 0, len(d.Warnings)+len(d.ChartErrors))
	for _, w := range d.Warnings {
		out = append(out, "warning: "+w)
	}
	for _, ce := range d.ChartErrors {
		out = append(out, fmt.Sprintf("chart %s: %s", ce.Kind, ce.Message))
	}
	return out
}
