package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/pkg/contracts/domain"
)

func sampleReport() Report {
	return Report{
		Source: "prices.csv",
		Dashboard: &domain.Dashboard{
			Config: domain.AppliedConfig{
				StartDate: "2024-01-01",
				EndDate:   "2024-01-05",
				StartRow:  0,
				EndRow:    5,
				Columns:   []string{"date", "close"},
			},
			Rows:    5,
			Columns: []string{"date", "close"},
			KPIs: &domain.KPISet{
				LatestClose: domain.Float(114),
				Rows:        5,
			},
			Cards: []domain.KPICard{
				{ID: "latest_close", Title: "Latest Closing Price", Lines: []domain.CardLine{{Value: "$114.00"}}, Direction: domain.DirectionNeutral},
				{ID: "daily_change", Title: "Daily Price Change", Lines: []domain.CardLine{{Value: "$7.00 (6.54%)"}}, Direction: domain.DirectionUp},
				{ID: "high_low_52_week", Title: "52-Week High & Low", Lines: []domain.CardLine{
					{Label: "High", Value: "$114.00"},
					{Label: "Low", Value: "$100.00"},
				}, Direction: domain.DirectionNeutral},
			},
			Charts:      []domain.ChartSpec{},
			Warnings:    []string{"The 'date' column must be selected for plotting."},
			ChartErrors: []domain.ChartError{{Kind: domain.ChartCandlestick, Message: "missing columns: open, high, low"}},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "table", want: FormatTable},
		{in: "", want: FormatTable},
		{in: "Markdown", want: FormatMarkdown},
		{in: "md", want: FormatMarkdown},
		{in: " json ", want: FormatJSON},
		{in: "yaml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "table, markdown, json")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriter_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(Options{}).Write(&buf, FormatTable, sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "prices.csv: 5 rows (2024-01-01 to 2024-01-05, rows 0-5)")
	assert.Contains(t, out, "KPI")
	assert.Contains(t, out, "VALUE")
	assert.Contains(t, out, "Latest Closing Price")
	assert.Contains(t, out, "$7.00 (6.54%)")
	assert.Contains(t, out, "High")
	assert.Contains(t, out, "$100.00")
	assert.Contains(t, out, "warning: The 'date' column must be selected for plotting.")
	assert.Contains(t, out, "chart candlestick: missing columns: open, high, low")
	assert.NotContains(t, out, "\x1b[")

	// Multi-line cards print their title once
	assert.Equal(t, 1, strings.Count(out, "52-Week High & Low"))
}

func TestWriter_TableWithoutCards(t *testing.T) {
	r := sampleReport()
	r.Dashboard.Cards = nil

	var buf bytes.Buffer
	require.NoError(t, NewWriter(Options{}).WriteTable(&buf, r))
	assert.Contains(t, buf.String(), "N/A")
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleReport())

	assert.True(t, strings.HasPrefix(md, "# prices.csv\n"))
	assert.Contains(t, md, "5 rows, 2024-01-01 to 2024-01-05, rows 0-5.")
	assert.Contains(t, md, "Columns: date, close")
	assert.Contains(t, md, "| Latest Closing Price | $114.00 |")
	assert.Contains(t, md, "| 52-Week High & Low | High: $114.00, Low: $100.00 |")
	assert.Contains(t, md, "## Notes")
	assert.Contains(t, md, "- chart candlestick: missing columns: open, high, low")
}

func TestMarkdown_NoCards(t *testing.T) {
	r := sampleReport()
	r.Dashboard.Cards = nil
	r.Dashboard.Warnings = nil
	r.Dashboard.ChartErrors = nil

	md := Markdown(r)
	assert.Contains(t, md, "No KPIs are available for this selection.")
	assert.NotContains(t, md, "## Notes")
}

func TestEscapeCell(t *testing.T) {
	assert.Equal(t, `a\|b`, escapeCell("a|b"))
}

func TestWriter_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(Options{WordWrap: 100}).Write(&buf, FormatMarkdown, sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "prices.csv")
	assert.Contains(t, out, "Latest Closing Price")
	assert.Contains(t, out, "$114.00")
}

func TestWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(Options{}).Write(&buf, FormatJSON, sampleReport()))

	var decoded struct {
		Source    string `json:"source"`
		Dashboard struct {
			Rows int `json:"rows"`
			KPIs struct {
				LatestClose *float64 `json:"latest_close"`
				YTDReturn   *float64 `json:"ytd_return"`
			} `json:"kpis"`
		} `json:"dashboard"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "prices.csv", decoded.Source)
	assert.Equal(t, 5, decoded.Dashboard.Rows)
	require.NotNil(t, decoded.Dashboard.KPIs.LatestClose)
	assert.Equal(t, 114.0, *decoded.Dashboard.KPIs.LatestClose)
	assert.Nil(t, decoded.Dashboard.KPIs.YTDReturn)
}

func TestWriter_Errors(t *testing.T) {
	w := NewWriter(Options{})

	err := w.Write(&bytes.Buffer{}, FormatTable, Report{Source: "x.csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x.csv")

	err = w.Write(&bytes.Buffer{}, Format("html"), sampleReport())
	require.Error(t, err)
}
