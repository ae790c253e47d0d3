package dataprocessing

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `date,open,high,low,close,volume
2024-01-01,100,105,99,100,1000
2024-01-02,100,112,98,110,2000
2024-01-03,110,111,101,105,1500
`

func TestParseCSV(t *testing.T) {
	table, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"date", "open", "high", "low", "close", "volume"}, table.Columns())

	date, ok := table.Column("date")
	require.True(t, ok)
	assert.Equal(t, KindDate, date.Kind)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), date.Dates[1])

	closes, ok := table.Numbers("close")
	require.True(t, ok)
	assert.Equal(t, []float64{100, 110, 105}, closes)
}

func TestParseCSV_BOMAndWhitespace(t *testing.T) {
	input := "\ufeff date , close \n2024-01-01, 1,500\n"
	_, err := ParseCSV(strings.NewReader(input))
	// "1,500" without quotes is two fields
	var perr *ParseError
	require.ErrorAs(t, err, &perr)

	input = "\ufeffdate, close\n2024-01-01,\"1,500\"\n"
	table, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "close"}, table.Columns())
	closes, _ := table.Numbers("close")
	assert.Equal(t, []float64{1500}, closes)
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		errContains string
	}{
		{name: "empty input", input: "", errContains: "file is empty"},
		{name: "ragged row", input: "date,close\n2024-01-01,1,2\n", errContains: "line 2"},
		{name: "bare quote", input: "date,close\n2024-01-01,\"1\n", errContains: "error reading the file"},
		{name: "duplicate header", input: "date,date\n1,2\n", errContains: "duplicate column"},
		{name: "empty header", input: "date,,close\n1,2,3\n", errContains: "empty header"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			var perr *ParseError
			assert.True(t, errors.As(err, &perr))
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestParseCSV_ColumnInference(t *testing.T) {
	input := "date,close,ticker,mixed\n2024-01-01,1.5,AAA,1\n2024-01-02,,BBB,x\n"
	table, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	kinds := map[string]Kind{}
	for _, name := range table.Columns() {
		c, _ := table.Column(name)
		kinds[name] = c.Kind
	}
	assert.Equal(t, map[string]Kind{
		"date":   KindDate,
		"close":  KindNumber,
		"ticker": KindText,
		"mixed":  KindText,
	}, kinds)

	closes, _ := table.Numbers("close")
	assert.True(t, math.IsNaN(closes[1]))
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"date", "open", "high", "low", "close", "volume"},
		{"2024-01-01", 100, 105, 99, 100, 1000},
		{"2024-01-02", 100, 112, 98, 110, 2000},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	table, err := Load("prices.xlsx", &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	volumes, _ := table.Numbers("volume")
	assert.Equal(t, []float64{1000, 2000}, volumes)
}

func TestParseXLSX_NativeDates(t *testing.T) {
	custom := "mmm-yy"
	tests := []struct {
		name  string
		style *excelize.Style
	}{
		{name: "default time style"},
		{name: "short date", style: &excelize.Style{NumFmt: 14}},
		{name: "date time", style: &excelize.Style{NumFmt: 22}},
		{name: "custom month year", style: &excelize.Style{CustomNumFmt: &custom}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := excelize.NewFile()
			sheet := f.GetSheetName(0)
			require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"date", "close", "volume"}))
			for i, day := range []int{1, 2, 3} {
				row := i + 2
				dateCell, _ := excelize.CoordinatesToCellName(1, row)
				require.NoError(t, f.SetCellValue(sheet, dateCell, time.Date(2023, 1, day, 0, 0, 0, 0, time.UTC)))
				if tt.style != nil {
					styleID, err := f.NewStyle(tt.style)
					require.NoError(t, err)
					require.NoError(t, f.SetCellStyle(sheet, dateCell, dateCell, styleID))
				}
				closeCell, _ := excelize.CoordinatesToCellName(2, row)
				require.NoError(t, f.SetSheetRow(sheet, closeCell, &[]any{100 + day, 1000}))
			}
			var buf bytes.Buffer
			require.NoError(t, f.Write(&buf))

			table, err := Load("prices.xlsx", &buf)
			require.NoError(t, err)
			col, ok := table.Column("date")
			require.True(t, ok)
			assert.Equal(t, KindDate, col.Kind)
			assert.Equal(t, []string{"2023-01-01", "2023-01-02", "2023-01-03"}, col.Raw)

			filtered, err := FilterByDate(table,
				time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
				time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC))
			require.NoError(t, err)
			assert.Equal(t, 2, filtered.Len())
			closes, _ := filtered.Numbers("close")
			assert.Equal(t, []float64{102, 103}, closes)
		})
	}
}

func TestIsDateFormat(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{code: "yyyy-mm-dd", want: true},
		{code: "[$-409]d-mmm-yy;@", want: true},
		{code: "mmm-yy", want: true},
		{code: "#,##0.00", want: false},
		{code: "h:mm:ss", want: false},
		{code: `0.00 "days"`, want: false},
		{code: "[Red]0.00", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, isDateFormat(tt.code))
		})
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load("prices.json", strings.NewReader("{}"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{"2024-03-05", "2024-03-05 13:45:00", "2024/03/05", "03/05/2024", "5-Mar-2024", "20240305", "3/5/24", "3/5/24 13:45", "03-05-24"} {
		got, ok := ParseDate(s)
		assert.True(t, ok, s)
		assert.Equal(t, want, got, s)
	}
	monthOnly, ok := ParseDate("Mar-24")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), monthOnly)

	_, ok = ParseDate("not a date")
	assert.False(t, ok)
}
