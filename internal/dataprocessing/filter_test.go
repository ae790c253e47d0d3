package dataprocessing

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSample(t *testing.T, input string) *Table {
	t.Helper()
	table, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	return table
}

func day2024(month time.Month, d int) time.Time {
	return time.Date(2024, month, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateColumns(t *testing.T) {
	table := loadSample(t, sampleCSV)
	assert.True(t, ValidateColumns(table, RequiredColumns()))
	assert.True(t, ValidateColumns(table, nil))

	partial := loadSample(t, "date,Close\n2024-01-01,1\n")
	assert.False(t, ValidateColumns(partial, []string{"date", "close"}))

	err := RequireColumns(partial, RequiredColumns())
	var mce *MissingColumnsError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, []string{"close", "volume", "open", "high", "low"}, mce.Missing)
	assert.Contains(t, err.Error(), "date, close, volume, open, high, low")
}

func TestFilterByDate(t *testing.T) {
	unsorted := `date,close
2024-01-03,3
2024-01-01,1
2024-01-05,5
2024-01-02,2
`
	table := loadSample(t, unsorted)

	tests := []struct {
		name   string
		start  time.Time
		end    time.Time
		closes []float64
	}{
		{name: "closed interval keeps both ends, no sort", start: day2024(1, 2), end: day2024(1, 3), closes: []float64{3, 2}},
		{name: "single day", start: day2024(1, 5), end: day2024(1, 5), closes: []float64{5}},
		{name: "covers everything", start: day2024(1, 1), end: day2024(12, 31), closes: []float64{3, 1, 5, 2}},
		{name: "inverted range is empty", start: day2024(1, 5), end: day2024(1, 1), closes: []float64{}},
		{name: "time of day ignored", start: day2024(1, 3).Add(15 * time.Hour), end: day2024(1, 3).Add(time.Hour), closes: []float64{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FilterByDate(table, tt.start, tt.end)
			require.NoError(t, err)
			closes, _ := got.Numbers("close")
			assert.Equal(t, tt.closes, closes)
		})
	}

	// source table untouched
	assert.Equal(t, 4, table.Len())
}

func TestFilterByDate_CoercesTextDates(t *testing.T) {
	table, err := NewTable(
		TextColumn("date", []string{"2024-01-01", "2024/01/02"}),
		NumberColumn("close", []float64{1, 2}),
	)
	require.NoError(t, err)

	got, err := FilterByDate(table, day2024(1, 2), day2024(1, 2))
	require.NoError(t, err)
	c, _ := got.Column("date")
	assert.Equal(t, KindDate, c.Kind)
	assert.Equal(t, []string{"2024-01-02"}, c.Raw)
}

func TestFilterByDate_Errors(t *testing.T) {
	noDate := loadSample(t, "close\n1\n")
	_, err := FilterByDate(noDate, day2024(1, 1), day2024(1, 2))
	var cnf *ColumnNotFoundError
	assert.ErrorAs(t, err, &cnf)

	badDate := loadSample(t, "date,close\n2024-01-01,1\nyesterday,2\n")
	_, err = FilterByDate(badDate, day2024(1, 1), day2024(1, 2))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3, perr.Line)
}

func TestFilterByRows(t *testing.T) {
	table := loadSample(t, sampleCSV)

	tests := []struct {
		name       string
		start, end int
		closes     []float64
	}{
		{name: "half open", start: 0, end: 2, closes: []float64{100, 110}},
		{name: "full", start: 0, end: 3, closes: []float64{100, 110, 105}},
		{name: "empty when equal", start: 1, end: 1, closes: []float64{}},
		{name: "clamped past end", start: 2, end: 10, closes: []float64{105}},
		{name: "negative start clamped", start: -3, end: 1, closes: []float64{100}},
		{name: "inverted is empty", start: 2, end: 1, closes: []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByRows(table, tt.start, tt.end)
			closes, _ := got.Numbers("close")
			assert.Equal(t, tt.closes, closes)
			assert.Equal(t, table.Columns(), got.Columns())
		})
	}
}

func TestFilterByColumns(t *testing.T) {
	table := loadSample(t, sampleCSV)

	got, err := FilterByColumns(table, []string{"close", "date"})
	require.NoError(t, err)
	assert.Equal(t, []string{"close", "date"}, got.Columns())
	assert.Equal(t, 3, got.Len())

	again, err := FilterByColumns(got, []string{"close", "date"})
	require.NoError(t, err)
	assert.Equal(t, got.Columns(), again.Columns())
	assert.Equal(t, got.Row(0), again.Row(0))

	_, err = FilterByColumns(table, []string{"date", "adj_close"})
	var cnf *ColumnNotFoundError
	require.ErrorAs(t, err, &cnf)
	assert.Equal(t, []string{"adj_close"}, cnf.Columns)
}

func TestDateBounds(t *testing.T) {
	table := loadSample(t, "date,close\n2024-01-03,1\n2024-01-01,2\n")
	min, max, ok := DateBounds(table)
	require.True(t, ok)
	assert.Equal(t, day2024(1, 1), min)
	assert.Equal(t, day2024(1, 3), max)

	_, _, ok = DateBounds(loadSample(t, "close\n1\n"))
	assert.False(t, ok)
}
