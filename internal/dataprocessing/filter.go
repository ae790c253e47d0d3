package dataprocessing

import (
	"fmt"
	"time"
)

// DateRange is a closed interval of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Inverted reports whether the range starts after it ends.
func (r DateRange) Inverted() bool {
	return day(r.Start).After(day(r.End))
}

// Contains reports whether d falls on a day within the range.
func (r DateRange) Contains(d time.Time) bool {
	d = day(d)
	return !d.Before(day(r.Start)) && !d.After(day(r.End))
}

// DateBounds returns the earliest and latest dates of the date column.
// ok is false when the column is missing, cannot be coerced, or has no dates.
func DateBounds(t *Table) (min, max time.Time, ok bool) {
	dates, err := Dates(t)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		if min.IsZero() || d.Before(min) {
			min = d
		}
		if max.IsZero() || d.After(max) {
			max = d
		}
	}
	return min, max, !min.IsZero()
}

// Dates returns the date column coerced to calendar days. Blank cells are the zero time.
func Dates(t *Table) ([]time.Time, error) {
	c, ok := t.Column(ColumnDate)
	if !ok {
		return nil, &ColumnNotFoundError{Columns: []string{ColumnDate}}
	}
	if c.Kind == KindDate {
		return append([]time.Time(nil), c.Dates...), nil
	}
	dates, bad := parseDates(c.Raw)
	if bad >= 0 {
		return nil, &ParseError{Line: bad + 2, Err: fmt.Errorf("cannot parse %q as a date", c.Raw[bad])}
	}
	return dates, nil
}

// FilterByDate keeps the rows whose date lies within [start, end], inclusive on
// both ends at day granularity. Row order is preserved and nothing is sorted.
// The date column of the result is typed as dates. An inverted range yields an
// empty table.
func FilterByDate(t *Table, start, end time.Time) (*Table, error) {
	dates, err := Dates(t)
	if err != nil {
		return nil, err
	}
	rng := DateRange{Start: start, End: end}
	var idx []int
	for i, d := range dates {
		if !d.IsZero() && rng.Contains(d) {
			idx = append(idx, i)
		}
	}

	typed, err := t.WithColumn(DateColumn(ColumnDate, dates))
	if err != nil {
		return nil, err
	}
	return typed.Take(idx), nil
}

// FilterByRows returns the rows at positions [start, end). Both positions are
// clamped to the table, and end to at least start, so an inverted range is empty.
func FilterByRows(t *Table, start, end int) *Table {
	return t.Slice(start, end)
}

// FilterByColumns projects t onto columns, in the given order. Unknown names
// yield a *ColumnNotFoundError.
func FilterByColumns(t *Table, columns []string) (*Table, error) {
	return t.Select(columns)
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
