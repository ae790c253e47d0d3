package dataprocessing

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Kind is the inferred type of a column.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindDate
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "text"
	}
}

// Column is a named, typed column. Raw always holds the cell text; Numbers is
// populated for KindNumber (NaN for blanks) and Dates for KindDate (zero time
// for blanks).
type Column struct {
	Name    string
	Kind    Kind
	Raw     []string
	Numbers []float64
	Dates   []time.Time
}

// Len returns the number of cells in the column
func (c *Column) Len() int {
	return len(c.Raw)
}

// NumberColumn builds a numeric column. Raw cells are rendered from values.
func NumberColumn(name string, values []float64) *Column {
	raw := make([]string, len(values))
	for i, v := range values {
		raw[i] = formatNumber(v)
	}
	return &Column{Name: name, Kind: KindNumber, Raw: raw, Numbers: append([]float64(nil), values...)}
}

// DateColumn builds a date column.
func DateColumn(name string, values []time.Time) *Column {
	raw := make([]string, len(values))
	for i, v := range values {
		if !v.IsZero() {
			raw[i] = v.Format(DateLayout)
		}
	}
	return &Column{Name: name, Kind: KindDate, Raw: raw, Dates: append([]time.Time(nil), values...)}
}

// TextColumn builds a text column.
func TextColumn(name string, values []string) *Column {
	return &Column{Name: name, Kind: KindText, Raw: append([]string(nil), values...)}
}

// take returns a new column holding the cells at the given positions.
func (c *Column) take(idx []int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind, Raw: make([]string, len(idx))}
	for i, j := range idx {
		out.Raw[i] = c.Raw[j]
	}
	if c.Numbers != nil {
		out.Numbers = make([]float64, len(idx))
		for i, j := range idx {
			out.Numbers[i] = c.Numbers[j]
		}
	}
	if c.Dates != nil {
		out.Dates = make([]time.Time, len(idx))
		for i, j := range idx {
			out.Dates[i] = c.Dates[j]
		}
	}
	return out
}

// Table is an immutable, column-oriented set of rows with unique column names.
// All operations return new tables and never modify their receiver.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// NewTable builds a table from columns of equal length with unique names.
func NewTable(columns ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(columns))}
	for i, c := range columns {
		if c.Name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := t.index[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", c.Name)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", c.Name, c.Len(), t.rows)
		}
		t.index[c.Name] = i
		t.columns = append(t.columns, c)
	}
	return t, nil
}

func mustTable(columns ...*Column) *Table {
	t, err := NewTable(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of rows
func (t *Table) Len() int {
	return t.rows
}

// Columns returns the column names in order
func (t *Table) Columns() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether name is a column of t
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column. Callers must not modify it.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Numbers returns a copy of the named column as floats. Non-numeric columns
// are converted cell by cell; cells that are not numbers become NaN.
func (t *Table) Numbers(name string) ([]float64, bool) {
	c, ok := t.Column(name)
	if !ok {
		return nil, false
	}
	if c.Kind == KindNumber {
		out := make([]float64, len(c.Numbers))
		copy(out, c.Numbers)
		return out, true
	}
	out := make([]float64, c.Len())
	for i, raw := range c.Raw {
		v, ok := parseNumber(raw)
		if !ok {
			v = math.NaN()
		}
		out[i] = v
	}
	return out, true
}

// Row returns the raw cell text of row i in column order.
func (t *Table) Row(i int) []string {
	row := make([]string, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.Raw[i]
	}
	return row
}

// Take returns a new table with the rows at the given positions, in that order.
func (t *Table) Take(idx []int) *Table {
	cols := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c.take(idx)
	}
	out := mustTable(cols...)
	out.rows = len(idx)
	return out
}

// Slice returns rows [start, end). Bounds are clamped to the table.
func (t *Table) Slice(start, end int) *Table {
	start = clamp(start, 0, t.rows)
	end = clamp(end, start, t.rows)
	idx := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		idx = append(idx, i)
	}
	return t.Take(idx)
}

// Select returns a new table with the named columns in the given order.
func (t *Table) Select(names []string) (*Table, error) {
	var missing []string
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		c, ok := t.Column(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols = append(cols, c)
	}
	if len(missing) > 0 {
		return nil, &ColumnNotFoundError{Columns: missing}
	}
	out, err := NewTable(cols...)
	if err != nil {
		return nil, err
	}
	out.rows = t.rows
	return out, nil
}

// WithColumn returns a new table with c appended, or replacing the column of
// the same name in place.
func (t *Table) WithColumn(c *Column) (*Table, error) {
	if len(t.columns) > 0 && c.Len() != t.rows {
		return nil, fmt.Errorf("column %q has %d rows, expected %d", c.Name, c.Len(), t.rows)
	}
	cols := append([]*Column(nil), t.columns...)
	if i, ok := t.index[c.Name]; ok {
		cols[i] = c
	} else {
		cols = append(cols, c)
	}
	return NewTable(cols...)
}

// SortStable returns a new table ordered ascending by the named column.
// Equal keys keep their relative order; blank or unparseable keys sort last.
func (t *Table) SortStable(name string) (*Table, error) {
	c, ok := t.Column(name)
	if !ok {
		return nil, &ColumnNotFoundError{Columns: []string{name}}
	}
	idx := make([]int, t.rows)
	for i := range idx {
		idx[i] = i
	}
	var less func(a, b int) bool
	switch c.Kind {
	case KindNumber:
		less = func(a, b int) bool {
			x, y := c.Numbers[a], c.Numbers[b]
			if math.IsNaN(y) {
				return !math.IsNaN(x)
			}
			return x < y
		}
	case KindDate:
		less = func(a, b int) bool {
			x, y := c.Dates[a], c.Dates[b]
			if y.IsZero() {
				return !x.IsZero()
			}
			return !x.IsZero() && x.Before(y)
		}
	default:
		less = func(a, b int) bool {
			x, y := c.Raw[a], c.Raw[b]
			if y == "" {
				return x != ""
			}
			return x != "" && x < y
		}
	}
	sort.SliceStable(idx, func(i, j int) bool { return less(idx[i], idx[j]) })
	return t.Take(idx), nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
