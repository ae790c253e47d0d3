package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// DateLayout is the canonical date format used when rendering dates.
const DateLayout = "2006-01-02"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// dateLayouts are tried in order when coercing text to dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"1/2/06",
	"1/2/06 15:04",
	"01-02-06",
	"Jan-06",
	"02-Jan-2006",
	"2-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"20060102",
}

// Load reads a table from r, choosing the reader by the extension of name.
func Load(name string, r io.Reader) (*Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt", "":
		return ParseCSV(r)
	case ".xlsx":
		return ParseXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// ParseCSV reads a comma-separated table with a header row.
func ParseCSV(r io.Reader) (*Table, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	content = bytes.TrimPrefix(content, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(content))
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, &ParseError{Line: perr.Line, Err: perr.Err}
		}
		return nil, &ParseError{Err: err}
	}
	return buildTable(records)
}

// ParseXLSX reads the first sheet of an Excel workbook with a header row.
func ParseXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("failed to open workbook: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Err: ErrEmptyFile}
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)}
	}
	if err := convertDateCells(f, sheets[0], rows); err != nil {
		return nil, &ParseError{Err: err}
	}

	// GetRows trims trailing empty cells, so pad rows out to the header width.
	if len(rows) > 0 {
		width := len(rows[0])
		for i := 1; i < len(rows); i++ {
			for len(rows[i]) < width {
				rows[i] = append(rows[i], "")
			}
		}
	}
	return buildTable(rows)
}

// convertDateCells replaces the serial numbers of date formatted cells with
// their calendar date. Rows hold raw cell values.
func convertDateCells(f *excelize.File, sheet string, rows [][]string) error {
	props, err := f.GetWorkbookProps()
	if err != nil {
		return fmt.Errorf("failed to read workbook properties: %w", err)
	}
	date1904 := props.Date1904 != nil && *props.Date1904

	isDate := make(map[int]bool)
	for i := 1; i < len(rows); i++ {
		for j, cell := range rows[i] {
			serial, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				continue
			}
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			styleID, err := f.GetCellStyle(sheet, name)
			if err != nil {
				return fmt.Errorf("failed to read style of %s: %w", name, err)
			}
			dated, ok := isDate[styleID]
			if !ok {
				style, err := f.GetStyle(styleID)
				if err != nil {
					return fmt.Errorf("failed to read style %d: %w", styleID, err)
				}
				dated = isDateStyle(style)
				isDate[styleID] = dated
			}
			if !dated {
				continue
			}
			d, err := excelize.ExcelDateToTime(serial, date1904)
			if err != nil {
				return fmt.Errorf("cell %s: %w", name, err)
			}
			rows[i][j] = d.Format(DateLayout)
		}
	}
	return nil
}

// isDateStyle reports whether a number format displays a calendar date.
func isDateStyle(style *excelize.Style) bool {
	if style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormat(*style.CustomNumFmt)
	}
	switch n := style.NumFmt; {
	case n >= 14 && n <= 17, n == 22:
		return true
	case n >= 27 && n <= 36, n >= 50 && n <= 58:
		return true
	}
	return false
}

// isDateFormat reports whether a custom format code has a day or year token
// outside quoted literals and bracketed sections.
func isDateFormat(code string) bool {
	var quoted, bracket bool
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '[':
			bracket = true
		case r == ']':
			bracket = false
		case bracket:
		case r == 'd' || r == 'y':
			return true
		}
	}
	return false
}

func buildTable(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, &ParseError{Err: ErrEmptyFile}
	}

	header := records[0]
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			return nil, &ParseError{Line: 1, Err: fmt.Errorf("column %d has an empty header", i+1)}
		}
		if seen[h] {
			return nil, &ParseError{Line: 1, Err: fmt.Errorf("duplicate column %q", h)}
		}
		seen[h] = true
		header[i] = h
	}

	body := records[1:]
	cols := make([]*Column, len(header))
	for j, name := range header {
		raw := make([]string, len(body))
		for i, rec := range body {
			if len(rec) != len(header) {
				return nil, &ParseError{Line: i + 2, Err: fmt.Errorf("expected %d fields, got %d", len(header), len(rec))}
			}
			raw[i] = strings.TrimSpace(rec[j])
		}
		cols[j] = inferColumn(name, raw)
	}

	t, err := NewTable(cols...)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	t.rows = len(body)
	return t, nil
}

// inferColumn types a column as number, then date, falling back to text.
// Blank cells do not affect inference. A column of only blanks is numeric.
func inferColumn(name string, raw []string) *Column {
	numbers := make([]float64, len(raw))
	isNumber := true
	for i, cell := range raw {
		if cell == "" {
			numbers[i] = math.NaN()
			continue
		}
		v, ok := parseNumber(cell)
		if !ok {
			isNumber = false
			break
		}
		numbers[i] = v
	}
	if isNumber {
		return &Column{Name: name, Kind: KindNumber, Raw: raw, Numbers: numbers}
	}

	if dates, ok := coerceDates(raw); ok {
		return &Column{Name: name, Kind: KindDate, Raw: raw, Dates: dates}
	}
	return &Column{Name: name, Kind: KindText, Raw: raw}
}

// coerceDates parses every non-blank cell as a date. It reports the first
// failing position through ok=false.
func coerceDates(raw []string) ([]time.Time, bool) {
	dates, bad := parseDates(raw)
	return dates, bad < 0
}

func parseDates(raw []string) ([]time.Time, int) {
	dates := make([]time.Time, len(raw))
	for i, cell := range raw {
		if cell == "" {
			continue
		}
		d, ok := ParseDate(cell)
		if !ok {
			return nil, i
		}
		dates[i] = d
	}
	return dates, -1
}

// ParseDate parses s in any supported layout and truncates it to a UTC calendar day.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// parseNumber parses s as a float, accepting thousands separators.
func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func formatNumber(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
