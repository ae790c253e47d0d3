package dataprocessing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyFile is returned when an upload has no header row.
var ErrEmptyFile = errors.New("file is empty")

// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ParseError reports that the input could not be read as a table.
type ParseError struct {
	Line int // 1-based line or sheet row, 0 when unknown
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("error reading the file: line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("error reading the file: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingColumnsError reports required columns absent from a table.
type MissingColumnsError struct {
	Required []string
	Missing  []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("the file must have the following columns: %s (missing: %s)",
		strings.Join(e.Required, ", "), strings.Join(e.Missing, ", "))
}

// ColumnNotFoundError reports selected columns that do not exist.
type ColumnNotFoundError struct {
	Columns []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column not found: %s", strings.Join(e.Columns, ", "))
}
