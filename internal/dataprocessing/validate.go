package dataprocessing

// Standard column names of a daily price file.
const (
	ColumnDate   = "date"
	ColumnOpen   = "open"
	ColumnHigh   = "high"
	ColumnLow    = "low"
	ColumnClose  = "close"
	ColumnVolume = "volume"
)

// RequiredColumns returns the columns every uploaded file must carry, in the
// order used as the default column selection.
func RequiredColumns() []string {
	return []string{ColumnDate, ColumnClose, ColumnVolume, ColumnOpen, ColumnHigh, ColumnLow}
}

// ValidateColumns reports whether every required name is a column of t.
// Matching is exact and case-sensitive.
func ValidateColumns(t *Table, required []string) bool {
	return len(MissingColumns(t, required)) == 0
}

// MissingColumns lists the required names that are not columns of t, in the order given.
func MissingColumns(t *Table, required []string) []string {
	var missing []string
	for _, name := range required {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// RequireColumns returns a *MissingColumnsError when any required column is absent.
func RequireColumns(t *Table, required []string) error {
	if missing := MissingColumns(t, required); len(missing) > 0 {
		return &MissingColumnsError{Required: append([]string(nil), required...), Missing: missing}
	}
	return nil
}
