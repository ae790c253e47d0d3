package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/dataprocessing"
)

// utf8BOM helps Excel recognize UTF-8
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes t as CSV with a header row
func WriteCSV(w io.Writer, t *dataprocessing.Table) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)

	if err := writer.Write(t.Columns()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	columns := tableColumns(t)
	record := make([]string, len(columns))
	for i := 0; i < t.Len(); i++ {
		for j, c := range columns {
			record[j] = CellText(c, i)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// CellText renders cell i of c for text output. Dates use the YYYY-MM-DD
// layout; other cells keep their source text.
func CellText(c *dataprocessing.Column, i int) string {
	if c.Kind == dataprocessing.KindDate {
		if d := c.Dates[i]; !d.IsZero() {
			return d.Format(dataprocessing.DateLayout)
		}
		return ""
	}
	return c.Raw[i]
}

func tableColumns(t *dataprocessing.Table) []*dataprocessing.Column {
	names := t.Columns()
	columns := make([]*dataprocessing.Column, len(names))
	for i, name := range names {
		columns[i], _ = t.Column(name)
	}
	return columns
}
