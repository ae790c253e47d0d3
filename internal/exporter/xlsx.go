package exporter

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/dataprocessing"
)

// SheetName is the name of the single exported sheet
const SheetName = "Data"

const xlsxDateFormat = "yyyy-mm-dd"

// WriteXLSX writes t as a single-sheet workbook
func WriteXLSX(w io.Writer, t *dataprocessing.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	dateFormat := xlsxDateFormat
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFormat})
	if err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	columns := tableColumns(t)
	header := make([]any, len(columns))
	for j, c := range columns {
		header[j] = excelize.Cell{StyleID: headerStyle, Value: c.Name}
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{Height: 18}); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	row := make([]any, len(columns))
	for i := 0; i < t.Len(); i++ {
		for j, c := range columns {
			row[j] = xlsxCell(c, i, dateStyle)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// xlsxCell converts one cell to its typed workbook value. Blanks stay empty.
func xlsxCell(c *dataprocessing.Column, i int, dateStyle int) any {
	switch c.Kind {
	case dataprocessing.KindNumber:
		v := c.Numbers[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return v
	case dataprocessing.KindDate:
		d := c.Dates[i]
		if d.IsZero() {
			return nil
		}
		return excelize.Cell{StyleID: dateStyle, Value: d}
	default:
		return c.Raw[i]
	}
}
