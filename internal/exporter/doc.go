// Package exporter writes a filtered price table for download.
//
// Two formats are supported:
//
//   - CSV: UTF-8 with a byte order mark so spreadsheet tools detect the
//     encoding, dates rendered as YYYY-MM-DD.
//   - XLSX: a single "Data" sheet with a bold header row, numeric cells
//     stored as numbers and date cells as dates.
//
// Example usage:
//
//	format, err := exporter.ParseFormat("xlsx")
//	if err != nil {
//	    return err
//	}
//	w.Header().Set("Content-Type", format.ContentType())
//	err = exporter.Write(w, format, table)
package exporter
