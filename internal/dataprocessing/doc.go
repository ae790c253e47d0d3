// Package dataprocessing loads daily stock price files into tables and filters them.
//
// # Architecture
//
// The package has three parts:
//
// 1. Table: an immutable, column-oriented table with typed columns
// 2. Loader: reads CSV or XLSX uploads and validates required columns
// 3. Filters: date range, row range and column projection
//
// # Usage
//
//	table, err := dataprocessing.Load("prices.csv", file)
//	if err != nil {
//	    return err
//	}
//	if err := dataprocessing.RequireColumns(table, dataprocessing.RequiredColumns()); err != nil {
//	    return err
//	}
//	filtered, err := dataprocessing.FilterByDate(table, start, end)
//	filtered = dataprocessing.FilterByRows(filtered, 0, 50)
//	filtered, err = dataprocessing.FilterByColumns(filtered, []string{"date", "close"})
//
// # Data Flow
//
//	Upload → Loader → Table → FilterByDate → FilterByRows → FilterByColumns → KPIs / Charts
//
// # Error Handling
//
//   - *ParseError: the input is not a readable table
//   - *MissingColumnsError: required columns are absent, listing them
//   - *ColumnNotFoundError: a selected or sorted column does not exist
//
// # Column Types
//
// Each column is typed on load. A column whose non-blank cells all parse as
// numbers (thousands separators allowed) is numeric; otherwise one whose cells
// all parse as dates is a date column; anything else is text. Blank numeric
// cells are NaN.
package dataprocessing
