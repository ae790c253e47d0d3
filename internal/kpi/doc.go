// Package kpi computes key performance indicators over a filtered price table
// and renders them as display cards.
//
// Every indicator orders the rows by date (stable) before reading them and
// degrades to an absent value instead of failing when its columns or rows are
// missing. Compute is the entry point used by the dashboard; it requires the
// date and close columns.
package kpi
