package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/charts"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/config"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/dataprocessing"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/datasets"
	apierrors "github.com/waqarulwahab/stock-data-visualizer-web-app/internal/errors"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/exporter"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/infrastructure"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/kpi"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/validation"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/pkg/contracts/domain"
)

// User-facing warnings
const (
	warnDateNotSelected   = "The 'date' column must be selected for plotting."
	warnKPIColumnsMissing = "The dataframe must contain 'date' and 'close' columns to calculate KPIs."
	warnPercentUndefined  = "The previous close is zero, so the daily change percentage is undefined."
)

// DatasetStore keeps uploaded tables between requests
type DatasetStore interface {
	Put(filename string, size int64, t *dataprocessing.Table) (datasets.Entry, error)
	Get(id string) (datasets.Entry, error)
	Delete(id string) error
	Len() int
}

// StructValidator validates tagged request structs
type StructValidator interface {
	ValidateStruct(s any) error
}

// Selection is a table after the date, row and column filters
type Selection struct {
	Table    *dataprocessing.Table
	Applied  domain.AppliedConfig
	Warnings []string
}

// ExportFile is a rendered table download
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DashboardService runs the upload, filter, KPI and chart pipeline
type DashboardService struct {
	store     DatasetStore
	files     *validation.FileValidator
	validator StructValidator
	formatter *kpi.Formatter
	defaults  config.DashboardConfig
	tracer    *DashboardTracer
	logger    *slog.Logger
}

// NewDashboardService creates the service. store may be nil for one-shot use,
// in which case only the stateless operations are available.
func NewDashboardService(
	store DatasetStore,
	files *validation.FileValidator,
	validator StructValidator,
	defaults config.DashboardConfig,
	tracer *DashboardTracer,
	logger *slog.Logger,
) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = NewDashboardTracer(nil, nil)
	}

	logger = logger.With(slog.String("component", "dashboard_service"))
	logger.Info("DashboardService initialized",
		slog.String("currency", defaults.Currency),
		slog.Int64("max_upload_bytes", files.MaxBytes()),
		slog.Any("extensions", files.Extensions()))

	return &DashboardService{
		store:     store,
		files:     files,
		validator: validator,
		formatter: kpi.NewFormatter(defaults.Currency),
		defaults:  defaults,
		tracer:    tracer,
		logger:    logger,
	}
}

// Upload validates, parses and stores a price file
func (s *DashboardService) Upload(ctx context.Context, filename string, r io.Reader) (domain.DatasetInfo, error) {
	if s.store == nil {
		return domain.DatasetInfo{}, ErrServiceUnavailable
	}

	ctx, span := s.tracer.TraceUpload(ctx, filename)
	defer span.End()

	table, size, err := s.LoadTable(ctx, filename, r)
	if err != nil {
		s.tracer.RecordUploadCompletion(ctx, span, size, 0, err)
		return domain.DatasetInfo{}, err
	}

	entry, err := s.store.Put(filename, size, table)
	if err != nil {
		s.tracer.RecordUploadCompletion(ctx, span, size, table.Len(), err)
		return domain.DatasetInfo{}, fmt.Errorf("failed to store dataset: %w", err)
	}
	s.tracer.RecordUploadCompletion(ctx, span, size, table.Len(), nil)

	infrastructure.WithDataset(infrastructure.LoggerWithContext(ctx, s.logger), entry.ID).Info("dataset uploaded",
		slog.String("filename", filename),
		slog.Int64("size", size),
		slog.Int("rows", table.Len()),
		slog.Int("datasets", s.store.Len()))

	return datasetInfo(entry), nil
}

// Dataset describes a stored dataset
func (s *DashboardService) Dataset(ctx context.Context, id string) (domain.DatasetInfo, error) {
	entry, err := s.entry(id)
	if err != nil {
		return domain.DatasetInfo{}, err
	}
	return datasetInfo(entry), nil
}

// Delete discards a stored dataset
func (s *DashboardService) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return ErrServiceUnavailable
	}
	if err := s.store.Delete(id); err != nil {
		return notFound(id, err)
	}
	infrastructure.WithDataset(infrastructure.LoggerWithContext(ctx, s.logger), id).Info("dataset deleted")
	return nil
}

// Dashboard builds the dashboard for a stored dataset
func (s *DashboardService) Dashboard(ctx context.Context, id string, cfg domain.DashboardConfig) (*domain.Dashboard, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	d, err := s.build(ctx, id, entry.Table, cfg)
	if err != nil {
		return nil, err
	}
	d.DatasetID = id
	return d, nil
}

// DashboardFromFile parses a price file and builds its dashboard without
// storing anything.
func (s *DashboardService) DashboardFromFile(ctx context.Context, filename string, r io.Reader, cfg domain.DashboardConfig) (*domain.Dashboard, error) {
	table, _, err := s.LoadTable(ctx, filename, r)
	if err != nil {
		return nil, err
	}
	return s.build(ctx, "", table, cfg)
}

// Build runs the filter, KPI and chart stages over an already loaded table
func (s *DashboardService) Build(ctx context.Context, t *dataprocessing.Table, cfg domain.DashboardConfig) (*domain.Dashboard, error) {
	return s.build(ctx, "", t, cfg)
}

// Export renders the filtered table of a stored dataset as a file download
func (s *DashboardService) Export(ctx context.Context, id string, cfg domain.DashboardConfig, format exporter.Format) (*ExportFile, error) {
	ctx, span := s.tracer.TraceExport(ctx, id, string(format))
	defer span.End()

	file, err := s.export(id, cfg, format)
	size := 0
	if file != nil {
		size = len(file.Data)
	}
	s.tracer.RecordExportCompletion(ctx, span, string(format), size, err)
	if err != nil {
		return nil, err
	}

	infrastructure.WithDataset(infrastructure.LoggerWithContext(ctx, s.logger), id).Info("dataset exported",
		slog.String("format", string(format)),
		slog.Int("size", size))
	return file, nil
}

func (s *DashboardService) export(id string, cfg domain.DashboardConfig, format exporter.Format) (*ExportFile, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	sel, err := s.Select(entry.Table, cfg)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := exporter.Write(&buf, format, sel.Table); err != nil {
		return nil, apierrors.NewExportError("failed to export dataset", err).
			WithContext("format", string(format))
	}
	return &ExportFile{
		Filename:    format.Filename(entry.Filename),
		ContentType: format.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

// LoadTable validates and parses a price file and checks its required
// columns. The returned size is the number of bytes read.
func (s *DashboardService) LoadTable(ctx context.Context, filename string, r io.Reader) (*dataprocessing.Table, int64, error) {
	data, err := s.files.ReadUpload(filename, r)
	if err != nil {
		return nil, int64(len(data)), err
	}
	size := int64(len(data))

	table, err := dataprocessing.Load(filename, bytes.NewReader(data))
	if err != nil {
		s.logger.WarnContext(ctx, "failed to parse upload",
			slog.String("filename", filename),
			slog.String("error", err.Error()))
		return nil, size, err
	}
	if err := dataprocessing.RequireColumns(table, dataprocessing.RequiredColumns()); err != nil {
		s.logger.WarnContext(ctx, "upload is missing required columns",
			slog.String("filename", filename),
			slog.Any("columns", table.Columns()))
		return nil, size, err
	}
	return table, size, nil
}

// Select applies the date, row and column filters of cfg to t. Unset values
// select the full date span, every row and the required columns.
func (s *DashboardService) Select(t *dataprocessing.Table, cfg domain.DashboardConfig) (*Selection, error) {
	if err := s.validate(cfg); err != nil {
		return nil, err
	}

	minDate, maxDate, ok := dataprocessing.DateBounds(t)
	if !ok {
		// Surface the coercion error, if that is why there are no bounds
		if _, err := dataprocessing.Dates(t); err != nil {
			return nil, err
		}
	}
	start, err := parseDay("start_date", cfg.StartDate, minDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDay("end_date", cfg.EndDate, maxDate)
	if err != nil {
		return nil, err
	}

	sel := &Selection{}
	if (dataprocessing.DateRange{Start: start, End: end}).Inverted() {
		sel.Warnings = append(sel.Warnings, fmt.Sprintf(
			"The start date %s is after the end date %s, so no rows are selected.",
			start.Format(domain.DateLayout), end.Format(domain.DateLayout)))
	}
	filtered, err := dataprocessing.FilterByDate(t, start, end)
	if err != nil {
		return nil, err
	}

	n := filtered.Len()
	startRow, endRow := 0, n
	if cfg.StartRow != nil {
		startRow = *cfg.StartRow
	}
	if cfg.EndRow != nil {
		endRow = *cfg.EndRow
	}
	startRow, endRow = clamp(startRow, 0, n), clamp(endRow, 0, n)
	if startRow > endRow {
		sel.Warnings = append(sel.Warnings, fmt.Sprintf(
			"The start row %d is after the end row %d, so no rows are selected.", startRow, endRow))
		startRow = endRow
	}
	filtered = dataprocessing.FilterByRows(filtered, startRow, endRow)

	columns := cfg.Columns
	if len(columns) == 0 {
		columns = dataprocessing.RequiredColumns()
	}
	filtered, err = dataprocessing.FilterByColumns(filtered, columns)
	if err != nil {
		return nil, err
	}
	if !filtered.HasColumn(dataprocessing.ColumnDate) {
		sel.Warnings = append(sel.Warnings, warnDateNotSelected)
	}

	sel.Table = filtered
	sel.Applied = domain.AppliedConfig{
		StartDate: formatDay(start),
		EndDate:   formatDay(end),
		StartRow:  startRow,
		EndRow:    endRow,
		Columns:   filtered.Columns(),
		Charts:    uniqueCharts(cfg.Charts),
	}
	return sel, nil
}

func (s *DashboardService) build(ctx context.Context, id string, t *dataprocessing.Table, cfg domain.DashboardConfig) (*domain.Dashboard, error) {
	ctx, span := s.tracer.TraceDashboard(ctx, id, len(cfg.Charts))
	defer span.End()
	started := time.Now()

	sel, err := s.Select(t, cfg)
	if err != nil {
		s.tracer.RecordDashboardCompletion(ctx, span, time.Since(started), 0, nil, err)
		return nil, err
	}

	d := &domain.Dashboard{
		Config:   sel.Applied,
		Rows:     sel.Table.Len(),
		Columns:  sel.Table.Columns(),
		Charts:   []domain.ChartSpec{},
		Warnings: sel.Warnings,
	}

	set, err := kpi.Compute(sel.Table, kpi.Options{
		AverageVolumeDays:    s.defaults.AverageVolumeDays,
		MovingAverageWindows: s.defaults.MovingAverageWindows,
	})
	if err != nil {
		d.Warnings = append(d.Warnings, warnKPIColumnsMissing)
	} else {
		d.KPIs = &set
		d.Cards = s.formatter.Cards(set)
		if set.DailyChange.PercentUndefined {
			d.Warnings = append(d.Warnings, warnPercentUndefined)
		}
	}

	params := s.chartParams(cfg.Params)
	var failed []string
	for _, kind := range sel.Applied.Charts {
		spec, err := charts.Build(kind, sel.Table, params)
		if err != nil {
			chartErr := domain.ChartError{Kind: kind, Message: err.Error()}
			var missing *charts.MissingChartColumnsError
			if errors.As(err, &missing) {
				chartErr.Missing = missing.Missing
			}
			d.ChartErrors = append(d.ChartErrors, chartErr)
			failed = append(failed, string(kind))
			s.logger.DebugContext(ctx, "chart skipped",
				slog.String("chart", string(kind)),
				slog.String("reason", err.Error()))
			continue
		}
		d.Charts = append(d.Charts, spec)
	}

	if cfg.ShowTable {
		d.Table = s.tableData(sel.Table, &d.Warnings)
	}

	duration := time.Since(started)
	s.tracer.RecordDashboardCompletion(ctx, span, duration, d.Rows, failed, nil)
	infrastructure.LoggerWithContext(ctx, s.logger).Debug("dashboard built",
		slog.String("dataset_id", id),
		slog.Int("rows", d.Rows),
		slog.Int("charts", len(d.Charts)),
		slog.Int("chart_errors", len(d.ChartErrors)),
		slog.Duration("duration", duration))
	return d, nil
}

// tableData renders the selection for display, capped at MaxTableRows
func (s *DashboardService) tableData(t *dataprocessing.Table, warnings *[]string) *domain.TableData {
	n := t.Len()
	if limit := s.defaults.MaxTableRows; limit > 0 && n > limit {
		*warnings = append(*warnings, fmt.Sprintf("Showing the first %d of %d rows; export the data to see all of it.", limit, n))
		n = limit
	}

	names := t.Columns()
	columns := make([]*dataprocessing.Column, len(names))
	for j, name := range names {
		columns[j], _ = t.Column(name)
	}

	rows := make([][]string, n)
	for i := range rows {
		row := make([]string, len(columns))
		for j, c := range columns {
			row[j] = exporter.CellText(c, i)
		}
		rows[i] = row
	}
	return &domain.TableData{Columns: names, Rows: rows}
}

// chartParams fills unset request parameters from the configured defaults
func (s *DashboardService) chartParams(p domain.ChartParams) charts.Params {
	out := charts.Params{
		MovingAverageWindow: p.MovingAverageWindow,
		BollingerWindow:     p.BollingerWindow,
		BollingerStdDev:     p.BollingerStdDev,
		ScatterY:            p.ScatterY,
	}
	if out.MovingAverageWindow <= 0 {
		out.MovingAverageWindow = s.defaults.ChartMovingAverageWindow
	}
	if out.BollingerWindow <= 0 {
		out.BollingerWindow = s.defaults.BollingerWindow
	}
	if out.BollingerStdDev <= 0 {
		out.BollingerStdDev = s.defaults.BollingerStdDev
	}
	return out
}

func (s *DashboardService) validate(cfg domain.DashboardConfig) error {
	if s.validator != nil {
		if err := s.validator.ValidateStruct(cfg); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	for _, kind := range cfg.Charts {
		if !kind.Valid() {
			return fmt.Errorf("%w: unknown chart kind %q", ErrInvalidConfig, kind)
		}
	}
	return nil
}

func (s *DashboardService) entry(id string) (datasets.Entry, error) {
	if s.store == nil {
		return datasets.Entry{}, ErrServiceUnavailable
	}
	entry, err := s.store.Get(id)
	if err != nil {
		return datasets.Entry{}, notFound(id, err)
	}
	return entry, nil
}

func notFound(id string, err error) error {
	if errors.Is(err, datasets.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
	}
	return err
}

func datasetInfo(e datasets.Entry) domain.DatasetInfo {
	info := domain.DatasetInfo{
		ID:        e.ID,
		Filename:  e.Filename,
		Columns:   e.Table.Columns(),
		Rows:      e.Table.Len(),
		CreatedAt: e.CreatedAt,
		ExpiresAt: e.ExpiresAt,
	}
	if first, last, ok := dataprocessing.DateBounds(e.Table); ok {
		info.MinDate = first.Format(domain.DateLayout)
		info.MaxDate = last.Format(domain.DateLayout)
	}
	return info
}

// parseDay parses a YYYY-MM-DD request date, falling back to def when empty
func parseDay(field, value string, def time.Time) (time.Time, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a YYYY-MM-DD date: %q", ErrInvalidConfig, field, value)
	}
	return d, nil
}

func formatDay(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(domain.DateLayout)
}

func uniqueCharts(kinds []domain.ChartKind) []domain.ChartKind {
	out := make([]domain.ChartKind, 0, len(kinds))
	seen := make(map[domain.ChartKind]bool, len(kinds))
	for _, k := range kinds {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
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
