package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/dataprocessing"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/infrastructure"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/validation"
)

const TracerName = "stockdash.dashboard"

// DashboardTracer instruments uploads, dashboard builds and exports
type DashboardTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.BusinessMetrics
}

// NewDashboardTracer creates a tracer. A nil tracer uses the global provider;
// nil metrics disable recording.
func NewDashboardTracer(tracer trace.Tracer, metrics *infrastructure.BusinessMetrics) *DashboardTracer {
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	return &DashboardTracer{tracer: tracer, metrics: metrics}
}

// TraceUpload starts the span for one upload
func (dt *DashboardTracer) TraceUpload(ctx context.Context, filename string) (context.Context, trace.Span) {
	return dt.tracer.Start(ctx, "dataset.upload",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("dataset.filename", filename)),
	)
}

// RecordUploadCompletion closes out an upload span and records its metrics
func (dt *DashboardTracer) RecordUploadCompletion(ctx context.Context, span trace.Span, size int64, rows int, err error) {
	span.SetAttributes(
		attribute.Int64("dataset.size_bytes", size),
		attribute.Int("dataset.rows", rows),
	)

	reason := uploadFailureReason(err)
	infrastructure.RecordUploadMetrics(ctx, dt.metrics, size, reason)
	if err != nil {
		span.RecordError(err, trace.WithAttributes(attribute.String("error.reason", reason)))
		span.SetStatus(codes.Error, err.Error())
		return
	}

	infrastructure.RecordActiveDatasetChange(ctx, dt.metrics, 1, "")
	span.SetStatus(codes.Ok, "dataset stored")
}

// TraceDashboard starts the span for one dashboard build
func (dt *DashboardTracer) TraceDashboard(ctx context.Context, datasetID string, charts int) (context.Context, trace.Span) {
	return dt.tracer.Start(ctx, "dashboard.build",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("dataset.id", datasetID),
			attribute.Int("dashboard.charts_requested", charts),
		),
	)
}

// RecordDashboardCompletion closes out a dashboard span and records its metrics
func (dt *DashboardTracer) RecordDashboardCompletion(ctx context.Context, span trace.Span, duration time.Duration, rows int, failedCharts []string, err error) {
	span.SetAttributes(
		attribute.Int("dashboard.rows", rows),
		attribute.Int("dashboard.chart_errors", len(failedCharts)),
		attribute.Float64("dashboard.duration_seconds", duration.Seconds()),
	)
	infrastructure.RecordDashboardMetrics(ctx, dt.metrics, duration, failedCharts, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	infrastructure.AddSpanEvent(ctx, "dashboard.completed",
		attribute.Int("rows", rows),
		attribute.StringSlice("failed_charts", failedCharts),
	)
	span.SetStatus(codes.Ok, fmt.Sprintf("built dashboard over %d rows", rows))
}

// TraceExport starts the span for one table export
func (dt *DashboardTracer) TraceExport(ctx context.Context, datasetID, format string) (context.Context, trace.Span) {
	return dt.tracer.Start(ctx, "dataset.export",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("dataset.id", datasetID),
			attribute.String("export.format", format),
		),
	)
}

// RecordExportCompletion closes out an export span and records its metrics
func (dt *DashboardTracer) RecordExportCompletion(ctx context.Context, span trace.Span, format string, size int, err error) {
	span.SetAttributes(attribute.Int("export.size_bytes", size))
	infrastructure.RecordExportMetrics(ctx, dt.metrics, format, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "export written")
}

// uploadFailureReason labels why an upload was rejected. It is empty on success.
func uploadFailureReason(err error) string {
	var (
		parseErr   *dataprocessing.ParseError
		missingErr *dataprocessing.MissingColumnsError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, validation.ErrUnsupportedExtension), errors.Is(err, dataprocessing.ErrUnsupportedFormat):
		return "unsupported_extension"
	case errors.Is(err, validation.ErrFileTooLarge):
		return "too_large"
	case errors.Is(err, validation.ErrEmptyFile):
		return "empty"
	case errors.As(err, &missingErr):
		return "missing_columns"
	case errors.As(err, &parseErr):
		return "parse_error"
	default:
		return "other"
	}
}
