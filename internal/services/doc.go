// Package services implements the business logic layer of the dashboard.
// It sits between the HTTP handlers (and the CLI) and the data packages, so
// the pipeline rules live in one place and are testable without HTTP.
//
// # Available Services
//
//   - DashboardService: upload, filter, KPI, chart and export pipeline
//   - HealthService: liveness, readiness and version information
//
// # Pipeline
//
// A dashboard request runs these stages in order:
//
//  1. Date filter, defaulting to the dataset's first and last date
//  2. Row filter, clamped into the filtered table
//  3. Column selection, defaulting to the required columns
//  4. KPI computation over the selection
//  5. One chart description per requested chart kind
//
// A chart that cannot be drawn from the selection is reported in
// Dashboard.ChartErrors and never fails the request.
//
// # Error Handling
//
// Services return typed errors that handlers map to problem responses:
//
//   - *dataprocessing.ParseError and *dataprocessing.MissingColumnsError for bad uploads
//   - *dataprocessing.ColumnNotFoundError for unknown selected columns
//   - ErrInvalidConfig for malformed dashboard configurations
//   - ErrDatasetNotFound for unknown or expired datasets
//
// # Testing
//
// Services are tested against the in-memory store, or a testify mock:
//
//	store := new(MockDatasetStore)
//	store.On("Get", id).Return(datasets.Entry{}, datasets.ErrNotFound)
//	_, err := svc.Dashboard(ctx, id, domain.DashboardConfig{})
package services
