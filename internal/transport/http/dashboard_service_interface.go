package http

import (
	"context"
	"io"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/exporter"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/services"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations the handlers use
type DashboardServiceInterface interface {
	Upload(ctx context.Context, filename string, r io.Reader) (domain.DatasetInfo, error)
	Dataset(ctx context.Context, id string) (domain.DatasetInfo, error)
	Delete(ctx context.Context, id string) error
	Dashboard(ctx context.Context, id string, cfg domain.DashboardConfig) (*domain.Dashboard, error)
	DashboardFromFile(ctx context.Context, filename string, r io.Reader, cfg domain.DashboardConfig) (*domain.Dashboard, error)
	Export(ctx context.Context, id string, cfg domain.DashboardConfig, format exporter.Format) (*services.ExportFile, error)
}

var _ DashboardServiceInterface = (*services.DashboardService)(nil)
