package services

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/config"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/dataprocessing"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/datasets"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/middleware"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/shared/testutil"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/validation"
)

// MockDatasetStore is a mock for the DatasetStore interface
type MockDatasetStore struct {
	mock.Mock
}

func (m *MockDatasetStore) Put(filename string, size int64, t *dataprocessing.Table) (datasets.Entry, error) {
	args := m.Called(filename, size, t)
	return args.Get(0).(datasets.Entry), args.Error(1)
}

func (m *MockDatasetStore) Get(id string) (datasets.Entry, error) {
	args := m.Called(id)
	return args.Get(0).(datasets.Entry), args.Error(1)
}

func (m *MockDatasetStore) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockDatasetStore) Len() int {
	args := m.Called()
	return args.Int(0)
}

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return logger
}

func testDefaults() config.DashboardConfig {
	return config.Default().Dashboard
}

// newTestService wires a service over a real in-memory store
func newTestService(t *testing.T, defaults config.DashboardConfig) (*DashboardService, *datasets.MemoryStore) {
	t.Helper()
	logger := testLogger(t)
	store := datasets.NewMemoryStore(datasets.Options{MaxEntries: 8}, logger)
	files := validation.NewFileValidator(logger, 1<<20, []string{".csv", ".txt", ".xlsx"})
	svc := NewDashboardService(store, files, middleware.NewValidator(), defaults, nil, logger)
	return svc, store
}

func uploadSample(t *testing.T, svc *DashboardService, csv string) string {
	t.Helper()
	info, err := svc.Upload(context.Background(), "prices.csv", strings.NewReader(csv))
	require.NoError(t, err)
	return info.ID
}

func intPtr(v int) *int {
	return &v
}
