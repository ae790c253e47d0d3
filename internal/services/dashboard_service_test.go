package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/charts"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/dataprocessing"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/datasets"
	apierrors "github.com/waqarulwahab/stock-data-visualizer-web-app/internal/errors"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/exporter"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/shared/testutil"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/validation"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/pkg/contracts/domain"
)

func TestDashboardService_Upload(t *testing.T) {
	svc, store := newTestService(t, testDefaults())

	info, err := svc.Upload(context.Background(), "prices.csv", strings.NewReader(testutil.SamplePricesCSV))
	require.NoError(t, err)

	assert.NotEmpty(t, info.ID)
	assert.Equal(t, "prices.csv", info.Filename)
	assert.Equal(t, 5, info.Rows)
	assert.Equal(t, []string{"date", "open", "high", "low", "close", "volume"}, info.Columns)
	assert.Equal(t, "2024-01-01", info.MinDate)
	assert.Equal(t, "2024-01-05", info.MaxDate)
	assert.True(t, info.ExpiresAt.After(info.CreatedAt))
	assert.Equal(t, 1, store.Len())
}

func TestDashboardService_UploadRejections(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		check    func(t *testing.T, err error)
	}{
		{
			name:     "missing required columns",
			filename: "prices.csv",
			content:  "date,close\n2024-01-01,1\n",
			check: func(t *testing.T, err error) {
				var missing *dataprocessing.MissingColumnsError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, []string{"volume", "open", "high", "low"}, missing.Missing)
			},
		},
		{
			name:     "ragged rows",
			filename: "prices.csv",
			content:  "date,open,high,low,close,volume\n2024-01-01,1,2\n",
			check: func(t *testing.T, err error) {
				var parseErr *dataprocessing.ParseError
				assert.ErrorAs(t, err, &parseErr)
			},
		},
		{
			name:     "unsupported extension",
			filename: "prices.json",
			content:  "{}",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, validation.ErrUnsupportedExtension)
			},
		},
		{
			name:     "empty file",
			filename: "prices.csv",
			content:  "",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, validation.ErrEmptyFile)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t, testDefaults())
			_, err := svc.Upload(context.Background(), tt.filename, strings.NewReader(tt.content))
			require.Error(t, err)
			tt.check(t, err)
			assert.Zero(t, store.Len())
		})
	}
}

func TestDashboardService_DatasetLifecycle(t *testing.T) {
	svc, _ := newTestService(t, testDefaults())
	ctx := context.Background()
	id := uploadSample(t, svc, testutil.SamplePricesCSV)

	info, err := svc.Dataset(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, info.ID)

	require.NoError(t, svc.Delete(ctx, id))

	_, err = svc.Dataset(ctx, id)
	assert.ErrorIs(t, err, ErrDatasetNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, id), ErrDatasetNotFound)
}

func TestDashboardService_StoreErrorsMapToNotFound(t *testing.T) {
	store := new(MockDatasetStore)
	store.On("Get", "gone").Return(datasets.Entry{}, datasets.ErrNotFound)
	store.On("Delete", "gone").Return(errors.New("store offline"))

	logger := testLogger(t)
	files := validation.NewFileValidator(logger, 1<<20, []string{".csv"})
	svc := NewDashboardService(store, files, nil, testDefaults(), nil, logger)

	_, err := svc.Dashboard(context.Background(), "gone", domain.DashboardConfig{})
	assert.ErrorIs(t, err, ErrDatasetNotFound)

	err = svc.Delete(context.Background(), "gone")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDatasetNotFound)

	store.AssertExpectations(t)
}

func TestDashboardService_DashboardDefaults(t *testing.T) {
	svc, _ := newTestService(t, testDefaults())
	id := uploadSample(t, svc, testutil.SamplePricesCSV)

	d, err := svc.Dashboard(context.Background(), id, domain.DashboardConfig{})
	require.NoError(t, err)

	assert.Equal(t, id, d.DatasetID)
	assert.Equal(t, 5, d.Rows)
	assert.Equal(t, dataprocessing.RequiredColumns(), d.Columns)
	assert.Equal(t, domain.AppliedConfig{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-05",
		StartRow:  0,
		EndRow:    5,
		Columns:   dataprocessing.RequiredColumns(),
		Charts:    []domain.ChartKind{},
	}, d.Config)

	require.NotNil(t, d.KPIs)
	assert.Equal(t, domain.Float(114), d.KPIs.LatestClose)
	assert.Equal(t, domain.Float(7), d.KPIs.DailyChange.Absolute)
	assert.InDelta(t, 6.5420560747, d.KPIs.DailyChange.Percent.Value, 1e-9)
	assert.Equal(t, domain.Float(115), d.KPIs.High52Week)
	assert.Equal(t, domain.Float(98), d.KPIs.Low52Week)
	assert.Equal(t, domain.Float(1740), d.KPIs.AverageVolume)
	assert.InDelta(t, 14, d.KPIs.YTDReturn.Value, 1e-9)
	assert.NotEmpty(t, d.Cards)

	assert.NotNil(t, d.Charts)
	assert.Empty(t, d.Charts)
	assert.Empty(t, d.Warnings)
	assert.Nil(t, d.Table)
}

func TestDashboardService_Filters(t *testing.T) {
	tests := []struct {
		name        string
		cfg         domain.DashboardConfig
		wantRows    int
		wantApplied func(t *testing.T, a domain.AppliedConfig)
		wantWarning string
		wantLatest  domain.NullFloat
	}{
		{
			name:       "closed date interval",
			cfg:        domain.DashboardConfig{StartDate: "2024-01-02", EndDate: "2024-01-04"},
			wantRows:   3,
			wantLatest: domain.Float(107),
		},
		{
			name:        "inverted date range",
			cfg:         domain.DashboardConfig{StartDate: "2024-01-04", EndDate: "2024-01-02"},
			wantRows:    0,
			wantWarning: "after the end date",
			wantLatest:  domain.Null(),
		},
		{
			name:     "row range clamped to the table",
			cfg:      domain.DashboardConfig{StartRow: intPtr(3), EndRow: intPtr(100)},
			wantRows: 2,
			wantApplied: func(t *testing.T, a domain.AppliedConfig) {
				assert.Equal(t, 3, a.StartRow)
				assert.Equal(t, 5, a.EndRow)
			},
			wantLatest: domain.Float(114),
		},
		{
			name:        "start row after end row",
			cfg:         domain.DashboardConfig{StartRow: intPtr(4), EndRow: intPtr(2)},
			wantRows:    0,
			wantWarning: "after the end row",
			wantLatest:  domain.Null(),
		},
		{
			name:       "row range applies after the date filter",
			cfg:        domain.DashboardConfig{StartDate: "2024-01-02", StartRow: intPtr(0), EndRow: intPtr(2)},
			wantRows:   2,
			wantLatest: domain.Float(105),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, testDefaults())
			id := uploadSample(t, svc, testutil.SamplePricesCSV)

			d, err := svc.Dashboard(context.Background(), id, tt.cfg)
			require.NoError(t, err)

			assert.Equal(t, tt.wantRows, d.Rows)
			if tt.wantApplied != nil {
				tt.wantApplied(t, d.Config)
			}
			if tt.wantWarning != "" {
				require.Len(t, d.Warnings, 1)
				assert.Contains(t, d.Warnings[0], tt.wantWarning)
			} else {
				assert.Empty(t, d.Warnings)
			}
			require.NotNil(t, d.KPIs)
			assert.Equal(t, tt.wantLatest, d.KPIs.LatestClose)
		})
	}
}

func TestDashboardService_ColumnSelectionWithoutDate(t *testing.T) {
	svc, _ := newTestService(t, testDefaults())
	id := uploadSample(t, svc, testutil.SamplePricesCSV)

	d, err := svc.Dashboard(context.Background(), id, domain.DashboardConfig{
		Columns: []string{"close", "volume"},
		Charts:  []domain.ChartKind{domain.ChartLine, domain.ChartScatter},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"close", "volume"}, d.Columns)
	assert.Nil(t, d.KPIs)
	assert.Contains(t, d.Warnings, warnDateNotSelected)
	assert.Contains(t, d.Warnings, warnKPIColumnsMissing)

	// The scatter plot only needs volume and close; the line chart needs date.
	require.Len(t, d.Charts, 1)
	assert.Equal(t, domain.ChartScatter, d.Charts[0].Kind)
	require.Len(t, d.ChartErrors, 1)
	assert.Equal(t, domain.ChartLine, d.ChartErrors[0].Kind)
	assert.Equal(t, []string{"date"}, d.ChartErrors[0].Missing)
}

func TestDashboardService_UnknownColumn(t *testing.T) {
	svc, _ := newTestService(t, testDefaults())
	id := uploadSample(t, svc, testutil.SamplePricesCSV)

	_, err := svc.Dashboard(context.Background(), id, domain.DashboardConfig{Columns: []string{"date", "adj_close"}})
	var notFound *dataprocessing.ColumnNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, []string{"adj_close"}, notFound.Columns)
}

func TestDashboardService_Charts(t *testing.T) {
	svc, _ := newTestService(t, testDefaults())
	id := uploadSample(t, svc, testutil.SamplePricesCSV)

	d, err := svc.Dashboard(context.Background(), id, domain.DashboardConfig{
		Charts: []domain.ChartKind{
			domain.ChartLine,
			domain.ChartCandlestick,
			domain.ChartLine,
			domain.ChartCorrelationHeatmap,
			domain.ChartMovingAverage,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []domain.ChartKind{
		domain.ChartLine, domain.ChartCandlestick, domain.ChartCorrelationHeatmap, domain.ChartMovingAverage,
	}, d.Config.Charts)
	require.Len(t, d.Charts, 4)
	assert.Empty(t, d.ChartErrors)
	for i, kind := range d.Config.Charts {
		assert.Equal(t, kind, d.Charts[i].Kind)
		assert.Equal(t, "plotly_white", d.Charts[i].Layout.Template)
	}
}

func TestDashboardService_ChartParamsFallBackToConfig(t *testing.T) {
	defaults := testDefaults()
	defaults.ChartMovingAverageWindow = 2
	svc, _ := newTestService(t, defaults)

	params := svc.chartParams(domain.ChartParams{BollingerWindow: 5})
	assert.Equal(t, charts.Params{
		MovingAverageWindow: 2,
		BollingerWindow:     5,
		BollingerStdDev:     defaults.BollingerStdDev,
	}, params)
}

func TestDashboardService_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  domain.DashboardConfig
	}{
		{name: "unknown chart", cfg: domain.DashboardConfig{Charts: []domain.ChartKind{"pie"}}},
		{name: "malformed start date", cfg: domain.DashboardConfig{StartDate: "2024/01/01"}},
		{name: "negative start row", cfg: domain.DashboardConfig{StartRow: intPtr(-1)}},
		{name: "bollinger multiplier out of range", cfg: domain.DashboardConfig{Params: domain.ChartParams{BollingerStdDev: 50}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, testDefaults())
			id := uploadSample(t, svc, testutil.SamplePricesCSV)

			_, err := svc.Dashboard(context.Background(), id, tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)

			var apiErr *apierrors.APIError
			assert.ErrorAs(t, err, &apiErr, "validator errors keep their field details")
		})
	}
}

func TestDashboardService_InvalidConfigWithoutValidator(t *testing.T) {
	logger := testLogger(t)
	files := validation.NewFileValidator(logger, 1<<20, []string{".csv"})
	svc := NewDashboardService(nil, files, nil, testDefaults(), nil, logger)

	_, err := svc.DashboardFromFile(context.Background(), "prices.csv", strings.NewReader(testutil.SamplePricesCSV),
		domain.DashboardConfig{Charts: []domain.ChartKind{"pie"}})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = svc.DashboardFromFile(context.Background(), "prices.csv", strings.NewReader(testutil.SamplePricesCSV),
		domain.DashboardConfig{EndDate: "tomorrow"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDashboardService_ShowTable(t *testing.T) {
	defaults := testDefaults()
	defaults.MaxTableRows = 2
	svc, _ := newTestService(t, defaults)
	id := uploadSample(t, svc, testutil.SamplePricesCSV)

	d, err := svc.Dashboard(context.Background(), id, domain.DashboardConfig{
		ShowTable: true,
		Columns:   []string{"date", "close"},
	})
	require.NoError(t, err)

	require.NotNil(t, d.Table)
	assert.Equal(t, []string{"date", "close"}, d.Table.Columns)
	assert.Equal(t, [][]string{{"2024-01-01", "100"}, {"2024-01-02", "110"}}, d.Table.Rows)
	require.Len(t, d.Warnings, 1)
	assert.Contains(t, d.Warnings[0], "first 2 of 5 rows")
}

func TestDashboardService_ZeroPreviousClose(t *testing.T) {
	svc, _ := newTestService(t, testDefaults())
	id := uploadSample(t, svc, "date,open,high,low,close,volume\n2024-01-01,1,1,0,0,10\n2024-01-02,1,2,1,2,20\n")

	d, err := svc.Dashboard(context.Background(), id, domain.DashboardConfig{})
	require.NoError(t, err)

	require.NotNil(t, d.KPIs)
	assert.True(t, d.KPIs.DailyChange.PercentUndefined)
	assert.False(t, d.KPIs.DailyChange.Percent.Valid)
	assert.Contains(t, d.Warnings, warnPercentUndefined)
}

func TestDashboardService_DashboardFromFile(t *testing.T) {
	logger := testLogger(t)
	files := validation.NewFileValidator(logger, 1<<20, []string{".csv"})
	svc := NewDashboardService(nil, files, nil, testDefaults(), nil, logger)

	d, err := svc.DashboardFromFile(context.Background(), "prices.csv", strings.NewReader(testutil.SamplePricesCSV),
		domain.DashboardConfig{Charts: []domain.ChartKind{domain.ChartVolumeBar}})
	require.NoError(t, err)
	assert.Empty(t, d.DatasetID)
	assert.Equal(t, 5, d.Rows)
	assert.Len(t, d.Charts, 1)

	_, err = svc.Upload(context.Background(), "prices.csv", strings.NewReader(testutil.SamplePricesCSV))
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestDashboardService_Export(t *testing.T) {
	svc, _ := newTestService(t, testDefaults())
	id := uploadSample(t, svc, testutil.SamplePricesCSV)

	file, err := svc.Export(context.Background(), id, domain.DashboardConfig{
		StartDate: "2024-01-04",
		Columns:   []string{"date", "close"},
	}, exporter.FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "prices_filtered.csv", file.Filename)
	assert.Equal(t, exporter.FormatCSV.ContentType(), file.ContentType)
	body := strings.TrimPrefix(string(file.Data), "\ufeff")
	assert.Equal(t, "date,close\n2024-01-04,107\n2024-01-05,114\n", body)

	_, err = svc.Export(context.Background(), "missing", domain.DashboardConfig{}, exporter.FormatXLSX)
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}

func TestUploadFailureReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: ""},
		{err: validation.ErrUnsupportedExtension, want: "unsupported_extension"},
		{err: validation.ErrFileTooLarge, want: "too_large"},
		{err: validation.ErrEmptyFile, want: "empty"},
		{err: &dataprocessing.MissingColumnsError{Missing: []string{"date"}}, want: "missing_columns"},
		{err: &dataprocessing.ParseError{Err: errors.New("bad quote")}, want: "parse_error"},
		{err: errors.New("boom"), want: "other"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, uploadFailureReason(tt.err))
	}
}
