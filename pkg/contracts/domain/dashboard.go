package domain

import "time"

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

// ChartKind identifies one of the dashboard charts.
type ChartKind string

const (
	ChartLine               ChartKind = "line"
	ChartCandlestick        ChartKind = "candlestick"
	ChartVolumePrice        ChartKind = "volume_price"
	ChartHighLowArea        ChartKind = "high_low_area"
	ChartMovingAverage      ChartKind = "moving_average"
	ChartBollingerBands     ChartKind = "bollinger_bands"
	ChartVolumeBar          ChartKind = "volume_bar"
	ChartScatter            ChartKind = "scatter"
	ChartVolumeDensity      ChartKind = "volume_density"
	ChartCorrelationHeatmap ChartKind = "correlation_heatmap"
	ChartOHLC               ChartKind = "ohlc"
)

// ChartKinds lists every chart kind in toggle order.
func ChartKinds() []ChartKind {
	return []ChartKind{
		ChartLine, ChartCandlestick, ChartVolumePrice, ChartHighLowArea,
		ChartMovingAverage, ChartBollingerBands, ChartVolumeBar, ChartScatter,
		ChartVolumeDensity, ChartCorrelationHeatmap, ChartOHLC,
	}
}

// Valid reports whether k is a known chart kind.
func (k ChartKind) Valid() bool {
	for _, known := range ChartKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// DashboardConfig is the user's dashboard selection. Zero values mean
// "use the default": full date span, all rows, required columns, no charts.
type DashboardConfig struct {
	StartDate string      `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string      `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartRow  *int        `json:"start_row,omitempty" validate:"omitempty,min=0"`
	EndRow    *int        `json:"end_row,omitempty" validate:"omitempty,min=0"`
	Columns   []string    `json:"columns,omitempty" validate:"omitempty,dive,required"`
	Charts    []ChartKind `json:"charts,omitempty" validate:"omitempty,dive,chartkind"`
	ShowTable bool        `json:"show_table,omitempty"`
	Params    ChartParams `json:"params,omitempty"`
}

// ChartParams tunes the derived-series charts.
type ChartParams struct {
	MovingAverageWindow int     `json:"moving_average_window,omitempty" validate:"omitempty,min=1,max=1000"`
	BollingerWindow     int     `json:"bollinger_window,omitempty" validate:"omitempty,min=2,max=1000"`
	BollingerStdDev     float64 `json:"bollinger_std_dev,omitempty" validate:"omitempty,gt=0,lte=10"`
	ScatterY            string  `json:"scatter_y,omitempty"`
}

// DatasetInfo describes an uploaded dataset.
type DatasetInfo struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Columns   []string  `json:"columns"`
	Rows      int       `json:"rows"`
	MinDate   string    `json:"min_date,omitempty"`
	MaxDate   string    `json:"max_date,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Dashboard is the computed view for one configuration.
type Dashboard struct {
	DatasetID   string        `json:"dataset_id,omitempty"`
	Config      AppliedConfig `json:"config"`
	Rows        int           `json:"rows"`
	Columns     []string      `json:"columns"`
	KPIs        *KPISet       `json:"kpis,omitempty"`
	Cards       []KPICard     `json:"cards,omitempty"`
	Charts      []ChartSpec   `json:"charts"`
	ChartErrors []ChartError  `json:"chart_errors,omitempty"`
	Warnings    []string      `json:"warnings,omitempty"`
	Table       *TableData    `json:"table,omitempty"`
}

// AppliedConfig is the configuration after defaults and clamping.
type AppliedConfig struct {
	StartDate string      `json:"start_date"`
	EndDate   string      `json:"end_date"`
	StartRow  int         `json:"start_row"`
	EndRow    int         `json:"end_row"`
	Columns   []string    `json:"columns"`
	Charts    []ChartKind `json:"charts"`
}

// ChartError reports a chart that could not be built. Other charts are unaffected.
type ChartError struct {
	Kind    ChartKind `json:"kind"`
	Message string    `json:"message"`
	Missing []string  `json:"missing,omitempty"`
}

// TableData is the filtered table in display form.
type TableData struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}
