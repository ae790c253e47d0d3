package charts

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/dataprocessing"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/pkg/contracts/domain"
)

// Default chart parameters.
const (
	DefaultMovingAverageWindow = 7
	DefaultBollingerWindow     = 20
	DefaultBollingerStdDev     = 2.0
	DefaultScatterY            = dataprocessing.ColumnClose

	template = "plotly_white"

	// maxMarkerSize is the largest scatter marker diameter in pixels.
	maxMarkerSize = 20
)

// Params tunes the charts that derive series. Zero fields take defaults.
type Params struct {
	MovingAverageWindow int
	BollingerWindow     int
	BollingerStdDev     float64
	ScatterY            string
}

func (p Params) withDefaults() Params {
	if p.MovingAverageWindow <= 0 {
		p.MovingAverageWindow = DefaultMovingAverageWindow
	}
	if p.BollingerWindow <= 0 {
		p.BollingerWindow = DefaultBollingerWindow
	}
	if p.BollingerStdDev <= 0 {
		p.BollingerStdDev = DefaultBollingerStdDev
	}
	if p.ScatterY == "" {
		p.ScatterY = DefaultScatterY
	}
	return p
}

type builder func(t *dataprocessing.Table, p Params) (domain.ChartSpec, error)

var (
	ohlcColumns = []string{"date", "open", "high", "low", "close"}

	builders = map[domain.ChartKind]builder{
		domain.ChartLine:               lineChart,
		domain.ChartCandlestick:        candlestickChart,
		domain.ChartVolumePrice:        volumePriceChart,
		domain.ChartHighLowArea:        highLowAreaChart,
		domain.ChartMovingAverage:      movingAverageChart,
		domain.ChartBollingerBands:     bollingerChart,
		domain.ChartVolumeBar:          volumeBarChart,
		domain.ChartScatter:            scatterChart,
		domain.ChartVolumeDensity:      volumeDensityChart,
		domain.ChartCorrelationHeatmap: correlationHeatmap,
		domain.ChartOHLC:               ohlcChart,
	}
)

// RequiredColumns returns the columns a chart kind needs. The scatter chart's
// y column follows p. The correlation heatmap needs any two of CorrelationColumns.
func RequiredColumns(kind domain.ChartKind, p Params) []string {
	p = p.withDefaults()
	switch kind {
	case domain.ChartLine:
		return []string{"date"}
	case domain.ChartCandlestick, domain.ChartOHLC:
		return append([]string(nil), ohlcColumns...)
	case domain.ChartVolumePrice:
		return []string{"date", "close", "volume"}
	case domain.ChartHighLowArea:
		return []string{"date", "high", "low"}
	case domain.ChartMovingAverage, domain.ChartBollingerBands:
		return []string{"date", "close"}
	case domain.ChartVolumeBar, domain.ChartVolumeDensity:
		return []string{"date", "volume"}
	case domain.ChartScatter:
		return []string{"volume", p.ScatterY}
	case domain.ChartCorrelationHeatmap:
		return CorrelationColumns()
	}
	return nil
}

// Build describes the chart of the given kind over t. It never modifies t.
// Missing columns yield a *MissingChartColumnsError.
func Build(kind domain.ChartKind, t *dataprocessing.Table, p Params) (domain.ChartSpec, error) {
	build, ok := builders[kind]
	if !ok {
		return domain.ChartSpec{}, &UnknownChartError{Kind: kind}
	}
	p = p.withDefaults()
	if kind != domain.ChartCorrelationHeatmap {
		required := RequiredColumns(kind, p)
		if missing := dataprocessing.MissingColumns(t, required); len(missing) > 0 {
			return domain.ChartSpec{}, &MissingChartColumnsError{Kind: kind, Required: required, Missing: missing}
		}
	}
	spec, err := build(t, p)
	if err != nil {
		return domain.ChartSpec{}, err
	}
	spec.Kind = kind
	spec.Layout.Template = template
	spec.Title = spec.Layout.Title
	return spec, nil
}

func lineChart(t *dataprocessing.Table, _ Params) (domain.ChartSpec, error) {
	x := dates(t)
	var traces []domain.Trace
	for _, name := range t.Columns() {
		c, _ := t.Column(name)
		if name == dataprocessing.ColumnDate || c.Kind != dataprocessing.KindNumber {
			continue
		}
		traces = append(traces, domain.Trace{Type: "scatter", Mode: "lines", Name: name, X: x, Y: series(t, name)})
	}
	return domain.ChartSpec{
		Data: traces,
		Layout: domain.Layout{
			Title:  "Interactive Line Chart",
			XAxis:  domain.Axis{Title: "Date"},
			YAxis:  domain.Axis{Title: "Value"},
			Legend: &domain.Legend{Title: "Metric"},
		},
	}, nil
}

func candlestickChart(t *dataprocessing.Table, _ Params) (domain.ChartSpec, error) {
	return domain.ChartSpec{
		Data: []domain.Trace{{
			Type:  "candlestick",
			X:     dates(t),
			Open:  nulls(t, "open"),
			High:  nulls(t, "high"),
			Low:   nulls(t, "low"),
			Close: nulls(t, "close"),
		}},
		Layout: domain.Layout{
			Title: "Candlestick Chart",
			XAxis: domain.Axis{Title: "Date", RangeSlider: &domain.RangeSlider{Visible: false}},
			YAxis: domain.Axis{Title: "Price"},
		},
	}, nil
}

func ohlcChart(t *dataprocessing.Table, _ Params) (domain.ChartSpec, error) {
	labels := make([]string, t.Len())
	cols := make([]*dataprocessing.Column, 0, 4)
	for _, name := range []string{"open", "high", "low", "close"} {
		c, _ := t.Column(name)
		cols = append(cols, c)
	}
	for i := range labels {
		labels[i] = fmt.Sprintf("Open: %s<br>High: %s<br>Low: %s<br>Close: %s",
			cols[0].Raw[i], cols[1].Raw[i], cols[2].Raw[i], cols[3].Raw[i])
	}
	return domain.ChartSpec{
		Data: []domain.Trace{{
			Type:      "ohlc",
			X:         dates(t),
			Open:      nulls(t, "open"),
			High:      nulls(t, "high"),
			Low:       nulls(t, "low"),
			Close:     nulls(t, "close"),
			Text:      labels,
			HoverInfo: "x+text",
		}},
		Layout: domain.Layout{
			Title: "OHLC Bar Chart with Labels",
			XAxis: domain.Axis{Title: "Date", RangeSlider: &domain.RangeSlider{Visible: false}},
			YAxis: domain.Axis{Title: "Price"},
		},
	}, nil
}

func volumePriceChart(t *dataprocessing.Table, _ Params) (domain.ChartSpec, error) {
	x := dates(t)
	return domain.ChartSpec{
		Data: []domain.Trace{
			{Type: "scatter", Mode: "lines", Name: "Close Price", X: x, Y: series(t, "close"), Line: &domain.Line{Color: "blue"}, YAxis: "y"},
			{Type: "bar", Name: "Volume", X: x, Y: series(t, "volume"), Marker: &domain.Marker{Color: "orange"}, YAxis: "y2"},
		},
		Layout: domain.Layout{
			Title:  "Volume Overlaid with Price Line Chart",
			XAxis:  domain.Axis{Title: "Date"},
			YAxis:  domain.Axis{Title: "Close Price", Color: "blue", Side: "left"},
			YAxis2: &domain.Axis{Title: "Volume", Color: "orange", Side: "right", Overlaying: "y"},
			Legend: &domain.Legend{Title: "Legend", Orientation: "h", X: 0.5, XAnchor: "center", Y: -0.2},
		},
	}, nil
}

func highLowAreaChart(t *dataprocessing.Table, _ Params) (domain.ChartSpec, error) {
	x := dates(t)
	return domain.ChartSpec{
		Data: []domain.Trace{
			{Type: "scatter", Mode: "lines", Name: "High", X: x, Y: series(t, "high"), Line: &domain.Line{Color: "rgba(0, 100, 200, 0.7)"}},
			{
				Type: "scatter", Mode: "lines", Name: "Low", X: x, Y: series(t, "low"),
				Line:      &domain.Line{Color: "rgba(200, 100, 0, 0.7)"},
				Fill:      "tonexty",
				FillColor: "rgba(100, 150, 255, 0.3)",
			},
		},
		Layout: domain.Layout{
			Title:  "High-Low Range Area Chart",
			XAxis:  domain.Axis{Title: "Date"},
			YAxis:  domain.Axis{Title: "Price"},
			Legend: &domain.Legend{Title: "Metrics"},
		},
	}, nil
}

func movingAverageChart(t *dataprocessing.Table, p Params) (domain.ChartSpec, error) {
	derived, err := WithMovingAverage(t, p.MovingAverageWindow)
	if err != nil {
		return domain.ChartSpec{}, err
	}
	return domain.ChartSpec{
		Data: lines(derived, "close", ColumnMovingAverage),
		Layout: domain.Layout{
			Title:  fmt.Sprintf("Moving Average Line Chart (Window: %d)", p.MovingAverageWindow),
			XAxis:  domain.Axis{Title: "Date"},
			YAxis:  domain.Axis{Title: "Price"},
			Legend: &domain.Legend{Title: "Metrics"},
		},
	}, nil
}

func bollingerChart(t *dataprocessing.Table, p Params) (domain.ChartSpec, error) {
	derived, err := WithBollingerBands(t, p.BollingerWindow, p.BollingerStdDev)
	if err != nil {
		return domain.ChartSpec{}, err
	}
	return domain.ChartSpec{
		Data: lines(derived, "close", ColumnMovingAverage, ColumnUpperBand, ColumnLowerBand),
		Layout: domain.Layout{
			Title:  fmt.Sprintf("Bollinger Bands (Window: %d, Std Dev: %s)", p.BollingerWindow, strconv.FormatFloat(p.BollingerStdDev, 'f', -1, 64)),
			XAxis:  domain.Axis{Title: "Date"},
			YAxis:  domain.Axis{Title: "Price"},
			Legend: &domain.Legend{Title: "Metrics"},
		},
	}, nil
}

func volumeBarChart(t *dataprocessing.Table, _ Params) (domain.ChartSpec, error) {
	return domain.ChartSpec{
		Data: []domain.Trace{{Type: "bar", Name: "volume", X: dates(t), Y: series(t, "volume")}},
		Layout: domain.Layout{
			Title: "Volume Bar Chart",
			XAxis: domain.Axis{Title: "Date"},
			YAxis: domain.Axis{Title: "Volume"},
		},
	}, nil
}

func scatterChart(t *dataprocessing.Table, p Params) (domain.ChartSpec, error) {
	volumes, _ := t.Numbers("volume")
	label := capitalize(p.ScatterY)

	maxVolume := 0.0
	sizes := make([]any, len(volumes))
	for i, v := range volumes {
		if math.IsNaN(v) || v < 0 {
			sizes[i] = 0.0
			continue
		}
		sizes[i] = v
		maxVolume = math.Max(maxVolume, v)
	}
	sizeRef := 1.0
	if maxVolume > 0 {
		sizeRef = 2 * maxVolume / (maxMarkerSize * maxMarkerSize)
	}

	y := series(t, p.ScatterY)
	return domain.ChartSpec{
		Data: []domain.Trace{{
			Type: "scatter",
			Mode: "markers",
			Name: p.ScatterY,
			X:    series(t, "volume"),
			Y:    y,
			Marker: &domain.Marker{
				Color:     y,
				Size:      sizes,
				SizeMode:  "area",
				SizeRef:   sizeRef,
				ShowScale: true,
			},
		}},
		Layout: domain.Layout{
			Title:  "Scatter Plot: Volume vs. " + label,
			XAxis:  domain.Axis{Title: "Volume"},
			YAxis:  domain.Axis{Title: label},
			Legend: &domain.Legend{Title: "Price"},
		},
	}, nil
}

func volumeDensityChart(t *dataprocessing.Table, _ Params) (domain.ChartSpec, error) {
	return domain.ChartSpec{
		Data: []domain.Trace{{
			Type:     "histogram2dcontour",
			X:        dates(t),
			Y:        series(t, "volume"),
			Contours: &domain.Contours{Coloring: "fill", ShowLabels: true},
		}},
		Layout: domain.Layout{
			Title: "Volume Density Chart",
			XAxis: domain.Axis{Title: "Date"},
			YAxis: domain.Axis{Title: "Volume"},
		},
	}, nil
}

func correlationHeatmap(t *dataprocessing.Table, _ Params) (domain.ChartSpec, error) {
	m, err := CorrelationMatrix(t)
	if err != nil {
		return domain.ChartSpec{}, &MissingChartColumnsError{
			Kind:     domain.ChartCorrelationHeatmap,
			Required: CorrelationColumns(),
			Missing:  dataprocessing.MissingColumns(t, CorrelationColumns()),
			Err:      err,
		}
	}

	axis := make([]any, len(m.Columns))
	for i, c := range m.Columns {
		axis[i] = c
	}
	text := make([][]string, len(m.Columns))
	var annotations []domain.Annotation
	for i, row := range m.Values {
		text[i] = make([]string, len(row))
		for j, v := range row {
			label := "nan"
			if v.Valid {
				label = strconv.FormatFloat(v.Value, 'f', 2, 64)
			}
			text[i][j] = label
			annotations = append(annotations, domain.Annotation{X: m.Columns[j], Y: m.Columns[i], Text: label})
		}
	}

	zmin, zmax := -1.0, 1.0
	return domain.ChartSpec{
		Data: []domain.Trace{{
			Type:       "heatmap",
			X:          axis,
			Y:          axis,
			Z:          m.Values,
			ColorScale: "RdBu",
			ZMin:       &zmin,
			ZMax:       &zmax,
			ColorBar:   &domain.ColorBar{Title: "Correlation"},
			Text:       text,
			HoverInfo:  "text+z",
		}},
		Layout: domain.Layout{
			Title:       "Enhanced Correlation Heatmap",
			XAxis:       domain.Axis{Title: "Metrics"},
			YAxis:       domain.Axis{Title: "Metrics"},
			Annotations: annotations,
		},
	}, nil
}

// lines draws one line per named column against the date axis.
func lines(t *dataprocessing.Table, names ...string) []domain.Trace {
	x := dates(t)
	traces := make([]domain.Trace, 0, len(names))
	for _, name := range names {
		traces = append(traces, domain.Trace{Type: "scatter", Mode: "lines", Name: name, X: x, Y: series(t, name)})
	}
	return traces
}

// dates renders the date column as YYYY-MM-DD where it parses, raw text otherwise.
func dates(t *dataprocessing.Table) []any {
	c, ok := t.Column(dataprocessing.ColumnDate)
	if !ok {
		return nil
	}
	out := make([]any, c.Len())
	for i, raw := range c.Raw {
		if c.Kind == dataprocessing.KindDate && !c.Dates[i].IsZero() {
			out[i] = c.Dates[i].Format(dataprocessing.DateLayout)
			continue
		}
		out[i] = raw
	}
	return out
}

func series(t *dataprocessing.Table, name string) []any {
	values := nulls(t, name)
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func nulls(t *dataprocessing.Table, name string) []domain.NullFloat {
	values, _ := t.Numbers(name)
	out := make([]domain.NullFloat, len(values))
	for i, v := range values {
		out[i] = domain.Float(v)
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
