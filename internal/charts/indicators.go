package charts

import (
	"errors"
	"math"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/dataprocessing"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/pkg/contracts/domain"
)

// Derived column names.
const (
	ColumnMovingAverage = "moving_average"
	ColumnUpperBand     = "upper_band"
	ColumnLowerBand     = "lower_band"
)

// ErrInsufficientCorrelationColumns is returned when fewer than two of the
// correlation columns are present.
var ErrInsufficientCorrelationColumns = errors.New("at least two of low, high, open, close, volume are required")

// CorrelationColumns are the columns considered for the correlation matrix, in order.
func CorrelationColumns() []string {
	return []string{
		dataprocessing.ColumnLow,
		dataprocessing.ColumnHigh,
		dataprocessing.ColumnOpen,
		dataprocessing.ColumnClose,
		dataprocessing.ColumnVolume,
	}
}

// RollingMean returns the trailing mean over window values at each position.
// Positions with fewer than window values, or with a NaN in the window, are absent.
func RollingMean(values []float64, window int) []domain.NullFloat {
	out := make([]domain.NullFloat, len(values))
	if window < 1 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		m, ok := windowMean(values[i-window+1 : i+1])
		if ok {
			out[i] = domain.Float(m)
		}
	}
	return out
}

// RollingStd returns the trailing sample standard deviation (n-1 denominator)
// over window values. A window below 2 yields only absent values.
func RollingStd(values []float64, window int) []domain.NullFloat {
	out := make([]domain.NullFloat, len(values))
	if window < 2 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		w := values[i-window+1 : i+1]
		m, ok := windowMean(w)
		if !ok {
			continue
		}
		var ss float64
		for _, v := range w {
			d := v - m
			ss += d * d
		}
		out[i] = domain.Float(math.Sqrt(ss / float64(window-1)))
	}
	return out
}

func windowMean(w []float64) (float64, bool) {
	var sum float64
	for _, v := range w {
		if math.IsNaN(v) {
			return 0, false
		}
		sum += v
	}
	return sum / float64(len(w)), true
}

// WithMovingAverage returns a copy of t with a moving_average column over close.
// t itself is not modified.
func WithMovingAverage(t *dataprocessing.Table, window int) (*dataprocessing.Table, error) {
	closes, ok := t.Numbers(dataprocessing.ColumnClose)
	if !ok {
		return nil, &dataprocessing.ColumnNotFoundError{Columns: []string{dataprocessing.ColumnClose}}
	}
	return t.WithColumn(dataprocessing.NumberColumn(ColumnMovingAverage, floats(RollingMean(closes, window))))
}

// WithBollingerBands returns a copy of t with moving_average, upper_band and
// lower_band columns: the rolling mean of close plus and minus k sample
// standard deviations.
func WithBollingerBands(t *dataprocessing.Table, window int, k float64) (*dataprocessing.Table, error) {
	closes, ok := t.Numbers(dataprocessing.ColumnClose)
	if !ok {
		return nil, &dataprocessing.ColumnNotFoundError{Columns: []string{dataprocessing.ColumnClose}}
	}
	mean := RollingMean(closes, window)
	std := RollingStd(closes, window)

	upper := make([]float64, len(closes))
	lower := make([]float64, len(closes))
	for i := range closes {
		if !mean[i].Valid || !std[i].Valid {
			upper[i], lower[i] = math.NaN(), math.NaN()
			continue
		}
		upper[i] = mean[i].Value + k*std[i].Value
		lower[i] = mean[i].Value - k*std[i].Value
	}

	out, err := t.WithColumn(dataprocessing.NumberColumn(ColumnMovingAverage, floats(mean)))
	if err != nil {
		return nil, err
	}
	if out, err = out.WithColumn(dataprocessing.NumberColumn(ColumnUpperBand, upper)); err != nil {
		return nil, err
	}
	return out.WithColumn(dataprocessing.NumberColumn(ColumnLowerBand, lower))
}

// Matrix is a square correlation matrix labelled by Columns on both axes.
type Matrix struct {
	Columns []string
	Values  [][]domain.NullFloat
}

// CorrelationMatrix returns pairwise Pearson correlations between the present
// correlation columns. Each pair uses the rows where both values are present.
// Undefined coefficients (fewer than two pairs, or zero variance) are absent.
func CorrelationMatrix(t *dataprocessing.Table) (Matrix, error) {
	var cols []string
	var data [][]float64
	for _, name := range CorrelationColumns() {
		if values, ok := t.Numbers(name); ok {
			cols = append(cols, name)
			data = append(data, values)
		}
	}
	if len(cols) < 2 {
		return Matrix{}, ErrInsufficientCorrelationColumns
	}

	m := Matrix{Columns: cols, Values: make([][]domain.NullFloat, len(cols))}
	for i := range cols {
		m.Values[i] = make([]domain.NullFloat, len(cols))
	}
	for i := range cols {
		for j := i; j < len(cols); j++ {
			r := pearson(data[i], data[j])
			if i == j && r.Valid {
				r = domain.Float(1)
			}
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m, nil
}

func pearson(x, y []float64) domain.NullFloat {
	var xs, ys []float64
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	n := len(xs)
	if n < 2 {
		return domain.Null()
	}
	mx, _ := windowMean(xs)
	my, _ := windowMean(ys)
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return domain.Null()
	}
	r := sxy / math.Sqrt(sxx*syy)
	return domain.Float(math.Max(-1, math.Min(1, r)))
}

func floats(values []domain.NullFloat) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.Or(math.NaN())
	}
	return out
}
