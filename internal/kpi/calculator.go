package kpi

import (
	"math"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/dataprocessing"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/pkg/contracts/domain"
)

// Default indicator parameters.
const (
	DefaultAverageVolumeDays  = 30
	DefaultShortMovingAverage = 50
	DefaultLongMovingAverage  = 200
)

// Options tunes Compute.
type Options struct {
	AverageVolumeDays    int
	MovingAverageWindows []int
}

// DefaultOptions returns the 30-day volume and 50/200-day moving average settings.
func DefaultOptions() Options {
	return Options{
		AverageVolumeDays:    DefaultAverageVolumeDays,
		MovingAverageWindows: []int{DefaultShortMovingAverage, DefaultLongMovingAverage},
	}
}

// KPIColumns are the columns Compute cannot work without.
func KPIColumns() []string {
	return []string{dataprocessing.ColumnDate, dataprocessing.ColumnClose}
}

// Compute sorts t by date once and fills the whole indicator set.
// It returns a *dataprocessing.MissingColumnsError when date or close is absent.
func Compute(t *dataprocessing.Table, opts Options) (domain.KPISet, error) {
	if err := dataprocessing.RequireColumns(t, KPIColumns()); err != nil {
		return domain.KPISet{}, err
	}
	sorted := byDate(t)

	set := domain.KPISet{
		LatestClose:       latestClose(sorted),
		DailyChange:       dailyChange(sorted),
		AverageVolume:     averageVolume(sorted, opts.AverageVolumeDays),
		AverageVolumeDays: opts.AverageVolumeDays,
		YTDReturn:         ytdReturn(sorted),
		Rows:              sorted.Len(),
	}
	set.High52Week, set.Low52Week = highLow(sorted)
	for _, w := range opts.MovingAverageWindows {
		set.MovingAverages = append(set.MovingAverages, domain.MovingAverageKPI{
			Window: w,
			Value:  movingAverage(sorted, w),
		})
	}
	return set, nil
}

// LatestClosingPrice returns the close of the most recent row.
func LatestClosingPrice(t *dataprocessing.Table) domain.NullFloat {
	return latestClose(byDate(t))
}

// DailyPriceChange returns the change between the last two closes. With fewer
// than two rows it returns a zero change. When the previous close is zero the
// percentage is absent and PercentUndefined is set.
func DailyPriceChange(t *dataprocessing.Table) domain.PriceChange {
	return dailyChange(byDate(t))
}

// FiftyTwoWeekHighLow returns the maximum high and minimum low over the whole
// window given. Both are absent when either column is missing.
func FiftyTwoWeekHighLow(t *dataprocessing.Table) (high, low domain.NullFloat) {
	return highLow(byDate(t))
}

// AverageVolume returns the mean volume of the last days rows, or of every row
// when there are fewer than days.
func AverageVolume(t *dataprocessing.Table, days int) domain.NullFloat {
	return averageVolume(byDate(t), days)
}

// YTDReturn returns the percentage change from the first to the last close of
// the window. It is absent when the first close is zero.
func YTDReturn(t *dataprocessing.Table) domain.NullFloat {
	return ytdReturn(byDate(t))
}

// MovingAverage returns the mean of the last window closes, or absent when
// there are fewer than window rows.
func MovingAverage(t *dataprocessing.Table, window int) domain.NullFloat {
	return movingAverage(byDate(t), window)
}

// byDate orders rows by date when a date column exists.
func byDate(t *dataprocessing.Table) *dataprocessing.Table {
	sorted, err := t.SortStable(dataprocessing.ColumnDate)
	if err != nil {
		return t
	}
	return sorted
}

func column(t *dataprocessing.Table, name string) []float64 {
	values, _ := t.Numbers(name)
	return values
}

func latestClose(t *dataprocessing.Table) domain.NullFloat {
	closes := column(t, dataprocessing.ColumnClose)
	if len(closes) == 0 {
		return domain.Null()
	}
	return domain.Float(closes[len(closes)-1])
}

func dailyChange(t *dataprocessing.Table) domain.PriceChange {
	closes := column(t, dataprocessing.ColumnClose)
	if len(closes) < 2 {
		return domain.PriceChange{Absolute: domain.Float(0), Percent: domain.Float(0)}
	}
	latest, previous := closes[len(closes)-1], closes[len(closes)-2]
	change := domain.PriceChange{Absolute: domain.Float(latest - previous)}
	if previous == 0 {
		change.PercentUndefined = true
		return change
	}
	change.Percent = domain.Float((latest - previous) / previous * 100)
	return change
}

func highLow(t *dataprocessing.Table) (domain.NullFloat, domain.NullFloat) {
	highs, okHigh := t.Numbers(dataprocessing.ColumnHigh)
	lows, okLow := t.Numbers(dataprocessing.ColumnLow)
	if !okHigh || !okLow {
		return domain.Null(), domain.Null()
	}
	return reduce(highs, math.Max), reduce(lows, math.Min)
}

func averageVolume(t *dataprocessing.Table, days int) domain.NullFloat {
	volumes, ok := t.Numbers(dataprocessing.ColumnVolume)
	if !ok {
		return domain.Null()
	}
	if days > 0 && len(volumes) >= days {
		volumes = volumes[len(volumes)-days:]
	}
	return mean(volumes)
}

func ytdReturn(t *dataprocessing.Table) domain.NullFloat {
	closes := column(t, dataprocessing.ColumnClose)
	if len(closes) == 0 {
		return domain.Null()
	}
	first, last := closes[0], closes[len(closes)-1]
	if first == 0 {
		return domain.Null()
	}
	return domain.Float((last - first) / first * 100)
}

func movingAverage(t *dataprocessing.Table, window int) domain.NullFloat {
	closes := column(t, dataprocessing.ColumnClose)
	if window <= 0 || len(closes) < window {
		return domain.Null()
	}
	var sum float64
	for _, v := range closes[len(closes)-window:] {
		if math.IsNaN(v) {
			return domain.Null()
		}
		sum += v
	}
	return domain.Float(sum / float64(window))
}

// mean averages the non-NaN values.
func mean(values []float64) domain.NullFloat {
	var sum float64
	var n int
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return domain.Null()
	}
	return domain.Float(sum / float64(n))
}

// reduce folds the non-NaN values with f.
func reduce(values []float64, f func(a, b float64) float64) domain.NullFloat {
	acc := math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(acc) {
			acc = v
			continue
		}
		acc = f(acc, v)
	}
	return domain.Float(acc)
}
