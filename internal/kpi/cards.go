package kpi

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/pkg/contracts/domain"
)

// NotAvailable is shown for absent values.
const NotAvailable = "N/A"

// DefaultCurrency is used when a Formatter has no currency set.
const DefaultCurrency = money.USD

// Card identifiers.
const (
	CardLatestClose    = "latest_close"
	CardDailyChange    = "daily_change"
	CardHighLow        = "high_low_52_week"
	CardAverageVolume  = "average_volume"
	CardYTDReturn      = "ytd_return"
	CardMovingAverages = "moving_averages"
)

var volumeFormatter = money.NewFormatter(0, ".", ",", "", "1")

// Formatter renders indicator sets as cards.
type Formatter struct {
	currency *money.Currency
}

// NewFormatter returns a Formatter for the ISO 4217 currency code. Unknown
// codes fall back to DefaultCurrency.
func NewFormatter(currency string) *Formatter {
	cur := money.GetCurrency(currency)
	if cur == nil {
		cur = money.GetCurrency(DefaultCurrency)
	}
	return &Formatter{currency: cur}
}

// Cards renders the set in dashboard order.
func (f *Formatter) Cards(set domain.KPISet) []domain.KPICard {
	cards := []domain.KPICard{
		{
			ID:        CardLatestClose,
			Title:     "Latest Closing Price",
			Lines:     []domain.CardLine{{Value: f.Money(set.LatestClose)}},
			Direction: domain.DirectionNeutral,
		},
		f.dailyChangeCard(set.DailyChange),
		{
			ID:    CardHighLow,
			Title: "52-Week High & Low",
			Lines: []domain.CardLine{
				{Label: "High", Value: f.Money(set.High52Week)},
				{Label: "Low", Value: f.Money(set.Low52Week)},
			},
			Direction: domain.DirectionNeutral,
		},
		{
			ID:        CardAverageVolume,
			Title:     fmt.Sprintf("Average Volume (%d days)", set.AverageVolumeDays),
			Lines:     []domain.CardLine{{Value: Volume(set.AverageVolume)}},
			Direction: domain.DirectionNeutral,
		},
		{
			ID:        CardYTDReturn,
			Title:     "Year-to-Date Return",
			Lines:     []domain.CardLine{{Value: Percent(set.YTDReturn)}},
			Direction: direction(set.YTDReturn),
		},
	}

	ma := domain.KPICard{ID: CardMovingAverages, Title: "Moving Averages", Direction: domain.DirectionNeutral}
	for _, m := range set.MovingAverages {
		ma.Lines = append(ma.Lines, domain.CardLine{
			Label: fmt.Sprintf("%d-Day", m.Window),
			Value: f.Money(m.Value),
		})
	}
	return append(cards, ma)
}

func (f *Formatter) dailyChangeCard(c domain.PriceChange) domain.KPICard {
	value := NotAvailable
	if c.Absolute.Valid {
		value = fmt.Sprintf("%s (%s)", f.Money(c.Absolute), Percent(c.Percent))
	}
	return domain.KPICard{
		ID:        CardDailyChange,
		Title:     "Daily Price Change",
		Lines:     []domain.CardLine{{Value: value}},
		Direction: direction(c.Absolute),
	}
}

// Money formats v in the formatter's currency, rounded half away from zero to
// the currency's minor unit.
func (f *Formatter) Money(v domain.NullFloat) string {
	if !v.Valid {
		return NotAvailable
	}
	minor := decimal.NewFromFloat(v.Value).Round(int32(f.currency.Fraction)).Shift(int32(f.currency.Fraction))
	return f.currency.Formatter().Format(minor.IntPart())
}

// Percent formats v with two decimals and a percent sign.
func Percent(v domain.NullFloat) string {
	if !v.Valid {
		return NotAvailable
	}
	return decimal.NewFromFloat(v.Value).StringFixed(2) + "%"
}

// Volume formats v as a whole number with thousands separators.
func Volume(v domain.NullFloat) string {
	if !v.Valid {
		return NotAvailable
	}
	return volumeFormatter.Format(decimal.NewFromFloat(v.Value).Round(0).IntPart())
}

func direction(v domain.NullFloat) domain.Direction {
	switch {
	case !v.Valid:
		return domain.DirectionNeutral
	case v.Value >= 0:
		return domain.DirectionUp
	default:
		return domain.DirectionDown
	}
}
