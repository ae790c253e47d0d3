package kpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/pkg/contracts/domain"
)

func TestFormatter_Money(t *testing.T) {
	f := NewFormatter("USD")
	assert.Equal(t, "$110.00", f.Money(domain.Float(110)))
	assert.Equal(t, "$1,234.57", f.Money(domain.Float(1234.567)))
	assert.Equal(t, "-$10.50", f.Money(domain.Float(-10.5)))
	assert.Equal(t, NotAvailable, f.Money(domain.Null()))

	unknown := NewFormatter("???")
	assert.Equal(t, "$1.00", unknown.Money(domain.Float(1)))
}

func TestPercentAndVolume(t *testing.T) {
	assert.Equal(t, "10.00%", Percent(domain.Float(10)))
	assert.Equal(t, "-3.33%", Percent(domain.Float(-3.3333)))
	assert.Equal(t, NotAvailable, Percent(domain.Null()))

	assert.Equal(t, "1,500", Volume(domain.Float(1500)))
	assert.Equal(t, "1,234,568", Volume(domain.Float(1234567.6)))
	assert.Equal(t, NotAvailable, Volume(domain.Null()))
}

func TestFormatter_Cards(t *testing.T) {
	set := domain.KPISet{
		LatestClose: domain.Float(110),
		DailyChange: domain.PriceChange{Absolute: domain.Float(10), Percent: domain.Float(10)},
		High52Week:  domain.Float(112),
		Low52Week:   domain.Float(98),

		AverageVolume:     domain.Float(1500),
		AverageVolumeDays: 30,
		YTDReturn:         domain.Float(-5),
		MovingAverages: []domain.MovingAverageKPI{
			{Window: 50, Value: domain.Float(101.25)},
			{Window: 200, Value: domain.Null()},
		},
	}

	cards := NewFormatter("USD").Cards(set)
	require.Len(t, cards, 6)

	byID := make(map[string]domain.KPICard)
	for _, c := range cards {
		byID[c.ID] = c
	}

	assert.Equal(t, "$110.00", byID[CardLatestClose].Lines[0].Value)
	assert.Equal(t, "$10.00 (10.00%)", byID[CardDailyChange].Lines[0].Value)
	assert.Equal(t, domain.DirectionUp, byID[CardDailyChange].Direction)
	assert.Equal(t, []domain.CardLine{{Label: "High", Value: "$112.00"}, {Label: "Low", Value: "$98.00"}}, byID[CardHighLow].Lines)
	assert.Equal(t, "Average Volume (30 days)", byID[CardAverageVolume].Title)
	assert.Equal(t, "1,500", byID[CardAverageVolume].Lines[0].Value)
	assert.Equal(t, "-5.00%", byID[CardYTDReturn].Lines[0].Value)
	assert.Equal(t, domain.DirectionDown, byID[CardYTDReturn].Direction)
	assert.Equal(t, []domain.CardLine{{Label: "50-Day", Value: "$101.25"}, {Label: "200-Day", Value: NotAvailable}}, byID[CardMovingAverages].Lines)
}

func TestFormatter_CardsUndefinedPercent(t *testing.T) {
	set := domain.KPISet{
		DailyChange: domain.PriceChange{Absolute: domain.Float(5), PercentUndefined: true},
	}
	cards := NewFormatter("USD").Cards(set)
	assert.Equal(t, "$5.00 (N/A)", cards[1].Lines[0].Value)
	assert.Equal(t, NotAvailable, cards[0].Lines[0].Value)
	assert.Equal(t, domain.DirectionNeutral, cards[4].Direction)
}
