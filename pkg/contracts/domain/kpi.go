package domain

// PriceChange is the change between the last two closes of a window.
type PriceChange struct {
	Absolute NullFloat `json:"absolute"`
	Percent  NullFloat `json:"percent"`

	// PercentUndefined is set when the previous close is zero and the
	// percentage cannot be computed.
	PercentUndefined bool `json:"percent_undefined,omitempty"`
}

// KPISet is the full set of key performance indicators for a filtered window.
// Every value is optional; absent values marshal to null.
type KPISet struct {
	LatestClose       NullFloat          `json:"latest_close"`
	DailyChange       PriceChange        `json:"daily_change"`
	High52Week        NullFloat          `json:"high_52_week"`
	Low52Week         NullFloat          `json:"low_52_week"`
	AverageVolume     NullFloat          `json:"average_volume"`
	AverageVolumeDays int                `json:"average_volume_days"`
	YTDReturn         NullFloat          `json:"ytd_return"`
	MovingAverages    []MovingAverageKPI `json:"moving_averages"`
	Rows              int                `json:"rows"`
}

// MovingAverageKPI is the trailing moving average of close for one window.
type MovingAverageKPI struct {
	Window int       `json:"window"`
	Value  NullFloat `json:"value"`
}

// Direction hints how a card value should be coloured.
type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionNeutral Direction = "neutral"
)

// KPICard is a display-ready rendering of one KPI.
type KPICard struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Lines     []CardLine `json:"lines"`
	Direction Direction  `json:"direction"`
}

// CardLine is one labelled value on a card. Label is empty for single-value cards.
type CardLine struct {
	Label string `json:"label,omitempty"`
	Value string `json:"value"`
}
