package domain

// ChartSpec is a Plotly-compatible chart description. Data carries the traces
// and Layout the figure layout, both as the plotting library expects them.
type ChartSpec struct {
	Kind   ChartKind `json:"kind"`
	Title  string    `json:"title"`
	Data   []Trace   `json:"data"`
	Layout Layout    `json:"layout"`
}

// Trace is a single Plotly trace. Only fields relevant to the dashboard are modelled.
type Trace struct {
	Type      string        `json:"type"`
	Name      string        `json:"name,omitempty"`
	Mode      string        `json:"mode,omitempty"`
	X         []any         `json:"x,omitempty"`
	Y         []any         `json:"y,omitempty"`
	Z         [][]NullFloat `json:"z,omitempty"`
	Open      []NullFloat   `json:"open,omitempty"`
	High      []NullFloat   `json:"high,omitempty"`
	Low       []NullFloat   `json:"low,omitempty"`
	Close     []NullFloat   `json:"close,omitempty"`
	Text      any           `json:"text,omitempty"`
	HoverInfo string        `json:"hoverinfo,omitempty"`
	YAxis     string        `json:"yaxis,omitempty"`
	Line      *Line         `json:"line,omitempty"`
	Marker    *Marker       `json:"marker,omitempty"`
	Fill      string        `json:"fill,omitempty"`
	FillColor string        `json:"fillcolor,omitempty"`

	ColorScale string    `json:"colorscale,omitempty"`
	ZMin       *float64  `json:"zmin,omitempty"`
	ZMax       *float64  `json:"zmax,omitempty"`
	ColorBar   *ColorBar `json:"colorbar,omitempty"`
	Contours   *Contours `json:"contours,omitempty"`
}

// Line styles a line trace.
type Line struct {
	Color string `json:"color,omitempty"`
}

// Marker styles markers and bars.
type Marker struct {
	Color     any     `json:"color,omitempty"`
	Size      any     `json:"size,omitempty"`
	SizeMode  string  `json:"sizemode,omitempty"`
	SizeRef   float64 `json:"sizeref,omitempty"`
	ShowScale bool    `json:"showscale,omitempty"`
}

// ColorBar titles a colour scale.
type ColorBar struct {
	Title string `json:"title,omitempty"`
}

// Contours configures contour traces.
type Contours struct {
	Coloring   string `json:"coloring,omitempty"`
	ShowLabels bool   `json:"showlabels,omitempty"`
}

// Layout is the figure layout.
type Layout struct {
	Title       string       `json:"title"`
	Template    string       `json:"template"`
	XAxis       Axis         `json:"xaxis"`
	YAxis       Axis         `json:"yaxis"`
	YAxis2      *Axis        `json:"yaxis2,omitempty"`
	Legend      *Legend      `json:"legend,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Axis configures one axis.
type Axis struct {
	Title       string       `json:"title,omitempty"`
	Color       string       `json:"color,omitempty"`
	Side        string       `json:"side,omitempty"`
	Overlaying  string       `json:"overlaying,omitempty"`
	RangeSlider *RangeSlider `json:"rangeslider,omitempty"`
}

// RangeSlider toggles the x-axis range slider.
type RangeSlider struct {
	Visible bool `json:"visible"`
}

// Legend places and titles the legend.
type Legend struct {
	Title       string  `json:"title,omitempty"`
	Orientation string  `json:"orientation,omitempty"`
	X           float64 `json:"x,omitempty"`
	XAnchor     string  `json:"xanchor,omitempty"`
	Y           float64 `json:"y,omitempty"`
}

// Annotation is a text label placed on the figure.
type Annotation struct {
	X         string `json:"x"`
	Y         string `json:"y"`
	Text      string `json:"text"`
	ShowArrow bool   `json:"showarrow"`
}
