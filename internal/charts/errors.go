package charts

import (
	"fmt"
	"strings"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/pkg/contracts/domain"
)

// MissingChartColumnsError reports that a chart cannot be drawn from the
// selected columns. It concerns one chart only.
type MissingChartColumnsError struct {
	Kind     domain.ChartKind
	Required []string
	Missing  []string
	Err      error
}

func (e *MissingChartColumnsError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s chart: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s chart requires columns %s (missing: %s)",
		e.Kind, strings.Join(e.Required, ", "), strings.Join(e.Missing, ", "))
}

func (e *MissingChartColumnsError) Unwrap() error {
	return e.Err
}

// UnknownChartError reports a chart kind the builder does not know.
type UnknownChartError struct {
	Kind domain.ChartKind
}

func (e *UnknownChartError) Error() string {
	return fmt.Sprintf("unknown chart kind %q", e.Kind)
}
