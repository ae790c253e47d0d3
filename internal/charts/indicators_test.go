package charts

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/dataprocessing"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/pkg/contracts/domain"
)

const prices = `date,open,high,low,close,volume
2024-01-01,1,2,0.5,1,100
2024-01-02,2,3,1.5,2,200
2024-01-03,3,4,2.5,3,300
2024-01-04,4,5,3.5,4,400
2024-01-05,5,6,4.5,5,500
`

func parse(t *testing.T, input string) *dataprocessing.Table {
	t.Helper()
	table, err := dataprocessing.ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	return table
}

func TestRollingMean(t *testing.T) {
	got := RollingMean([]float64{1, 2, 3, 4, 5}, 3)
	assert.Equal(t, []domain.NullFloat{{}, {}, domain.Float(2), domain.Float(3), domain.Float(4)}, got)

	gap := RollingMean([]float64{1, math.NaN(), 3, 4}, 2)
	assert.Equal(t, []domain.NullFloat{{}, {}, {}, domain.Float(3.5)}, gap)

	assert.Len(t, RollingMean([]float64{1, 2}, 5), 2)
	assert.False(t, RollingMean([]float64{1, 2}, 0)[1].Valid)
}

func TestRollingStd_Sample(t *testing.T) {
	got := RollingStd([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 8)
	require.True(t, got[7].Valid)
	// population std is 2; sample std uses n-1
	assert.InDelta(t, math.Sqrt(32.0/7.0), got[7].Value, 1e-12)
	assert.False(t, got[6].Valid)

	assert.False(t, RollingStd([]float64{1, 2, 3}, 1)[2].Valid)
}

func TestWithMovingAverage_DoesNotModifyInput(t *testing.T) {
	table := parse(t, prices)
	before := table.Columns()

	derived, err := WithMovingAverage(table, 2)
	require.NoError(t, err)

	assert.Equal(t, before, table.Columns())
	assert.Equal(t, append(before, ColumnMovingAverage), derived.Columns())

	ma, _ := derived.Numbers(ColumnMovingAverage)
	assert.True(t, math.IsNaN(ma[0]))
	assert.Equal(t, []float64{1.5, 2.5, 3.5, 4.5}, ma[1:])

	_, err = WithMovingAverage(parse(t, "date\n2024-01-01\n"), 2)
	var cnf *dataprocessing.ColumnNotFoundError
	assert.ErrorAs(t, err, &cnf)
}

func TestWithBollingerBands(t *testing.T) {
	table := parse(t, prices)

	derived, err := WithBollingerBands(table, 3, 2)
	require.NoError(t, err)
	assert.NotContains(t, table.Columns(), ColumnUpperBand)

	mean, _ := derived.Numbers(ColumnMovingAverage)
	upper, _ := derived.Numbers(ColumnUpperBand)
	lower, _ := derived.Numbers(ColumnLowerBand)

	for i := 0; i < 2; i++ {
		assert.True(t, math.IsNaN(upper[i]))
		assert.True(t, math.IsNaN(lower[i]))
	}
	// window {1,2,3}: mean 2, sample std 1
	assert.InDelta(t, 2.0, mean[2], 1e-12)
	assert.InDelta(t, 4.0, upper[2], 1e-12)
	assert.InDelta(t, 0.0, lower[2], 1e-12)
	for i := 2; i < len(mean); i++ {
		assert.InDelta(t, mean[i]-lower[i], upper[i]-mean[i], 1e-12)
	}
}

func TestCorrelationMatrix(t *testing.T) {
	input := `date,low,close,volume,note
2024-01-01,1,10,5,a
2024-01-02,2,20,3,b
2024-01-03,3,30,1,c
`
	m, err := CorrelationMatrix(parse(t, input))
	require.NoError(t, err)
	assert.Equal(t, []string{"low", "close", "volume"}, m.Columns)

	for i := range m.Columns {
		assert.Equal(t, domain.Float(1), m.Values[i][i])
		for j := range m.Columns {
			assert.Equal(t, m.Values[i][j], m.Values[j][i])
		}
	}
	assert.InDelta(t, 1.0, m.Values[0][1].Value, 1e-12)
	assert.InDelta(t, -1.0, m.Values[0][2].Value, 1e-12)
}

func TestCorrelationMatrix_Degenerate(t *testing.T) {
	_, err := CorrelationMatrix(parse(t, "date,close\n2024-01-01,1\n"))
	assert.ErrorIs(t, err, ErrInsufficientCorrelationColumns)

	m, err := CorrelationMatrix(parse(t, "close,volume\n1,5\n2,5\n"))
	require.NoError(t, err)
	assert.False(t, m.Values[0][1].Valid)
	assert.False(t, m.Values[1][1].Valid)
	assert.Equal(t, domain.Float(1), m.Values[0][0])
}
