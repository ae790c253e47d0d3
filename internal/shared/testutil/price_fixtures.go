package testutil

import (
	"fmt"
	"strings"
	"time"
)

// SamplePricesCSV is a small, well-formed daily price file
const SamplePricesCSV = `date,open,high,low,close,volume
2024-01-01,100,105,99,100,1000
2024-01-02,100,112,98,110,2000
2024-01-03,110,111,101,105,1500
2024-01-04,105,108,100,107,1200
2024-01-05,107,115,106,114,3000
`

// PricesCSV generates n consecutive days of prices starting at start.
// Close rises by one each day from 100 and volume by ten from 1000.
func PricesCSV(start time.Time, n int) string {
	var b strings.Builder
	b.WriteString("date,open,high,low,close,volume\n")
	for i := 0; i < n; i++ {
		c := 100 + float64(i)
		fmt.Fprintf(&b, "%s,%g,%g,%g,%g,%d\n",
			start.AddDate(0, 0, i).Format("2006-01-02"), c-0.5, c+1, c-1, c, 1000+10*i)
	}
	return b.String()
}
