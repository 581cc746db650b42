package indicators

import (
	"fmt"

	"github.com/tallmansamadam/ladybug-trading/internal/domain"
)

// RSI computes the Relative Strength Index over the trailing period of
// closing prices, using simple trailing averages of gains and losses.
// When the average loss is exactly zero the RSI is 100 by definition.
func RSI(bars []*domain.Bar, period int) (float64, error) {
	if len(bars) < period+1 {
		return 0, fmt.Errorf("not enough data (%d) to calculate RSI for period %d", len(bars), period)
	}

	// Changes over the trailing `period` closes.
	var avgGain, avgLoss float64
	start := len(bars) - period
	for i := start; i < len(bars); i++ {
		change := bars[i].Close - bars[i-1].Close
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return 100.0, nil
	}

	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs)), nil
}
