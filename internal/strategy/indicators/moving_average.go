package indicators

import (
	"fmt"

	"github.com/tallmansamadam/ladybug-trading/internal/domain"
)

// SMA computes the Simple Moving Average of the trailing period closes.
func SMA(bars []*domain.Bar, period int) (float64, error) {
	if len(bars) < period {
		return 0, fmt.Errorf("not enough data (%d) to calculate SMA for period %d", len(bars), period)
	}

	total := 0.0
	for i := len(bars) - period; i < len(bars); i++ {
		total += bars[i].Close
	}
	return total / float64(period), nil
}

// EMA computes the Exponential Moving Average of the closes, seeded with
// the SMA of the oldest `period` bars.
func EMA(bars []*domain.Bar, period int) (float64, error) {
	if len(bars) < period {
		return 0, fmt.Errorf("not enough data (%d) to calculate EMA for period %d", len(bars), period)
	}

	multiplier := 2.0 / float64(period+1)

	ema, err := SMA(bars[:period], period)
	if err != nil {
		return 0, fmt.Errorf("failed to seed EMA: %w", err)
	}
	for i := period; i < len(bars); i++ {
		ema = (bars[i].Close-ema)*multiplier + ema
	}
	return ema, nil
}
