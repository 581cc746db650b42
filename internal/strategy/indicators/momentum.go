package indicators

import (
	"fmt"

	"github.com/tallmansamadam/ladybug-trading/internal/domain"
)

// Momentum returns the relative change of the latest close against the
// close `lookback` bars earlier.
func Momentum(bars []*domain.Bar, lookback int) (float64, error) {
	if len(bars) < lookback {
		return 0, fmt.Errorf("not enough data (%d) to calculate momentum over %d bars", len(bars), lookback)
	}
	reference := bars[len(bars)-lookback].Close
	if reference == 0 {
		return 0, fmt.Errorf("zero reference close %d bars back", lookback)
	}
	return (bars[len(bars)-1].Close - reference) / reference, nil
}
