package engine

import (
	"fmt"
	"time"
)

const (
	// Regular US equity session, minutes since midnight Eastern.
	sessionOpenMinute  = 9*60 + 30
	sessionCloseMinute = 16 * 60
)

// MarketClock answers whether the regular US equity session is open.
// Crypto cycles never consult it; crypto trades around the clock.
type MarketClock struct {
	loc *time.Location
	now func() time.Time // overridable for tests
}

// NewMarketClock loads the exchange time zone. Failure here means the
// host has no tz database and the process should not trade equities.
func NewMarketClock() (*MarketClock, error) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return nil, fmt.Errorf("failed to load exchange time zone: %w", err)
	}
	return &MarketClock{loc: loc, now: time.Now}, nil
}

// IsOpen reports whether the regular session is open right now.
// Weekends are closed; holidays are not modeled, so a holiday weekday
// counts as open and the venue rejects the orders instead.
func (c *MarketClock) IsOpen() bool {
	return c.isOpenAt(c.now())
}

func (c *MarketClock) isOpenAt(t time.Time) bool {
	local := t.In(c.loc)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	minute := local.Hour()*60 + local.Minute()
	return minute >= sessionOpenMinute && minute < sessionCloseMinute
}
