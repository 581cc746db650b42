package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketClock(t *testing.T) {
	clock, err := NewMarketClock()
	require.NoError(t, err)

	// 2026-08-31 is a Monday.
	tests := []struct {
		name string
		at   string // local exchange time, RFC3339 without zone
		open bool
	}{
		{name: "monday mid-session", at: "2026-08-31T12:00:00", open: true},
		{name: "monday at the bell", at: "2026-08-31T09:30:00", open: true},
		{name: "monday one minute early", at: "2026-08-31T09:29:00", open: false},
		{name: "monday at the close", at: "2026-08-31T16:00:00", open: false},
		{name: "friday last minute", at: "2026-09-04T15:59:00", open: true},
		{name: "saturday", at: "2026-09-05T12:00:00", open: false},
		{name: "sunday", at: "2026-09-06T12:00:00", open: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at, err := time.ParseInLocation("2006-01-02T15:04:05", tt.at, clock.loc)
			require.NoError(t, err)
			assert.Equal(t, tt.open, clock.isOpenAt(at))
		})
	}
}

func TestMarketClock_ConvertsFromOtherZones(t *testing.T) {
	clock, err := NewMarketClock()
	require.NoError(t, err)

	// 18:00 UTC on a Monday in August is 14:00 Eastern (EDT), mid-session.
	at := time.Date(2026, 8, 31, 18, 0, 0, 0, time.UTC)
	assert.True(t, clock.isOpenAt(at))

	// 03:00 UTC Tuesday is 23:00 Eastern Monday, closed.
	at = time.Date(2026, 9, 1, 3, 0, 0, 0, time.UTC)
	assert.False(t, clock.isOpenAt(at))
}
