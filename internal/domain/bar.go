package domain

import "time"

// Bar represents a single OHLCV sample for an instrument at a timeframe.
// A fetched series is an immutable snapshot ordered oldest to newest;
// fresh data requires a re-fetch.
type Bar struct {
	Timestamp time.Time // Start time of the sampled interval
	Open      float64   // Opening price
	High      float64   // Highest price
	Low       float64   // Lowest price
	Close     float64   // Closing price
	Volume    float64   // Traded volume
}
