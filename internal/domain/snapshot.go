package domain

import "time"

// PortfolioSnapshot captures the account value at one polling instant.
// Snapshots are appended on a fixed interval into a bounded history.
type PortfolioSnapshot struct {
	Timestamp      time.Time
	TotalValue     float64
	Cash           float64
	PositionsValue float64
}

// AccountSnapshot is the account summary reported by the venue.
type AccountSnapshot struct {
	BuyingPower    float64
	Cash           float64
	PortfolioValue float64
}
