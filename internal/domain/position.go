package domain

// Position is a venue-reported holding. The gateway is the single source
// of truth for holdings; the engine never keeps an authoritative copy,
// so positions are re-read fresh each cycle.
type Position struct {
	Symbol        string     // Trading symbol (e.g., "AAPL", "BTC/USD")
	AssetClass    AssetClass // Equity or crypto
	Quantity      float64    // Held quantity (shares or coin amount)
	EntryPrice    float64    // Average entry price
	CurrentPrice  float64    // Latest venue price
	UnrealizedPNL float64    // Unrealized profit/loss in account currency
}

// MarketValue returns the current market value of the holding.
func (p *Position) MarketValue() float64 {
	return p.Quantity * p.CurrentPrice
}

// ProfitPercent returns the unrealized gain relative to the entry price,
// in percent. Zero when the entry price is unknown.
func (p *Position) ProfitPercent() float64 {
	if p.EntryPrice <= 0 {
		return 0
	}
	return ((p.CurrentPrice - p.EntryPrice) / p.EntryPrice) * 100.0
}
