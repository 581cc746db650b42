package domain

import "time"

// TradeRecord is one entry in the trade ledger. Records are immutable
// once created and are only ever removed by an explicit ledger reset.
type TradeRecord struct {
	ID          string      // UUID assigned at creation
	Timestamp   time.Time   // When the trade was executed
	Symbol      string      // Trading symbol
	Action      TradeAction // BUY or SELL
	Quantity    float64     // Traded quantity
	Price       float64     // Execution price
	RealizedPNL float64     // Realized profit/loss (0 for opening buys)
}
