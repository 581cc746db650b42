package ports

import (
	"context"

	"github.com/tallmansamadam/ladybug-trading/internal/domain"
)

// OrderRequest describes a market order submitted to the execution venue.
type OrderRequest struct {
	Symbol      string
	Quantity    string // Venue-legal quantity, already formatted
	Side        domain.TradeAction
	TimeInForce string // "day" for equities, "gtc" for crypto
}

// OrderResponse holds the essential details returned after placing an order.
type OrderResponse struct {
	ID     string
	Symbol string
	Qty    string
	Side   string
	Status string
}

// MarketDataGateway is the contract with an execution venue: market data
// in, order instructions out. One implementation serves equities and a
// second serves crypto pairs; both expose the same logical contract.
//
// GetPositions and GetBars return empty slices on venue errors rather
// than failing the caller; the cycle scheduler treats empty data as a
// skip condition.
type MarketDataGateway interface {
	// GetAccount retrieves the current account summary.
	GetAccount(ctx context.Context) (*domain.AccountSnapshot, error)

	// GetPositions retrieves all open positions. Returns an empty slice
	// on venue error, never an error for an empty book.
	GetPositions(ctx context.Context) ([]*domain.Position, error)

	// GetBars retrieves up to limit historical bars for the symbol at
	// the given timeframe, ordered oldest to newest. Empty on failure.
	GetBars(ctx context.Context, symbol, timeframe string, limit int) ([]*domain.Bar, error)

	// GetLatestPrice retrieves the current price for the symbol,
	// preferring executed-trade data over quotes and falling back to the
	// latest bar close. Fails only when no path yields data.
	GetLatestPrice(ctx context.Context, symbol string) (float64, error)

	// PlaceOrder submits a market order.
	PlaceOrder(ctx context.Context, req OrderRequest) (*OrderResponse, error)

	// ClosePosition liquidates the entire position for the symbol.
	ClosePosition(ctx context.Context, symbol string) error
}
