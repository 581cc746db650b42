package ports

import (
	"context"

	"github.com/tallmansamadam/ladybug-trading/internal/domain"
)

// TradeRepository defines the interface for durable trade-ledger storage.
type TradeRepository interface {
	// CreateTrade saves a new trade record.
	CreateTrade(ctx context.Context, trade *domain.TradeRecord) error
	// FindRecent retrieves the most recent trades, newest first, up to a limit.
	FindRecent(ctx context.Context, limit int) ([]*domain.TradeRecord, error)
	// CountTodayBySymbol counts the trades executed today for a symbol.
	CountTodayBySymbol(ctx context.Context, symbol string) (int, error)
	// Reset removes all trade records.
	Reset(ctx context.Context) error
}
