package engine

import (
	"strings"

	"github.com/tallmansamadam/ladybug-trading/internal/domain"
)

// reconcile finds the open position matching symbol within the venue's
// position book, or nil when the instrument is not held. Symbols are
// compared with separators stripped: the trading universe says
// "BTC/USD" while the venue reports the position as "BTCUSD".
func reconcile(positions []*domain.Position, symbol string) *domain.Position {
	want := normalizeSymbol(symbol)
	for _, p := range positions {
		if normalizeSymbol(p.Symbol) == want {
			return p
		}
	}
	return nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "/", ""))
}
