package state

import (
	"sync"

	"github.com/tallmansamadam/ladybug-trading/internal/domain"
)

// Runtime holds the engine's mutable control state: the trading flags,
// the active trading mode and the sentiment-tracking symbol list. All
// access is through the narrow API under a single RWMutex; schedulers
// read it once at the top of each cycle, so toggles and mode switches
// take effect at the next tick, never retroactively.
type Runtime struct {
	mu            sync.RWMutex
	equityEnabled bool
	cryptoEnabled bool
	mode          domain.TradingMode
	newsSymbols   []string
}

// NewRuntime creates the runtime control state with its initial values.
func NewRuntime(mode domain.TradingMode, equityEnabled, cryptoEnabled bool) *Runtime {
	return &Runtime{
		equityEnabled: equityEnabled,
		cryptoEnabled: cryptoEnabled,
		mode:          mode,
		newsSymbols:   []string{"AAPL", "GOOGL", "BTC/USD", "ETH/USD"},
	}
}

// EquityTradingEnabled reports whether equity cycles may trade.
func (r *Runtime) EquityTradingEnabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.equityEnabled
}

// SetEquityTradingEnabled toggles equity trading for subsequent cycles.
func (r *Runtime) SetEquityTradingEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.equityEnabled = enabled
}

// CryptoTradingEnabled reports whether crypto cycles may trade.
func (r *Runtime) CryptoTradingEnabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cryptoEnabled
}

// SetCryptoTradingEnabled toggles crypto trading for subsequent cycles.
func (r *Runtime) SetCryptoTradingEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cryptoEnabled = enabled
}

// Mode returns the active trading mode.
func (r *Runtime) Mode() domain.TradingMode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mode
}

// SetMode switches the active trading mode. The new universe is picked
// up at the next cycle's symbol-list read.
func (r *Runtime) SetMode(mode domain.TradingMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mode = mode
}

// NewsSymbols returns a copy of the sentiment-tracking symbol list.
func (r *Runtime) NewsSymbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.newsSymbols))
	copy(out, r.newsSymbols)
	return out
}

// SetNewsSymbols replaces the sentiment-tracking symbol list.
func (r *Runtime) SetNewsSymbols(symbols []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.newsSymbols = make([]string, len(symbols))
	copy(r.newsSymbols, symbols)
}
