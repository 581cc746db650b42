package state

import (
	"sync"

	"github.com/tallmansamadam/ladybug-trading/internal/domain"
)

// TradeLog is the in-memory trade ledger. Records are append-only and
// immutable once stored; only an explicit Reset removes them. A sqlite
// repository mirrors this log for durability.
type TradeLog struct {
	mu      sync.RWMutex
	records []domain.TradeRecord
}

// NewTradeLog creates an empty trade ledger.
func NewTradeLog() *TradeLog {
	return &TradeLog{}
}

// Append adds a trade record to the ledger.
func (l *TradeLog) Append(record domain.TradeRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record)
}

// Len returns the number of recorded trades.
func (l *TradeLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// ReadAll returns a copy of the ledger in append order.
func (l *TradeLog) ReadAll() []domain.TradeRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.TradeRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Reset clears the ledger.
func (l *TradeLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
}
