package state

import (
	"sync"

	"github.com/tallmansamadam/ladybug-trading/internal/domain"
)

// DefaultHistoryCap is the bounded size of the portfolio history ring.
const DefaultHistoryCap = 100

// PortfolioHistory is a fixed-capacity ring of the most recent portfolio
// snapshots. Oldest snapshots are evicted first; insert and eviction are
// both O(1).
type PortfolioHistory struct {
	mu        sync.RWMutex
	snapshots []domain.PortfolioSnapshot
	head      int
	size      int
	cap       int
}

// NewPortfolioHistory creates a snapshot ring bounded at cap entries.
func NewPortfolioHistory(cap int) *PortfolioHistory {
	if cap <= 0 {
		cap = DefaultHistoryCap
	}
	return &PortfolioHistory{
		snapshots: make([]domain.PortfolioSnapshot, cap),
		cap:       cap,
	}
}

// Append records a snapshot, evicting the oldest when full.
func (h *PortfolioHistory) Append(snap domain.PortfolioSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.size < h.cap {
		h.snapshots[(h.head+h.size)%h.cap] = snap
		h.size++
		return
	}
	h.snapshots[h.head] = snap
	h.head = (h.head + 1) % h.cap
}

// Len returns the number of stored snapshots.
func (h *PortfolioHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.size
}

// ReadAll returns a copy of the stored snapshots, oldest first.
func (h *PortfolioHistory) ReadAll() []domain.PortfolioSnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]domain.PortfolioSnapshot, 0, h.size)
	for i := 0; i < h.size; i++ {
		out = append(out, h.snapshots[(h.head+i)%h.cap])
	}
	return out
}
