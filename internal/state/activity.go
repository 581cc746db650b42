package state

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tallmansamadam/ladybug-trading/internal/domain"
)

// DefaultActivityCap is the bounded size of the activity ledger.
const DefaultActivityCap = 100

// ActivityLog is a bounded, timestamp-ordered append log of
// human-readable events. Entries are kept in a fixed-capacity ring:
// insertion and oldest-eviction are O(1), and the size never exceeds
// the cap after any insert.
type ActivityLog struct {
	mu      sync.RWMutex
	entries []domain.ActivityEntry
	head    int // index of the oldest entry once the ring is full
	size    int
	cap     int
}

// NewActivityLog creates an activity ledger bounded at cap entries.
func NewActivityLog(cap int) *ActivityLog {
	if cap <= 0 {
		cap = DefaultActivityCap
	}
	return &ActivityLog{
		entries: make([]domain.ActivityEntry, cap),
		cap:     cap,
	}
}

// Append records an event, evicting the oldest entry when full.
func (l *ActivityLog) Append(level domain.ActivityLevel, category, message, symbol string) {
	entry := domain.ActivityEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Level:     level,
		Category:  category,
		Message:   message,
		Symbol:    symbol,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.size < l.cap {
		l.entries[(l.head+l.size)%l.cap] = entry
		l.size++
		return
	}
	// Full: overwrite the oldest slot and advance the head.
	l.entries[l.head] = entry
	l.head = (l.head + 1) % l.cap
}

// Info records an informational event without an instrument.
func (l *ActivityLog) Info(category, message string) {
	l.Append(domain.ActivityInfo, category, message, "")
}

// Success records a success event without an instrument.
func (l *ActivityLog) Success(category, message string) {
	l.Append(domain.ActivitySuccess, category, message, "")
}

// Warning records a warning event without an instrument.
func (l *ActivityLog) Warning(category, message string) {
	l.Append(domain.ActivityWarning, category, message, "")
}

// Trade records an instrument-scoped trade event.
func (l *ActivityLog) Trade(level domain.ActivityLevel, message, symbol string) {
	l.Append(level, "Trade", message, symbol)
}

// Signal records an instrument-scoped signal event.
func (l *ActivityLog) Signal(message, symbol string) {
	l.Append(domain.ActivityInfo, "Signal", message, symbol)
}

// Analysis records an instrument-scoped analysis event.
func (l *ActivityLog) Analysis(message, symbol string) {
	l.Append(domain.ActivityInfo, "Analysis", message, symbol)
}

// Len returns the number of stored entries.
func (l *ActivityLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.size
}

// ReadAll returns a copy of the stored entries, newest first.
func (l *ActivityLog) ReadAll() []domain.ActivityEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.ActivityEntry, 0, l.size)
	for i := l.size - 1; i >= 0; i-- {
		out = append(out, l.entries[(l.head+i)%l.cap])
	}
	return out
}
