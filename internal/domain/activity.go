package domain

import "time"

// ActivityLevel classifies activity-ledger entries for the dashboard.
type ActivityLevel string

const (
	ActivityInfo    ActivityLevel = "info"
	ActivitySuccess ActivityLevel = "success"
	ActivityWarning ActivityLevel = "warning"
	ActivityError   ActivityLevel = "error"
)

// ActivityEntry is one human-readable event in the bounded activity
// ledger. Symbol is empty for events not tied to an instrument.
type ActivityEntry struct {
	ID        string
	Timestamp time.Time
	Level     ActivityLevel
	Category  string
	Message   string
	Symbol    string
}
