package state

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallmansamadam/ladybug-trading/internal/domain"
)

func TestActivityLog_EvictsOldestAtCap(t *testing.T) {
	const cap = 20
	log := NewActivityLog(cap)

	for i := 0; i < cap+5; i++ {
		log.Append(domain.ActivityInfo, "Test", fmt.Sprintf("event %d", i), "")
	}

	require.Equal(t, cap, log.Len())

	entries := log.ReadAll()
	require.Len(t, entries, cap)

	// Newest first; the 5 oldest events must be gone.
	assert.Equal(t, "event 24", entries[0].Message)
	assert.Equal(t, "event 5", entries[len(entries)-1].Message)
	for _, e := range entries {
		for i := 0; i < 5; i++ {
			assert.NotEqual(t, fmt.Sprintf("event %d", i), e.Message)
		}
	}
}

func TestActivityLog_TimestampsOrderedNewestFirst(t *testing.T) {
	log := NewActivityLog(10)
	log.Info("System", "first")
	log.Success("System", "second")
	log.Warning("System", "third")

	entries := log.ReadAll()
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].Message)
	assert.Equal(t, domain.ActivityWarning, entries[0].Level)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Timestamp.After(entries[i-1].Timestamp))
	}
	for _, e := range entries {
		assert.NotEmpty(t, e.ID)
	}
}

func TestPortfolioHistory_RingOfMostRecent(t *testing.T) {
	const cap = 100
	history := NewPortfolioHistory(cap)

	base := time.Now().UTC()
	for i := 1; i <= 105; i++ {
		history.Append(domain.PortfolioSnapshot{
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			TotalValue: float64(i),
		})
	}

	require.Equal(t, cap, history.Len())
	snaps := history.ReadAll()
	require.Len(t, snaps, cap)

	// Oldest surviving snapshot is insertion #6.
	assert.Equal(t, 6.0, snaps[0].TotalValue)
	assert.Equal(t, 105.0, snaps[len(snaps)-1].TotalValue)
}

func TestTradeLog_AppendReadReset(t *testing.T) {
	log := NewTradeLog()
	log.Append(domain.TradeRecord{ID: "a", Symbol: "AAPL", Action: domain.ActionBuy})
	log.Append(domain.TradeRecord{ID: "b", Symbol: "AAPL", Action: domain.ActionSell})

	records := log.ReadAll()
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].ID)

	// The copy must not alias internal storage.
	records[0].ID = "mutated"
	assert.Equal(t, "a", log.ReadAll()[0].ID)

	log.Reset()
	assert.Zero(t, log.Len())
}

func TestRuntime_TogglesAndMode(t *testing.T) {
	rt := NewRuntime(domain.ModeHybrid, true, true)

	assert.True(t, rt.EquityTradingEnabled())
	rt.SetEquityTradingEnabled(false)
	assert.False(t, rt.EquityTradingEnabled())
	assert.True(t, rt.CryptoTradingEnabled())

	assert.Equal(t, domain.ModeHybrid, rt.Mode())
	rt.SetMode(domain.ModeVolatile)
	assert.Equal(t, domain.ModeVolatile, rt.Mode())

	symbols := rt.NewsSymbols()
	symbols[0] = "mutated"
	assert.NotEqual(t, "mutated", rt.NewsSymbols()[0])

	rt.SetNewsSymbols([]string{"NVDA"})
	assert.Equal(t, []string{"NVDA"}, rt.NewsSymbols())
}
