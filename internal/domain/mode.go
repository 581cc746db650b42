package domain

import "fmt"

// TradingMode selects the active instrument universe. Exactly one mode
// is active at a time; a switch takes effect when the next cycle reads
// its symbol list, never mid-cycle.
type TradingMode string

const (
	ModeConservative TradingMode = "Conservative"
	ModeVolatile     TradingMode = "Volatile"
	ModeHybrid       TradingMode = "Hybrid"
)

// ParseTradingMode validates a mode name received from configuration or
// the control API.
func ParseTradingMode(s string) (TradingMode, error) {
	switch TradingMode(s) {
	case ModeConservative, ModeVolatile, ModeHybrid:
		return TradingMode(s), nil
	default:
		return "", fmt.Errorf("unknown trading mode %q", s)
	}
}

// EquitySymbols returns the equity universe for the mode.
func (m TradingMode) EquitySymbols() []string {
	switch m {
	case ModeConservative:
		return []string{
			"AAPL", "GOOGL", "MSFT", "TSLA", "AMZN",
			"NVDA", "META", "NFLX", "AMD", "INTC",
			"PYPL", "ADBE", "CRM", "ORCL", "QCOM",
			"TXN", "AVGO", "CSCO", "ASML", "AMAT",
		}
	case ModeVolatile:
		return []string{
			"TSLA", "GME", "PLTR", "RIOT",
			"MARA", "MSTR", "COIN", "ROKU", "SNAP",
			"SQ", "SHOP", "ARKK", "UPST", "CRWD",
			"ZM", "UBER", "LYFT", "DKNG", "HOOD", "SOFI",
		}
	default: // Hybrid: ten stable plus ten volatile, no duplicates
		return []string{
			"AAPL", "GOOGL", "MSFT", "AMZN", "META",
			"NFLX", "ADBE", "CRM", "ORCL", "CSCO",
			"TSLA", "GME", "PLTR", "RIOT", "COIN",
			"MSTR", "SNAP", "ROKU", "MARA", "ARKK",
		}
	}
}

// CryptoSymbols returns the crypto-pair universe for the mode.
func (m TradingMode) CryptoSymbols() []string {
	switch m {
	case ModeConservative:
		return []string{"BTC/USD", "ETH/USD", "XRP/USD"}
	case ModeVolatile:
		return []string{
			"BTC/USD", "ETH/USD", "SOL/USD",
			"DOGE/USD", "AVAX/USD", "MATIC/USD",
		}
	default:
		return []string{
			"BTC/USD", "ETH/USD", "SOL/USD",
			"DOGE/USD", "AVAX/USD",
		}
	}
}
