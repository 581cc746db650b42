package domain

import "strings"

// TradeAction represents the direction of an executed trade.
type TradeAction string

const (
	ActionBuy  TradeAction = "BUY"
	ActionSell TradeAction = "SELL"
)

// AssetClass distinguishes equities from crypto pairs. It is assigned
// explicitly wherever symbols enter the system; classification from the
// symbol text alone happens only at the venue boundary, where positions
// arrive without a class attached.
type AssetClass string

const (
	AssetEquity AssetClass = "equity"
	AssetCrypto AssetClass = "crypto"
)

// CycleOutcome is the per-instrument result of one decision-policy pass.
type CycleOutcome string

const (
	OutcomeBuy          CycleOutcome = "buy"
	OutcomeSell         CycleOutcome = "sell"
	OutcomeProfitTake   CycleOutcome = "profit_take"
	OutcomeNeutral      CycleOutcome = "neutral"
	OutcomeInsufficient CycleOutcome = "insufficient_data"
)

// ClassifySymbol infers the asset class from the symbol shape: crypto
// pairs either carry a "/" separator ("BTC/USD") or a quote-currency
// suffix ("BTCUSD"). Everything else is treated as an equity ticker.
func ClassifySymbol(symbol string) AssetClass {
	if strings.Contains(symbol, "/") {
		return AssetCrypto
	}
	if strings.HasSuffix(symbol, "USD") && !strings.HasPrefix(symbol, "USD") && len(symbol) > 3 {
		return AssetCrypto
	}
	return AssetEquity
}
