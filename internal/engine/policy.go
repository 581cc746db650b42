package engine

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallmansamadam/ladybug-trading/internal/domain"
	"github.com/tallmansamadam/ladybug-trading/internal/metrics"
	"github.com/tallmansamadam/ladybug-trading/internal/ports"
)

// cryptoQtyPlaces is the venue's maximum fractional precision for
// crypto order quantities.
const cryptoQtyPlaces = 6

// assetParams bundles the per-class decision knobs. The policy itself
// is identical for both classes; only the numbers and the order
// formatting differ.
type assetParams struct {
	class         domain.AssetClass
	buyThreshold  float64
	profitTakePct float64
	riskFraction  float64
	orderCap      float64
	timeInForce   string
}

// applyPolicy runs the decision rules for one instrument and executes
// whatever they call for. Rule order is fixed: profit taking outranks a
// sell signal, and a held instrument is never bought again.
func (e *Engine) applyPolicy(ctx context.Context, gw ports.MarketDataGateway, symbol string, params assetParams, signal float64, holding *domain.Position, account *domain.AccountSnapshot) (domain.CycleOutcome, error) {
	if holding != nil && holding.ProfitPercent() >= params.profitTakePct {
		if err := e.closeHolding(ctx, gw, symbol, params, holding, domain.OutcomeProfitTake); err != nil {
			return domain.OutcomeNeutral, err
		}
		metrics.ProfitTakesTotal.WithLabelValues(string(params.class)).Inc()
		return domain.OutcomeProfitTake, nil
	}

	if holding == nil && signal > params.buyThreshold {
		return e.openPosition(ctx, gw, symbol, params, signal, account)
	}

	if holding != nil && signal < -params.buyThreshold {
		if err := e.closeHolding(ctx, gw, symbol, params, holding, domain.OutcomeSell); err != nil {
			return domain.OutcomeNeutral, err
		}
		return domain.OutcomeSell, nil
	}

	return domain.OutcomeNeutral, nil
}

// openPosition sizes and submits a market buy. Sizing is the capped
// fraction of buying power; a budget too small for the venue's minimum
// quantity resolves to a no-op rather than an error.
func (e *Engine) openPosition(ctx context.Context, gw ports.MarketDataGateway, symbol string, params assetParams, signal float64, account *domain.AccountSnapshot) (domain.CycleOutcome, error) {
	price, err := gw.GetLatestPrice(ctx, symbol)
	if err != nil {
		return domain.OutcomeNeutral, fmt.Errorf("price lookup for %s: %w", symbol, err)
	}
	if price <= 0 {
		return domain.OutcomeNeutral, fmt.Errorf("price lookup for %s: %w", symbol, ports.ErrNoPriceData)
	}

	notional := math.Min(account.BuyingPower*params.riskFraction, params.orderCap)
	qty, qtyStr := orderQuantity(params.class, notional, price)
	if qty <= 0 {
		e.activity.Analysis(fmt.Sprintf("Skipped %s buy: budget $%.2f below one unit at $%.2f", symbol, notional, price), symbol)
		return domain.OutcomeInsufficient, nil
	}

	order, err := gw.PlaceOrder(ctx, ports.OrderRequest{
		Symbol:      symbol,
		Quantity:    qtyStr,
		Side:        domain.ActionBuy,
		TimeInForce: params.timeInForce,
	})
	if err != nil {
		return domain.OutcomeNeutral, fmt.Errorf("buy order for %s: %w", symbol, err)
	}

	e.logger.Info(ctx, "Buy order submitted", map[string]interface{}{
		"symbol": symbol, "qty": qtyStr, "price": price, "signal": signal, "order_id": order.ID,
	})
	metrics.OrdersTotal.WithLabelValues(string(params.class), "buy").Inc()
	e.recordTrade(ctx, domain.TradeRecord{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Symbol:    symbol,
		Action:    domain.ActionBuy,
		Quantity:  qty,
		Price:     price,
	}, domain.ActivitySuccess, fmt.Sprintf("Bought %s x %s @ $%.2f (signal %.3f)", qtyStr, symbol, price, signal))
	return domain.OutcomeBuy, nil
}

// closeHolding liquidates the full position and records the realized
// result. reason distinguishes profit taking from a sell signal in the
// ledger message only; the venue call is the same.
func (e *Engine) closeHolding(ctx context.Context, gw ports.MarketDataGateway, symbol string, params assetParams, holding *domain.Position, reason domain.CycleOutcome) error {
	if err := gw.ClosePosition(ctx, holding.Symbol); err != nil {
		return fmt.Errorf("close position %s: %w", holding.Symbol, err)
	}

	verb := "Sold"
	if reason == domain.OutcomeProfitTake {
		verb = "Took profit on"
	}
	e.logger.Info(ctx, "Position closed", map[string]interface{}{
		"symbol": holding.Symbol, "qty": holding.Quantity, "pnl": holding.UnrealizedPNL, "reason": string(reason),
	})
	metrics.OrdersTotal.WithLabelValues(string(params.class), "sell").Inc()
	e.recordTrade(ctx, domain.TradeRecord{
		ID:          uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		Symbol:      symbol,
		Action:      domain.ActionSell,
		Quantity:    holding.Quantity,
		Price:       holding.CurrentPrice,
		RealizedPNL: holding.UnrealizedPNL,
	}, domain.ActivitySuccess, fmt.Sprintf("%s %s: %.4f units, P&L $%.2f (%.2f%%)", verb, symbol, holding.Quantity, holding.UnrealizedPNL, holding.ProfitPercent()))
	return nil
}

// recordTrade appends to the in-memory trade log, mirrors the record to
// durable storage, and posts an activity entry. A storage failure is
// logged but never blocks the trading path.
func (e *Engine) recordTrade(ctx context.Context, record domain.TradeRecord, level domain.ActivityLevel, message string) {
	e.trades.Append(record)
	if err := e.tradeRepo.CreateTrade(ctx, &record); err != nil {
		e.logger.Error(ctx, err, "Failed to persist trade record", map[string]interface{}{"trade_id": record.ID, "symbol": record.Symbol})
	}
	e.activity.Trade(level, message, record.Symbol)
}

// orderQuantity converts a dollar budget into a venue-legal quantity.
// Equities trade whole shares; crypto quantities carry up to six
// decimal places, truncated rather than rounded so the order can never
// exceed the budget.
func orderQuantity(class domain.AssetClass, notional, price float64) (float64, string) {
	if class == domain.AssetCrypto {
		qty := decimal.NewFromFloat(notional).
			Div(decimal.NewFromFloat(price)).
			Truncate(cryptoQtyPlaces)
		f, _ := qty.Float64()
		return f, qty.String()
	}
	shares := math.Floor(notional / price)
	return shares, strconv.Itoa(int(shares))
}
