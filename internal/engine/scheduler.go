package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/jpillora/backoff"

	"github.com/tallmansamadam/ladybug-trading/internal/domain"
	"github.com/tallmansamadam/ladybug-trading/internal/metrics"
	"github.com/tallmansamadam/ladybug-trading/internal/ports"
)

const (
	barTimeframe = "1Day"
	barLimit     = 100
)

// runEquityLoop drives the equity analysis cycle on its configured
// interval. Cycles are skipped while equity trading is toggled off or
// the regular session is closed.
func (e *Engine) runEquityLoop(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.EquityCycleInterval)
	defer ticker.Stop()

	for {
		if e.runtime.EquityTradingEnabled() {
			if e.clock.IsOpen() {
				e.runCycle(ctx, e.equities, e.equityParams, e.runtime.Mode().EquitySymbols(), e.cfg.EquityInstrumentDelay)
			} else {
				e.logger.Debug(ctx, "Equity market closed, skipping cycle")
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// runCryptoLoop drives the crypto analysis cycle. Crypto trades around
// the clock, so the only gate is the runtime toggle.
func (e *Engine) runCryptoLoop(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.CryptoCycleInterval)
	defer ticker.Stop()

	for {
		if e.runtime.CryptoTradingEnabled() {
			e.runCycle(ctx, e.crypto, e.cryptoParams, e.runtime.Mode().CryptoSymbols(), e.cfg.CryptoInstrumentDelay)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// runCycle analyzes every instrument in the universe sequentially. The
// universe is the mode's list as read at cycle start; a mode switch
// mid-cycle takes effect on the next cycle. One instrument failing
// never aborts the cycle.
func (e *Engine) runCycle(ctx context.Context, gw ports.MarketDataGateway, params assetParams, symbols []string, delay time.Duration) {
	account, err := gw.GetAccount(ctx)
	if err != nil {
		e.logger.Error(ctx, err, "Cycle aborted: account fetch failed", map[string]interface{}{"asset_class": string(params.class)})
		e.activity.Warning("cycle", fmt.Sprintf("Skipped %s cycle: account unavailable", params.class))
		metrics.CycleFailures.WithLabelValues(string(params.class)).Inc()
		return
	}
	positions, err := gw.GetPositions(ctx)
	if err != nil {
		e.logger.Error(ctx, err, "Cycle aborted: positions fetch failed", map[string]interface{}{"asset_class": string(params.class)})
		metrics.CycleFailures.WithLabelValues(string(params.class)).Inc()
		return
	}

	counts := map[domain.CycleOutcome]int{}
	failures := 0
	for i, symbol := range symbols {
		if ctx.Err() != nil {
			return
		}
		outcome, err := e.analyzeInstrument(ctx, gw, params, symbol, positions, account)
		if err != nil {
			e.logger.Error(ctx, err, "Instrument analysis failed", map[string]interface{}{"symbol": symbol})
			e.activity.Warning("cycle", fmt.Sprintf("Analysis failed for %s: %v", symbol, err))
			metrics.CycleFailures.WithLabelValues(string(params.class)).Inc()
			failures++
		} else {
			counts[outcome]++
		}
		metrics.InstrumentsAnalyzed.WithLabelValues(string(params.class)).Inc()

		if i < len(symbols)-1 {
			if !sleepCtx(ctx, delay) {
				return
			}
		}
	}

	metrics.CyclesTotal.WithLabelValues(string(params.class)).Inc()
	e.logger.Info(ctx, "Analysis cycle complete", map[string]interface{}{
		"asset_class":  string(params.class),
		"instruments":  len(symbols),
		"buys":         counts[domain.OutcomeBuy],
		"sells":        counts[domain.OutcomeSell],
		"profit_takes": counts[domain.OutcomeProfitTake],
		"neutral":      counts[domain.OutcomeNeutral] + counts[domain.OutcomeInsufficient],
		"failures":     failures,
	})
	e.activity.Info("cycle", fmt.Sprintf("%s cycle: %d instruments, %d buys, %d sells, %d profit takes, %d failures",
		params.class, len(symbols), counts[domain.OutcomeBuy], counts[domain.OutcomeSell], counts[domain.OutcomeProfitTake], failures))
}

// analyzeInstrument scores one instrument and applies the decision
// policy. Thin history short-circuits to a neutral skip before any
// scoring happens.
func (e *Engine) analyzeInstrument(ctx context.Context, gw ports.MarketDataGateway, params assetParams, symbol string, positions []*domain.Position, account *domain.AccountSnapshot) (domain.CycleOutcome, error) {
	bars, err := gw.GetBars(ctx, symbol, barTimeframe, barLimit)
	if err != nil {
		return domain.OutcomeNeutral, fmt.Errorf("bars fetch for %s: %w", symbol, err)
	}
	if len(bars) < e.scorer.RequiredDataPoints() {
		e.activity.Analysis(fmt.Sprintf("Skipped %s: only %d bars of history", symbol, len(bars)), symbol)
		return domain.OutcomeInsufficient, nil
	}

	sentiment := e.sentiment.Get(symbol)
	signal := e.scorer.Score(bars, sentiment)
	holding := reconcile(positions, symbol)

	e.logger.Debug(ctx, "Instrument scored", map[string]interface{}{
		"symbol": symbol, "signal": signal, "sentiment": sentiment, "held": holding != nil,
	})
	return e.applyPolicy(ctx, gw, symbol, params, signal, holding, account)
}

// runPortfolioLoop snapshots account value on a fixed interval into the
// bounded history. Venue failures back off exponentially instead of
// hammering a degraded endpoint at the polling rate.
func (e *Engine) runPortfolioLoop(ctx context.Context) {
	b := &backoff.Backoff{
		Min:    2 * time.Second,
		Max:    2 * time.Minute,
		Factor: 2,
		Jitter: true,
	}

	for {
		if err := e.snapshotPortfolio(ctx); err != nil {
			d := b.Duration()
			e.logger.Warn(ctx, "Portfolio snapshot failed, backing off", map[string]interface{}{
				"error": err.Error(), "retry_in": d.String(),
			})
			if !sleepCtx(ctx, d) {
				return
			}
			continue
		}
		b.Reset()
		if !sleepCtx(ctx, e.cfg.PortfolioSnapInterval) {
			return
		}
	}
}

func (e *Engine) snapshotPortfolio(ctx context.Context) error {
	account, err := e.equities.GetAccount(ctx)
	if err != nil {
		return fmt.Errorf("account fetch: %w", err)
	}
	positions, err := e.equities.GetPositions(ctx)
	if err != nil {
		return fmt.Errorf("positions fetch: %w", err)
	}

	var positionsValue float64
	for _, p := range positions {
		positionsValue += p.MarketValue()
	}
	e.history.Append(domain.PortfolioSnapshot{
		Timestamp:      time.Now().UTC(),
		TotalValue:     account.PortfolioValue,
		Cash:           account.Cash,
		PositionsValue: positionsValue,
	})
	metrics.PortfolioValue.Set(account.PortfolioValue)
	return nil
}

// sleepCtx pauses for d and reports false when the context ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
