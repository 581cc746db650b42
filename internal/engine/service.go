// Package engine is the application core: it schedules analysis
// cycles, applies the decision policy per instrument, and executes the
// resulting orders through the venue gateways.
package engine

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/tallmansamadam/ladybug-trading/config"
	"github.com/tallmansamadam/ladybug-trading/internal/domain"
	"github.com/tallmansamadam/ladybug-trading/internal/ports"
	"github.com/tallmansamadam/ladybug-trading/internal/state"
	"github.com/tallmansamadam/ladybug-trading/internal/strategy"
)

// Deps carries everything the engine needs. All fields are required.
type Deps struct {
	Cfg       *config.Config
	Logger    ports.Logger
	Equities  ports.MarketDataGateway
	Crypto    ports.MarketDataGateway
	Scorer    *strategy.Scorer
	Sentiment ports.SentimentProvider
	TradeRepo ports.TradeRepository
	Runtime   *state.Runtime
	Activity  *state.ActivityLog
	History   *state.PortfolioHistory
	Trades    *state.TradeLog
	Clock     *MarketClock
}

// Engine orchestrates the trading loops. All cross-goroutine state
// lives in the state containers; the engine itself holds only
// immutable wiring and is safe to share.
type Engine struct {
	cfg       *config.Config
	logger    ports.Logger
	equities  ports.MarketDataGateway
	crypto    ports.MarketDataGateway
	scorer    *strategy.Scorer
	sentiment ports.SentimentProvider
	tradeRepo ports.TradeRepository
	runtime   *state.Runtime
	activity  *state.ActivityLog
	history   *state.PortfolioHistory
	trades    *state.TradeLog
	clock     *MarketClock

	equityParams assetParams
	cryptoParams assetParams
}

// New validates the dependency set and derives the per-class decision
// parameters from configuration.
func New(deps Deps) (*Engine, error) {
	if deps.Cfg == nil || deps.Logger == nil || deps.Equities == nil || deps.Crypto == nil ||
		deps.Scorer == nil || deps.Sentiment == nil || deps.TradeRepo == nil ||
		deps.Runtime == nil || deps.Activity == nil || deps.History == nil ||
		deps.Trades == nil || deps.Clock == nil {
		return nil, fmt.Errorf("missing required dependencies for engine")
	}

	return &Engine{
		cfg:       deps.Cfg,
		logger:    deps.Logger,
		equities:  deps.Equities,
		crypto:    deps.Crypto,
		scorer:    deps.Scorer,
		sentiment: deps.Sentiment,
		tradeRepo: deps.TradeRepo,
		runtime:   deps.Runtime,
		activity:  deps.Activity,
		history:   deps.History,
		trades:    deps.Trades,
		clock:     deps.Clock,
		equityParams: assetParams{
			class:         domain.AssetEquity,
			buyThreshold:  deps.Cfg.EquityBuyThreshold,
			profitTakePct: deps.Cfg.EquityProfitTakePercent,
			riskFraction:  deps.Cfg.EquityRiskFraction,
			orderCap:      deps.Cfg.EquityOrderCap,
			timeInForce:   "day",
		},
		cryptoParams: assetParams{
			class:         domain.AssetCrypto,
			buyThreshold:  deps.Cfg.CryptoBuyThreshold,
			profitTakePct: deps.Cfg.CryptoProfitTakePercent,
			riskFraction:  deps.Cfg.CryptoRiskFraction,
			orderCap:      deps.Cfg.CryptoOrderCap,
			timeInForce:   "gtc",
		},
	}, nil
}

// Start runs the trading loops until the context is canceled or a
// termination signal arrives. It blocks for the lifetime of the engine
// and returns after all loops have drained.
func (e *Engine) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			e.logger.Info(ctx, "Received shutdown signal", map[string]interface{}{"signal": sig.String()})
			cancel()
		case <-ctx.Done():
		}
	}()

	e.logger.Info(ctx, "Starting trading engine", map[string]interface{}{
		"mode":           string(e.runtime.Mode()),
		"paper":          e.cfg.IsPaper,
		"equity_cycle":   e.cfg.EquityCycleInterval.String(),
		"crypto_cycle":   e.cfg.CryptoCycleInterval.String(),
		"equity_enabled": e.runtime.EquityTradingEnabled(),
		"crypto_enabled": e.runtime.CryptoTradingEnabled(),
	})
	e.activity.Info("system", "Trading engine started")

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		e.runEquityLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		e.runCryptoLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		e.runPortfolioLoop(ctx)
	}()

	<-ctx.Done()
	e.logger.Info(context.Background(), "Stopping trading engine")
	wg.Wait()
	e.activity.Info("system", "Trading engine stopped")
	return nil
}

// BookProfit liquidates the open position for symbol regardless of its
// current profit. It serves the manual-close endpoints and bypasses
// the signal pipeline entirely.
func (e *Engine) BookProfit(ctx context.Context, symbol string) (*domain.Position, error) {
	gw, params := e.gatewayFor(symbol)
	positions, err := gw.GetPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("position lookup: %w", err)
	}
	holding := reconcile(positions, symbol)
	if holding == nil {
		return nil, fmt.Errorf("%s: %w", symbol, ports.ErrPositionNotFound)
	}
	if err := e.closeHolding(ctx, gw, symbol, params, holding, domain.OutcomeSell); err != nil {
		return nil, err
	}
	return holding, nil
}

// BookAllProfits closes every position currently in profit, across
// both asset classes. It returns the positions it closed; failures on
// individual positions are logged and skipped. One listing covers the
// whole account: the equities gateway reports crypto holdings too.
func (e *Engine) BookAllProfits(ctx context.Context) []*domain.Position {
	positions, err := e.equities.GetPositions(ctx)
	if err != nil {
		e.logger.Error(ctx, err, "Failed to list positions for bulk profit booking")
		return nil
	}
	var closed []*domain.Position
	for _, p := range positions {
		if p.UnrealizedPNL <= 0 {
			continue
		}
		gw, params := e.gatewayFor(p.Symbol)
		if err := e.closeHolding(ctx, gw, p.Symbol, params, p, domain.OutcomeProfitTake); err != nil {
			e.logger.Error(ctx, err, "Failed to close profitable position", map[string]interface{}{"symbol": p.Symbol})
			continue
		}
		closed = append(closed, p)
	}
	return closed
}

// gatewayFor routes a symbol to the gateway and parameter set for its
// asset class.
func (e *Engine) gatewayFor(symbol string) (ports.MarketDataGateway, assetParams) {
	if domain.ClassifySymbol(symbol) == domain.AssetCrypto {
		return e.crypto, e.cryptoParams
	}
	return e.equities, e.equityParams
}
