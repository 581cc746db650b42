package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallmansamadam/ladybug-trading/config"
	"github.com/tallmansamadam/ladybug-trading/internal/domain"
	"github.com/tallmansamadam/ladybug-trading/internal/ports"
	"github.com/tallmansamadam/ladybug-trading/internal/state"
	"github.com/tallmansamadam/ladybug-trading/internal/strategy"
)

// --- Mocks ---

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

type mockGateway struct {
	account    *domain.AccountSnapshot
	accountErr error
	positions  []*domain.Position
	bars       map[string][]*domain.Bar
	barsErr    map[string]error
	price      float64
	priceErr   error
	placeErr   error
	closeErr   error

	barsCalls []string
	placed    []ports.OrderRequest
	closed    []string
}

func (m *mockGateway) GetAccount(ctx context.Context) (*domain.AccountSnapshot, error) {
	if m.accountErr != nil {
		return nil, m.accountErr
	}
	return m.account, nil
}

func (m *mockGateway) GetPositions(ctx context.Context) ([]*domain.Position, error) {
	return m.positions, nil
}

func (m *mockGateway) GetBars(ctx context.Context, symbol, timeframe string, limit int) ([]*domain.Bar, error) {
	m.barsCalls = append(m.barsCalls, symbol)
	if err := m.barsErr[symbol]; err != nil {
		return nil, err
	}
	return m.bars[symbol], nil
}

func (m *mockGateway) GetLatestPrice(ctx context.Context, symbol string) (float64, error) {
	if m.priceErr != nil {
		return 0, m.priceErr
	}
	return m.price, nil
}

func (m *mockGateway) PlaceOrder(ctx context.Context, req ports.OrderRequest) (*ports.OrderResponse, error) {
	if m.placeErr != nil {
		return nil, m.placeErr
	}
	m.placed = append(m.placed, req)
	return &ports.OrderResponse{ID: "order-1", Symbol: req.Symbol, Qty: req.Quantity, Status: "accepted"}, nil
}

func (m *mockGateway) ClosePosition(ctx context.Context, symbol string) error {
	if m.closeErr != nil {
		return m.closeErr
	}
	m.closed = append(m.closed, symbol)
	return nil
}

type mockTradeRepo struct {
	created []*domain.TradeRecord
	err     error
}

func (m *mockTradeRepo) CreateTrade(ctx context.Context, trade *domain.TradeRecord) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, trade)
	return nil
}
func (m *mockTradeRepo) FindRecent(ctx context.Context, limit int) ([]*domain.TradeRecord, error) {
	return m.created, nil
}
func (m *mockTradeRepo) CountTodayBySymbol(ctx context.Context, symbol string) (int, error) {
	return 0, nil
}
func (m *mockTradeRepo) Reset(ctx context.Context) error { return nil }

type mockSentiment struct{ score float64 }

func (m *mockSentiment) Get(symbol string) float64 { return m.score }

// --- Helpers ---

func testConfig() *config.Config {
	return &config.Config{
		EquityCycleInterval:     5 * time.Minute,
		CryptoCycleInterval:     10 * time.Minute,
		PortfolioSnapInterval:   time.Minute,
		EquityBuyThreshold:      0.15,
		CryptoBuyThreshold:      0.20,
		EquityProfitTakePercent: 15.0,
		CryptoProfitTakePercent: 20.0,
		EquityRiskFraction:      0.05,
		CryptoRiskFraction:      0.02,
		EquityOrderCap:          5000.0,
		CryptoOrderCap:          2000.0,
	}
}

func newTestEngine(t *testing.T, equities, crypto *mockGateway) (*Engine, *mockTradeRepo) {
	t.Helper()

	logger := &mockLogger{}
	scorer, err := strategy.New(strategy.Config{}, logger)
	require.NoError(t, err)
	clock, err := NewMarketClock()
	require.NoError(t, err)

	repo := &mockTradeRepo{}
	eng, err := New(Deps{
		Cfg:       testConfig(),
		Logger:    logger,
		Equities:  equities,
		Crypto:    crypto,
		Scorer:    scorer,
		Sentiment: &mockSentiment{},
		TradeRepo: repo,
		Runtime:   state.NewRuntime(domain.ModeHybrid, true, true),
		Activity:  state.NewActivityLog(state.DefaultActivityCap),
		History:   state.NewPortfolioHistory(state.DefaultHistoryCap),
		Trades:    state.NewTradeLog(),
		Clock:     clock,
	})
	require.NoError(t, err)
	return eng, repo
}

func flatAccount() *domain.AccountSnapshot {
	return &domain.AccountSnapshot{BuyingPower: 10000.0, Cash: 10000.0, PortfolioValue: 10000.0}
}

func risingBars(n int) []*domain.Bar {
	bars := make([]*domain.Bar, n)
	for i := range bars {
		bars[i] = &domain.Bar{Close: 100.0 + float64(i)}
	}
	return bars
}

// --- Decision policy ---

func TestApplyPolicy_ProfitTakeOutranksSellSignal(t *testing.T) {
	gw := &mockGateway{}
	eng, repo := newTestEngine(t, gw, &mockGateway{})

	holding := &domain.Position{
		Symbol:        "AAPL",
		AssetClass:    domain.AssetEquity,
		Quantity:      10,
		EntryPrice:    100.0,
		CurrentPrice:  116.0, // +16%, above the 15% take level
		UnrealizedPNL: 160.0,
	}

	// A strongly bearish signal alongside the profit condition still
	// resolves as a profit take.
	outcome, err := eng.applyPolicy(context.Background(), gw, "AAPL", eng.equityParams, -0.9, holding, flatAccount())
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeProfitTake, outcome)
	assert.Equal(t, []string{"AAPL"}, gw.closed)

	require.Len(t, repo.created, 1)
	assert.Equal(t, domain.ActionSell, repo.created[0].Action)
	assert.InDelta(t, 160.0, repo.created[0].RealizedPNL, 1e-9)
}

func TestApplyPolicy_BuySizesFromBuyingPower(t *testing.T) {
	gw := &mockGateway{price: 150.0}
	eng, repo := newTestEngine(t, gw, &mockGateway{})

	// min(10000 * 0.05, 5000) = 500 budget; floor(500 / 150) = 3 shares.
	outcome, err := eng.applyPolicy(context.Background(), gw, "AAPL", eng.equityParams, 0.5, nil, flatAccount())
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeBuy, outcome)

	require.Len(t, gw.placed, 1)
	assert.Equal(t, "3", gw.placed[0].Quantity)
	assert.Equal(t, domain.ActionBuy, gw.placed[0].Side)
	assert.Equal(t, "day", gw.placed[0].TimeInForce)

	require.Len(t, repo.created, 1)
	assert.Equal(t, 3.0, repo.created[0].Quantity)
	assert.Equal(t, 150.0, repo.created[0].Price)
	assert.Zero(t, repo.created[0].RealizedPNL)
	require.Equal(t, 1, eng.trades.Len())
}

func TestApplyPolicy_BuySkippedWhenBudgetBelowOneShare(t *testing.T) {
	gw := &mockGateway{price: 1000.0} // budget 500 buys zero whole shares
	eng, repo := newTestEngine(t, gw, &mockGateway{})

	outcome, err := eng.applyPolicy(context.Background(), gw, "NVDA", eng.equityParams, 0.5, nil, flatAccount())
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeInsufficient, outcome)
	assert.Empty(t, gw.placed)
	assert.Empty(t, repo.created)
}

func TestApplyPolicy_CryptoQuantityTruncatedToSixPlaces(t *testing.T) {
	gw := &mockGateway{price: 30000.0}
	eng, _ := newTestEngine(t, &mockGateway{}, gw)

	// min(10000 * 0.02, 2000) = 200 budget; 200 / 30000 = 0.00666...,
	// truncated (not rounded) at six decimal places.
	outcome, err := eng.applyPolicy(context.Background(), gw, "BTC/USD", eng.cryptoParams, 0.5, nil, flatAccount())
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeBuy, outcome)

	require.Len(t, gw.placed, 1)
	assert.Equal(t, "0.006666", gw.placed[0].Quantity)
	assert.Equal(t, "gtc", gw.placed[0].TimeInForce)
}

func TestApplyPolicy_HeldInstrumentNotBoughtAgain(t *testing.T) {
	gw := &mockGateway{price: 150.0}
	eng, _ := newTestEngine(t, gw, &mockGateway{})

	holding := &domain.Position{
		Symbol:       "AAPL",
		AssetClass:   domain.AssetEquity,
		Quantity:     5,
		EntryPrice:   100.0,
		CurrentPrice: 105.0, // +5%, below the take level
	}

	outcome, err := eng.applyPolicy(context.Background(), gw, "AAPL", eng.equityParams, 0.9, holding, flatAccount())
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNeutral, outcome)
	assert.Empty(t, gw.placed)
	assert.Empty(t, gw.closed)
}

func TestApplyPolicy_SellsOnBearishSignal(t *testing.T) {
	gw := &mockGateway{}
	eng, repo := newTestEngine(t, gw, &mockGateway{})

	holding := &domain.Position{
		Symbol:        "MSFT",
		AssetClass:    domain.AssetEquity,
		Quantity:      4,
		EntryPrice:    100.0,
		CurrentPrice:  98.0,
		UnrealizedPNL: -8.0,
	}

	outcome, err := eng.applyPolicy(context.Background(), gw, "MSFT", eng.equityParams, -0.4, holding, flatAccount())
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeSell, outcome)
	assert.Equal(t, []string{"MSFT"}, gw.closed)

	require.Len(t, repo.created, 1)
	assert.InDelta(t, -8.0, repo.created[0].RealizedPNL, 1e-9)
}

func TestApplyPolicy_OrderFailurePropagates(t *testing.T) {
	venueErr := errors.New("venue rejected")
	gw := &mockGateway{price: 150.0, placeErr: venueErr}
	eng, repo := newTestEngine(t, gw, &mockGateway{})

	_, err := eng.applyPolicy(context.Background(), gw, "AAPL", eng.equityParams, 0.5, nil, flatAccount())
	require.Error(t, err)
	assert.ErrorIs(t, err, venueErr)
	assert.Empty(t, repo.created)
	assert.Zero(t, eng.trades.Len())
}

// --- Cycle scheduling ---

func TestRunCycle_InstrumentFailureDoesNotAbortCycle(t *testing.T) {
	gw := &mockGateway{
		account: flatAccount(),
		bars: map[string][]*domain.Bar{
			"AAPL": risingBars(10), // thin history, neutral skip
			"AMZN": risingBars(10),
		},
		barsErr: map[string]error{"MSFT": errors.New("bars unavailable")},
	}
	eng, _ := newTestEngine(t, gw, &mockGateway{})

	eng.runCycle(context.Background(), gw, eng.equityParams, []string{"AAPL", "MSFT", "AMZN"}, 0)

	// The failed instrument is skipped; the ones after it still run.
	assert.Equal(t, []string{"AAPL", "MSFT", "AMZN"}, gw.barsCalls)
}

func TestRunCycle_AccountFailureSkipsCycle(t *testing.T) {
	gw := &mockGateway{accountErr: errors.New("account unavailable")}
	eng, _ := newTestEngine(t, gw, &mockGateway{})

	eng.runCycle(context.Background(), gw, eng.equityParams, []string{"AAPL"}, 0)
	assert.Empty(t, gw.barsCalls)
}

func TestRunCycle_ModeSwitchTakesEffectNextCycle(t *testing.T) {
	gw := &mockGateway{account: flatAccount(), bars: map[string][]*domain.Bar{}}
	eng, _ := newTestEngine(t, gw, &mockGateway{})

	first := eng.runtime.Mode().EquitySymbols()
	eng.runCycle(context.Background(), gw, eng.equityParams, first, 0)
	assert.Equal(t, first, gw.barsCalls)

	eng.runtime.SetMode(domain.ModeConservative)
	gw.barsCalls = nil
	second := eng.runtime.Mode().EquitySymbols()
	eng.runCycle(context.Background(), gw, eng.equityParams, second, 0)
	assert.Equal(t, second, gw.barsCalls)
	assert.NotEqual(t, first, second)
}

// --- Portfolio snapshots ---

func TestSnapshotPortfolio_AppendsToHistory(t *testing.T) {
	gw := &mockGateway{
		account: &domain.AccountSnapshot{BuyingPower: 5000, Cash: 4000, PortfolioValue: 10500},
		positions: []*domain.Position{
			{Symbol: "AAPL", Quantity: 10, CurrentPrice: 150},
			{Symbol: "BTCUSD", Quantity: 0.1, CurrentPrice: 50000},
		},
	}
	eng, _ := newTestEngine(t, gw, &mockGateway{})

	require.NoError(t, eng.snapshotPortfolio(context.Background()))
	snaps := eng.history.ReadAll()
	require.Len(t, snaps, 1)
	assert.Equal(t, 10500.0, snaps[0].TotalValue)
	assert.Equal(t, 4000.0, snaps[0].Cash)
	assert.InDelta(t, 1500+5000, snaps[0].PositionsValue, 1e-9)
}

// --- Manual closes ---

func TestBookProfit_ClosesHeldPosition(t *testing.T) {
	equities := &mockGateway{
		positions: []*domain.Position{
			{Symbol: "AAPL", AssetClass: domain.AssetEquity, Quantity: 10, EntryPrice: 100, CurrentPrice: 110, UnrealizedPNL: 100},
		},
	}
	eng, repo := newTestEngine(t, equities, &mockGateway{})

	pos, err := eng.BookProfit(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", pos.Symbol)
	assert.Equal(t, []string{"AAPL"}, equities.closed)
	require.Len(t, repo.created, 1)
}

func TestBookProfit_UnknownSymbol(t *testing.T) {
	eng, _ := newTestEngine(t, &mockGateway{}, &mockGateway{})

	_, err := eng.BookProfit(context.Background(), "TSLA")
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrPositionNotFound)
}

func TestBookAllProfits_ClosesOnlyProfitable(t *testing.T) {
	equities := &mockGateway{
		positions: []*domain.Position{
			{Symbol: "AAPL", AssetClass: domain.AssetEquity, Quantity: 10, EntryPrice: 100, CurrentPrice: 110, UnrealizedPNL: 100},
			{Symbol: "MSFT", AssetClass: domain.AssetEquity, Quantity: 5, EntryPrice: 100, CurrentPrice: 90, UnrealizedPNL: -50},
			{Symbol: "BTCUSD", AssetClass: domain.AssetCrypto, Quantity: 0.1, EntryPrice: 40000, CurrentPrice: 50000, UnrealizedPNL: 1000},
		},
	}
	crypto := &mockGateway{}
	eng, _ := newTestEngine(t, equities, crypto)

	closed := eng.BookAllProfits(context.Background())
	require.Len(t, closed, 2)
	assert.Equal(t, []string{"AAPL"}, equities.closed)
	assert.Equal(t, []string{"BTCUSD"}, crypto.closed)
}

// --- Reconciler ---

func TestReconcile(t *testing.T) {
	positions := []*domain.Position{
		{Symbol: "AAPL"},
		{Symbol: "BTCUSD"},
	}

	tests := []struct {
		name   string
		symbol string
		found  bool
		match  string
	}{
		{name: "exact equity match", symbol: "AAPL", found: true, match: "AAPL"},
		{name: "slashed pair matches venue form", symbol: "BTC/USD", found: true, match: "BTCUSD"},
		{name: "absent symbol", symbol: "ETH/USD", found: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reconcile(positions, tt.symbol)
			if !tt.found {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.match, got.Symbol)
		})
	}
}

// --- Sizing ---

func TestOrderQuantity(t *testing.T) {
	tests := []struct {
		name     string
		class    domain.AssetClass
		notional float64
		price    float64
		wantQty  float64
		wantStr  string
	}{
		{name: "equity whole shares floored", class: domain.AssetEquity, notional: 500, price: 150, wantQty: 3, wantStr: "3"},
		{name: "equity below one share", class: domain.AssetEquity, notional: 500, price: 1000, wantQty: 0, wantStr: "0"},
		{name: "crypto six places truncated", class: domain.AssetCrypto, notional: 200, price: 30000, wantQty: 0.006666, wantStr: "0.006666"},
		{name: "crypto exact division", class: domain.AssetCrypto, notional: 2000, price: 50000, wantQty: 0.04, wantStr: "0.04"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qty, str := orderQuantity(tt.class, tt.notional, tt.price)
			assert.InDelta(t, tt.wantQty, qty, 1e-9)
			assert.Equal(t, tt.wantStr, str)
		})
	}
}
