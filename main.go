package main

import (
	"context"
	"log" // Standard log only for fatal errors before the logger is set up
	"math/rand"
	"sync"
	"time"

	"github.com/tallmansamadam/ladybug-trading/config"
	"github.com/tallmansamadam/ladybug-trading/internal/adapters/alpaca"
	"github.com/tallmansamadam/ladybug-trading/internal/adapters/logger"
	"github.com/tallmansamadam/ladybug-trading/internal/adapters/sqlite"
	"github.com/tallmansamadam/ladybug-trading/internal/engine"
	"github.com/tallmansamadam/ladybug-trading/internal/sentiment"
	"github.com/tallmansamadam/ladybug-trading/internal/state"
	"github.com/tallmansamadam/ladybug-trading/internal/strategy"
	"github.com/tallmansamadam/ladybug-trading/internal/web"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()
	appLogger.Info(ctx, "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Trade Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(ctx, err, "Error closing database repository")
		}
	}()
	appLogger.Info(ctx, "Database repository initialized", map[string]interface{}{"path": cfg.DBPath})

	// 4. Initialize Venue Gateways (Alpaca Adapters)
	gatewayCfg := alpaca.Config{
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
		IsPaper:   cfg.IsPaper,
		Logger:    appLogger,
	}
	equities, err := alpaca.New(gatewayCfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize equities gateway: %v", err)
	}
	crypto, err := alpaca.NewCrypto(gatewayCfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize crypto gateway: %v", err)
	}

	// 5. Initialize Shared State
	runtime := state.NewRuntime(cfg.TradingMode, cfg.EquityTradingEnabled, cfg.CryptoTradingEnabled)
	activity := state.NewActivityLog(state.DefaultActivityCap)
	history := state.NewPortfolioHistory(state.DefaultHistoryCap)
	trades := state.NewTradeLog()

	// 6. Initialize Sentiment Pipeline
	sentimentCache := sentiment.NewCache()
	refresher, err := sentiment.NewRefresher(sentiment.RefresherConfig{
		Interval: cfg.SentimentRefreshPeriod,
		Logger:   appLogger,
	}, sentimentCache, runtime)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize sentiment refresher: %v", err)
	}

	// 7. Initialize Signal Scorer
	scorerCfg := strategy.Config{Jitter: cfg.SignalJitter}
	if cfg.SignalJitter {
		scorerCfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	scorer, err := strategy.New(scorerCfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize signal scorer: %v", err)
	}

	// 8. Initialize Market Clock
	clock, err := engine.NewMarketClock()
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize market clock: %v", err)
	}

	// 9. Initialize the Engine
	eng, err := engine.New(engine.Deps{
		Cfg:       cfg,
		Logger:    appLogger,
		Equities:  equities,
		Crypto:    crypto,
		Scorer:    scorer,
		Sentiment: sentimentCache,
		TradeRepo: repo,
		Runtime:   runtime,
		Activity:  activity,
		History:   history,
		Trades:    trades,
		Clock:     clock,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize trading engine: %v", err)
	}

	// 10. Initialize the HTTP Server
	srv, err := web.NewServer(web.Config{
		Addr:      cfg.ListenAddr,
		Logger:    appLogger,
		Booker:    eng,
		Equities:  equities,
		Crypto:    crypto,
		TradeRepo: repo,
		Runtime:   runtime,
		Activity:  activity,
		History:   history,
		IsPaper:   cfg.IsPaper,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize HTTP server: %v", err)
	}

	// 11. Run. The engine owns signal handling; when it returns the
	// shared context is canceled and the other goroutines drain.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		refresher.Run(runCtx)
	}()
	go func() {
		defer wg.Done()
		if err := srv.Start(runCtx); err != nil {
			appLogger.Error(runCtx, err, "HTTP server exited with error")
			cancel()
		}
	}()

	if err := eng.Start(runCtx); err != nil {
		cancel()
		wg.Wait()
		log.Fatalf("FATAL: Trading engine exited with error: %v", err)
	}
	cancel()
	wg.Wait()
	appLogger.Info(ctx, "Application finished gracefully.")
}
