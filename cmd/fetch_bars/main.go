// Command fetch_bars downloads historical daily bars from Alpaca and
// saves them as CSV for offline signal replay.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tallmansamadam/ladybug-trading/config"
	"github.com/tallmansamadam/ladybug-trading/internal/adapters/alpaca"
	"github.com/tallmansamadam/ladybug-trading/internal/adapters/logger"
	"github.com/tallmansamadam/ladybug-trading/internal/domain"
	"github.com/tallmansamadam/ladybug-trading/internal/ports"
	"github.com/tallmansamadam/ladybug-trading/internal/utils"
)

func main() {
	symbol := flag.String("symbol", "AAPL", "instrument symbol (equity ticker or crypto pair like BTC/USD)")
	timeframe := flag.String("timeframe", "1Day", "bar timeframe")
	limit := flag.Int("limit", 100, "number of bars to fetch")
	out := flag.String("out", "", "output CSV path (default data/<symbol>_<timeframe>_<date>.csv)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()

	gatewayCfg := alpaca.Config{
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
		IsPaper:   cfg.IsPaper,
		Logger:    appLogger,
	}
	var gw ports.MarketDataGateway
	if domain.ClassifySymbol(*symbol) == domain.AssetCrypto {
		gw, err = alpaca.NewCrypto(gatewayCfg)
	} else {
		gw, err = alpaca.New(gatewayCfg)
	}
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Alpaca gateway: %v", err)
	}

	bars, err := gw.GetBars(ctx, *symbol, *timeframe, *limit)
	if err != nil {
		log.Fatalf("Error fetching bars: %v", err)
	}
	if len(bars) == 0 {
		log.Fatalf("No bars returned for %s", *symbol)
	}
	appLogger.Info(ctx, "Fetched bars", map[string]interface{}{"symbol": *symbol, "count": len(bars)})

	filename := *out
	if filename == "" {
		safe := strings.ReplaceAll(*symbol, "/", "")
		filename = fmt.Sprintf("data/%s_%s_%s.csv", safe, *timeframe, time.Now().Format("20060102"))
	}
	if err := utils.WriteBarsToCSV(bars, filename); err != nil {
		log.Fatalf("Error writing CSV: %v", err)
	}
	appLogger.Info(ctx, "Saved bars", map[string]interface{}{"filename": filename})
}
