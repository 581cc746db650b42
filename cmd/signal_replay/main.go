// Command signal_replay runs the composite signal over a saved bar
// series and prints, per bar, what the decision thresholds would have
// done. It is a dry inspection tool: no venue calls, no orders.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/tallmansamadam/ladybug-trading/config"
	"github.com/tallmansamadam/ladybug-trading/internal/adapters/logger"
	"github.com/tallmansamadam/ladybug-trading/internal/strategy"
	"github.com/tallmansamadam/ladybug-trading/internal/utils"
)

func main() {
	file := flag.String("file", "", "CSV bar series written by fetch_bars (required)")
	sentimentScore := flag.Float64("sentiment", 0.0, "fixed sentiment score for the replay, in [-1, 1]")
	threshold := flag.Float64("threshold", 0.15, "buy/sell threshold to evaluate against")
	verbose := flag.Bool("verbose", false, "print every bar instead of just the summary")
	flag.Parse()

	if *file == "" {
		log.Fatal("FATAL: -file is required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	appLogger := logger.NewStdLogger(cfg.LogLevel)

	bars, err := utils.ReadBarsFromCSV(*file)
	if err != nil {
		log.Fatalf("Error loading bars: %v", err)
	}

	scorer, err := strategy.New(strategy.Config{}, appLogger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize signal scorer: %v", err)
	}

	var buys, sells, neutrals, skipped int
	for i := scorer.RequiredDataPoints(); i <= len(bars); i++ {
		window := bars[:i]
		signal := scorer.Score(window, *sentimentScore)

		var verdict string
		switch {
		case signal > *threshold:
			verdict = "BUY"
			buys++
		case signal < -*threshold:
			verdict = "SELL"
			sells++
		default:
			verdict = "neutral"
			neutrals++
		}
		if *verbose {
			last := window[len(window)-1]
			fmt.Printf("%s  close=%.2f  signal=%+.4f  %s\n",
				last.Timestamp.Format("2006-01-02"), last.Close, signal, verdict)
		}
	}
	if len(bars) < scorer.RequiredDataPoints() {
		skipped = len(bars)
	}

	fmt.Printf("\nReplayed %d bars from %s (sentiment %+.2f, threshold %.2f)\n",
		len(bars), *file, *sentimentScore, *threshold)
	fmt.Printf("  buy signals:  %d\n", buys)
	fmt.Printf("  sell signals: %d\n", sells)
	fmt.Printf("  neutral:      %d\n", neutrals)
	if skipped > 0 {
		fmt.Printf("  series too short to score (%d bars, need %d)\n", skipped, scorer.RequiredDataPoints())
	}
}
