// Package metrics registers the Prometheus collectors the engine updates
// during operation. They are served in text exposition format at /metrics
// by the HTTP server started in main.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CyclesTotal counts completed analysis cycles per asset class.
	CyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_cycles_total",
			Help: "Completed analysis cycles",
		},
		[]string{"asset_class"},
	)

	// InstrumentsAnalyzed counts instruments evaluated inside cycles.
	InstrumentsAnalyzed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_instruments_analyzed_total",
			Help: "Instruments evaluated during analysis cycles",
		},
		[]string{"asset_class"},
	)

	// OrdersTotal counts orders submitted, labeled by asset class and side.
	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_orders_total",
			Help: "Orders submitted to the venue",
		},
		[]string{"asset_class", "side"},
	)

	// ProfitTakesTotal counts positions closed by the profit-taking rule.
	ProfitTakesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_profit_takes_total",
			Help: "Positions closed by the profit-taking rule",
		},
		[]string{"asset_class"},
	)

	// CycleFailures counts per-instrument failures inside cycles. The cycle
	// itself keeps running; this is the only trace a skipped instrument leaves.
	CycleFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_cycle_failures_total",
			Help: "Per-instrument failures during analysis cycles",
		},
		[]string{"asset_class"},
	)

	// PortfolioValue is the latest observed total portfolio value in USD.
	PortfolioValue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "engine_portfolio_value_usd",
			Help: "Latest observed total portfolio value in USD",
		},
	)

	// SentimentScore is the latest sentiment score per tracked symbol.
	SentimentScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "engine_sentiment_score",
			Help: "Latest sentiment score per tracked symbol",
		},
		[]string{"symbol"},
	)
)
