package strategy

import (
	"fmt"
	"math/rand"

	"github.com/tallmansamadam/ladybug-trading/internal/domain"
	"github.com/tallmansamadam/ladybug-trading/internal/ports"
	"github.com/tallmansamadam/ladybug-trading/internal/strategy/indicators"
)

const (
	// minBars is the floor below which no signal is produced at all;
	// the caller treats the neutral result as a skip, not an error.
	minBars = 20

	rsiPeriod        = 14
	shortSMAPeriod   = 20
	longSMAPeriod    = 50
	momentumLookback = 10

	rsiOversold   = 30.0
	rsiOverbought = 70.0

	rsiWeight       = 0.3
	crossoverWeight = 0.2
	momentumClamp   = 0.3
	sentimentWeight = 0.2

	// jitterSpan bounds the optional perturbation to (-0.125, +0.125).
	jitterSpan = 0.25
)

// Config holds parameters for the signal scorer.
type Config struct {
	// Jitter enables a bounded random perturbation of the score. It
	// exists to force activity in flat markets during demonstrations and
	// is off by default; leave it off for reproducible behavior.
	Jitter bool
	// Rand is the randomness source for the jitter term. Required when
	// Jitter is enabled so tests can seed it.
	Rand *rand.Rand
}

// Scorer maps a bar series and a sentiment score to a composite trading
// signal in [-1, 1]. It has no side effects and, with jitter disabled,
// is a pure function of its inputs.
type Scorer struct {
	cfg    Config
	logger ports.Logger
}

// New creates a new Scorer instance.
func New(cfg Config, logger ports.Logger) (*Scorer, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for signal scorer")
	}
	if cfg.Jitter && cfg.Rand == nil {
		return nil, fmt.Errorf("a rand source is required when jitter is enabled")
	}
	return &Scorer{cfg: cfg, logger: logger}, nil
}

// RequiredDataPoints returns the minimum number of bars needed before
// the scorer produces a non-neutral signal.
func (s *Scorer) RequiredDataPoints() int {
	return minBars
}

// Score computes the composite signal. Each term is bounded and the sum
// is clamped to [-1, 1]:
//
//	RSI(14) oversold/overbought contributes ±0.3;
//	SMA(20)/SMA(50) crossover contributes ±0.2 (skipped under 50 bars);
//	10-bar momentum contributes its value clamped to ±0.3;
//	sentiment contributes sentiment*0.2.
//
// Series shorter than 20 bars score exactly 0.
func (s *Scorer) Score(bars []*domain.Bar, sentiment float64) float64 {
	if len(bars) < minBars {
		return 0.0
	}

	score := 0.0

	if rsi, err := indicators.RSI(bars, rsiPeriod); err == nil {
		if rsi < rsiOversold {
			score += rsiWeight // oversold, bullish
		} else if rsi > rsiOverbought {
			score -= rsiWeight // overbought, bearish
		}
	}

	shortSMA, errShort := indicators.SMA(bars, shortSMAPeriod)
	longSMA, errLong := indicators.SMA(bars, longSMAPeriod)
	if errShort == nil && errLong == nil {
		if shortSMA > longSMA {
			score += crossoverWeight
		} else {
			score -= crossoverWeight
		}
	}

	if momentum, err := indicators.Momentum(bars, momentumLookback); err == nil {
		score += clamp(momentum, -momentumClamp, momentumClamp)
	}

	score += sentiment * sentimentWeight

	if s.cfg.Jitter {
		score += (s.cfg.Rand.Float64() - 0.5) * jitterSpan
	}

	return clamp(score, -1.0, 1.0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
