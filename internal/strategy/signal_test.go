package strategy

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallmansamadam/ladybug-trading/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (nopLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (nopLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (nopLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func series(closes ...float64) []*domain.Bar {
	now := time.Now()
	bars := make([]*domain.Bar, len(closes))
	for i, c := range closes {
		bars[i] = &domain.Bar{Timestamp: now.Add(time.Duration(i-len(closes)) * 5 * time.Minute), Close: c}
	}
	return bars
}

func linearSeries(n int, from, to float64) []*domain.Bar {
	closes := make([]float64, n)
	step := (to - from) / float64(n-1)
	for i := range closes {
		closes[i] = from + step*float64(i)
	}
	return series(closes...)
}

func newScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := New(Config{}, nopLogger{})
	require.NoError(t, err)
	return s
}

func TestScore_InsufficientBarsIsNeutral(t *testing.T) {
	s := newScorer(t)
	for n := 0; n < 20; n++ {
		bars := linearSeries(n+2, 100, 150)[:n]
		assert.Zerof(t, s.Score(bars, 1.0), "%d bars must score neutral", n)
	}
}

func TestScore_RisingSeriesIsBullish(t *testing.T) {
	s := newScorer(t)

	// 50 closes rising linearly: SMA(20) > SMA(50), positive momentum,
	// RSI pegged at 100 (overbought, -0.3).
	bars := linearSeries(50, 100, 150)
	score := s.Score(bars, 0.0)

	// -0.3 (RSI) + 0.2 (crossover) + ~0.065 momentum
	assert.Greater(t, score, -0.05)
	assert.LessOrEqual(t, score, 1.0)

	// Sentiment shifts the score by sentiment*0.2.
	withSentiment := s.Score(bars, 1.0)
	assert.InDelta(t, score+0.2, withSentiment, 1e-9)
}

func TestScore_CrossoverTermSkippedUnder50Bars(t *testing.T) {
	s := newScorer(t)

	// 30 flat bars: avg loss 0 pins RSI at 100 (-0.3), momentum 0, and
	// no crossover term without 50 bars. Only the RSI term remains.
	flat := linearSeries(30, 100, 100)
	score := s.Score(flat, 0.0)
	assert.InDelta(t, -0.3, score, 1e-9)
}

func TestScore_ClampedToUnitInterval(t *testing.T) {
	s := newScorer(t)

	// Strong drop: RSI 0 (+0.3 oversold), crossover -0.2, momentum -0.3,
	// heavy bearish sentiment.
	bars := linearSeries(50, 200, 50)
	score := s.Score(bars, -1.0)
	assert.GreaterOrEqual(t, score, -1.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestScore_JitterIsBoundedAndSeeded(t *testing.T) {
	base := newScorer(t)
	jittered, err := New(Config{Jitter: true, Rand: rand.New(rand.NewSource(42))}, nopLogger{})
	require.NoError(t, err)

	bars := linearSeries(50, 100, 150)
	clean := base.Score(bars, 0.0)
	for i := 0; i < 100; i++ {
		diff := jittered.Score(bars, 0.0) - clean
		assert.Less(t, diff, 0.125)
		assert.Greater(t, diff, -0.125)
	}

	// Same seed, same sequence.
	again, err := New(Config{Jitter: true, Rand: rand.New(rand.NewSource(7))}, nopLogger{})
	require.NoError(t, err)
	once, err := New(Config{Jitter: true, Rand: rand.New(rand.NewSource(7))}, nopLogger{})
	require.NoError(t, err)
	assert.Equal(t, again.Score(bars, 0.0), once.Score(bars, 0.0))
}

func TestNew_RequiresRandWhenJitterEnabled(t *testing.T) {
	_, err := New(Config{Jitter: true}, nopLogger{})
	assert.Error(t, err)
}
