package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/tallmansamadam/ladybug-trading/internal/domain"
)

func barsFromCloses(closes ...float64) []*domain.Bar {
	now := time.Now()
	bars := make([]*domain.Bar, len(closes))
	for i, c := range closes {
		bars[i] = &domain.Bar{
			Timestamp: now.Add(time.Duration(i-len(closes)) * time.Minute),
			Close:     c,
		}
	}
	return bars
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestRSI(t *testing.T) {
	tests := []struct {
		name        string
		closes      []float64
		period      int
		expected    float64
		expectError bool
	}{
		{
			name:     "mixed gains and losses",
			closes:   []float64{100, 102, 101, 103, 102, 104},
			period:   5,
			expected: 66.666667, // avg gain 1.2, avg loss 0.4
		},
		{
			name:     "strictly increasing closes",
			closes:   []float64{100, 101, 102, 103, 104, 105},
			period:   5,
			expected: 100.0,
		},
		{
			name:     "strictly decreasing closes",
			closes:   []float64{105, 104, 103, 102, 101, 100},
			period:   5,
			expected: 0.0,
		},
		{
			name:        "insufficient data",
			closes:      []float64{100, 101, 102},
			period:      5,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RSI(barsFromCloses(tt.closes...), tt.period)
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almostEqual(got, tt.expected) {
				t.Errorf("RSI = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSMA(t *testing.T) {
	tests := []struct {
		name        string
		closes      []float64
		period      int
		expected    float64
		expectError bool
	}{
		{
			name:     "trailing window",
			closes:   []float64{100, 102, 101, 103, 104},
			period:   3,
			expected: 102.666667, // (101 + 103 + 104) / 3
		},
		{
			name:     "constant series equals the constant",
			closes:   []float64{50, 50, 50, 50, 50},
			period:   5,
			expected: 50.0,
		},
		{
			name:        "insufficient data",
			closes:      []float64{100, 101},
			period:      3,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SMA(barsFromCloses(tt.closes...), tt.period)
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almostEqual(got, tt.expected) {
				t.Errorf("SMA = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestEMA(t *testing.T) {
	got, err := EMA(barsFromCloses(100, 102, 101, 103, 104), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Seed SMA(100,102,101)=101, then fold 103 and 104 with multiplier 0.5.
	if !almostEqual(got, 103.0) {
		t.Errorf("EMA = %v, want 103.0", got)
	}

	if _, err := EMA(barsFromCloses(100, 101), 3); err == nil {
		t.Error("expected error for insufficient data")
	}
}

func TestMomentum(t *testing.T) {
	got, err := Momentum(barsFromCloses(100, 105, 110, 115, 120, 125, 130, 135, 140, 150), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 0.5) {
		t.Errorf("Momentum = %v, want 0.5", got)
	}

	if _, err := Momentum(barsFromCloses(100, 110), 10); err == nil {
		t.Error("expected error for insufficient data")
	}
}
