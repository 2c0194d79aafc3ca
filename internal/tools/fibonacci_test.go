package tools

import (
	"testing"
	"time"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/models"
)

func generateTestCandles(n int, generator func(int) models.Candle) []models.Candle {
	candles := make([]models.Candle, n)
	for i := 0; i < n; i++ {
		candles[i] = generator(i)
	}
	return candles
}

// rangeSeries builds a window with High 110 / Low 100 and lastClose on the
// final candle, so retracement levels are easy to reason about.
func rangeSeries(lastClose float64) models.PriceSeries {
	candles := generateTestCandles(20, func(i int) models.Candle {
		return models.Candle{
			Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open:      105,
			High:      110,
			Low:       100,
			Close:     105,
			Volume:    1000,
		}
	})
	candles[len(candles)-1].Close = lastClose
	return models.PriceSeries{Symbol: "TEST", Candles: candles}
}

func TestFibonacciLevels(t *testing.T) {
	result, err := Fibonacci(rangeSeries(105), 0)
	if err != nil {
		t.Fatalf("Fibonacci() error = %v", err)
	}

	if result.WindowHigh != 110 || result.WindowLow != 100 {
		t.Fatalf("window = [%v, %v], want [100, 110]", result.WindowLow, result.WindowHigh)
	}

	// Levels descend strictly from the window high to the window low
	prev := result.Levels[FibLevelNames[0]]
	if prev != 110 {
		t.Errorf("0%% level = %v, want 110", prev)
	}
	for _, name := range FibLevelNames[1:] {
		level := result.Levels[name]
		if level >= prev {
			t.Errorf("level %s = %v, not below the preceding level %v", name, level, prev)
		}
		prev = level
	}
	if prev != 100 {
		t.Errorf("100%% level = %v, want 100", prev)
	}
}

func TestFibonacciSignal(t *testing.T) {
	tests := []struct {
		name       string
		lastClose  float64
		signal     models.Decision
		confidence float64
	}{
		{
			name:       "Inside the golden pocket",
			lastClose:  105, // between 61.8% (103.82) and 38.2% (106.18)
			signal:     models.DecisionBuy,
			confidence: 0.75,
		},
		{
			name:       "Above the 23.6% level",
			lastClose:  109,
			signal:     models.DecisionSell,
			confidence: 0.65,
		},
		{
			name:       "Below the band",
			lastClose:  101,
			signal:     models.DecisionHold,
			confidence: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Fibonacci(rangeSeries(tt.lastClose), 0)
			if err != nil {
				t.Fatalf("Fibonacci() error = %v", err)
			}
			if result.Signal != tt.signal {
				t.Errorf("Signal = %v, want %v", result.Signal, tt.signal)
			}
			if result.Confidence != tt.confidence {
				t.Errorf("Confidence = %v, want %v", result.Confidence, tt.confidence)
			}
		})
	}
}

func TestFibonacciLookback(t *testing.T) {
	series := rangeSeries(105)
	// A spike outside the lookback window must not move the levels
	series.Candles[0].High = 500

	result, err := Fibonacci(series, 10)
	if err != nil {
		t.Fatalf("Fibonacci() error = %v", err)
	}
	if result.WindowHigh != 110 {
		t.Errorf("WindowHigh = %v, want 110 (spike outside lookback)", result.WindowHigh)
	}
}

func TestFibonacciEmptySeries(t *testing.T) {
	if _, err := Fibonacci(models.PriceSeries{Symbol: "TEST"}, 0); err == nil {
		t.Error("Fibonacci() on an empty series returned no error")
	}
}
