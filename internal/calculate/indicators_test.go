package calculate

import (
	"math"
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

func trendingSeries(n int) models.PriceSeries {
	return models.PriceSeries{
		Symbol: "TEST",
		Candles: generateTestCandles(n, func(i int) models.Candle {
			price := 100 + float64(i)*0.5 + float64(i%5)
			return models.Candle{
				Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
				Open:      price - 0.5,
				High:      price + 1,
				Low:       price - 1,
				Close:     price,
				Volume:    int64(1000 + i*10),
			}
		}),
	}
}

func TestEnrichLongSeries(t *testing.T) {
	frame := Enrich(trendingSeries(250))
	last := frame.Len() - 1

	checks := []struct {
		name string
		col  []float64
	}{
		{"MACD", frame.MACD},
		{"MACDSignal", frame.MACDSignal},
		{"MACDHist", frame.MACDHist},
		{"RSI", frame.RSI},
		{"BBUpper", frame.BBUpper},
		{"BBMiddle", frame.BBMiddle},
		{"BBLower", frame.BBLower},
		{"SMA50", frame.SMA50},
		{"SMA200", frame.SMA200},
		{"VolumeSMA20", frame.VolumeSMA20},
		{"ChangePct", frame.ChangePct},
	}
	for _, check := range checks {
		if len(check.col) != frame.Len() {
			t.Fatalf("%s length = %d, want %d", check.name, len(check.col), frame.Len())
		}
		if !models.Valid(check.col[last]) {
			t.Errorf("%s absent at final row of a 250-row series", check.name)
		}
	}

	if rsi := frame.RSI[last]; rsi < 0 || rsi > 100 {
		t.Errorf("RSI = %v, want within [0, 100]", rsi)
	}
	if frame.BBUpper[last] <= frame.BBMiddle[last] || frame.BBMiddle[last] <= frame.BBLower[last] {
		t.Errorf("Bollinger bands out of order: upper %v middle %v lower %v",
			frame.BBUpper[last], frame.BBMiddle[last], frame.BBLower[last])
	}
}

func TestEnrichWarmupMasking(t *testing.T) {
	frame := Enrich(trendingSeries(250))

	tests := []struct {
		name       string
		col        []float64
		firstValid int
	}{
		{"MACD", frame.MACD, MACDSlowPeriod - 1},
		{"MACDSignal", frame.MACDSignal, MACDSlowPeriod + MACDSignalPeriod - 2},
		{"RSI", frame.RSI, RSIPeriod},
		{"BBMiddle", frame.BBMiddle, BBPeriod - 1},
		{"SMA50", frame.SMA50, SMAShortPeriod - 1},
		{"SMA200", frame.SMA200, SMALongPeriod - 1},
		{"ChangePct", frame.ChangePct, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.firstValid > 0 && models.Valid(tt.col[tt.firstValid-1]) {
				t.Errorf("%s defined at row %d, before its window is met", tt.name, tt.firstValid-1)
			}
			if !models.Valid(tt.col[tt.firstValid]) {
				t.Errorf("%s absent at row %d, where its window is first met", tt.name, tt.firstValid)
			}
		})
	}
}

func TestEnrichShortSeries(t *testing.T) {
	// 10 rows meet no lookback beyond ChangePct; nothing should panic
	frame := Enrich(trendingSeries(10))

	for i := 0; i < frame.Len(); i++ {
		if models.Valid(frame.RSI[i]) {
			t.Errorf("RSI defined at row %d of a 10-row series", i)
		}
		if models.Valid(frame.SMA50[i]) {
			t.Errorf("SMA50 defined at row %d of a 10-row series", i)
		}
	}
	if !models.Valid(frame.ChangePct[1]) {
		t.Error("ChangePct absent at row 1")
	}
}

func TestEnrichEmptySeries(t *testing.T) {
	frame := Enrich(models.PriceSeries{Symbol: "EMPTY"})
	if frame.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", frame.Len())
	}
	if len(frame.RSI) != 0 || len(frame.MACD) != 0 {
		t.Error("indicator columns not empty for an empty series")
	}
}

func TestSMASeries(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	out := smaSeries(values, 3)

	want := []float64{math.NaN(), math.NaN(), 2, 3, 4}
	for i := range want {
		if math.IsNaN(want[i]) {
			if !math.IsNaN(out[i]) {
				t.Errorf("sma[%d] = %v, want NaN", i, out[i])
			}
			continue
		}
		if math.Abs(out[i]-want[i]) > 1e-9 {
			t.Errorf("sma[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestRSIAllGains(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	out := rsiSeries(closes, 14)
	if got := out[len(out)-1]; got != 100 {
		t.Errorf("RSI of a monotonically rising series = %v, want 100", got)
	}
}

func TestRSIAllLosses(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}

	out := rsiSeries(closes, 14)
	if got := out[len(out)-1]; math.Abs(got) > 1e-9 {
		t.Errorf("RSI of a monotonically falling series = %v, want 0", got)
	}
}

func TestEMASeries(t *testing.T) {
	values := []float64{10, 20, 30}
	out := emaSeries(values, 3) // alpha = 0.5

	want := []float64{10, 15, 22.5}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-9 {
			t.Errorf("ema[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}
