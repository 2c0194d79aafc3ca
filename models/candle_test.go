package models

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func shortFrame(n int) *IndicatorFrame {
	frame := &IndicatorFrame{}
	frame.Symbol = "AAPL"
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		price := 100 + float64(i)
		frame.Candles = append(frame.Candles, Candle{
			Timestamp: start.AddDate(0, 0, i),
			Open:      price,
			High:      price + 1,
			Low:       price - 1,
			Close:     price,
			Volume:    1000,
		})
	}

	nan := make([]float64, n)
	rsi := make([]float64, n)
	for i := range nan {
		nan[i] = math.NaN()
		rsi[i] = 55
	}
	frame.RSI = rsi
	frame.MACD = nan
	frame.MACDSignal = nan
	frame.BBUpper = nan
	frame.BBLower = nan
	frame.SMA50 = nan
	frame.SMA200 = nan
	return frame
}

func TestSnapshotUnmetLookback(t *testing.T) {
	snap := shortFrame(21).Snapshot()

	if !snap.RSI.Valid || snap.RSI.Value != 55 {
		t.Errorf("RSI = %+v, want valid 55", snap.RSI)
	}
	for name, iv := range map[string]IndicatorValue{
		"macd":    snap.MACD,
		"sma_50":  snap.SMA50,
		"sma_200": snap.SMA200,
	} {
		if iv.Valid {
			t.Errorf("%s reported valid on a 21-row frame", name)
		}
		if iv.Value != 0 {
			t.Errorf("%s value = %v, want 0 when lookback unmet", name, iv.Value)
		}
	}
}

func TestSnapshotEncodesWithUnmetLookback(t *testing.T) {
	snap := shortFrame(21).Snapshot()

	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	sma, ok := decoded["sma_200"].(map[string]any)
	if !ok {
		t.Fatalf("sma_200 missing from encoded snapshot")
	}
	if sma["valid"] != false {
		t.Errorf("sma_200 valid = %v, want false", sma["valid"])
	}
}

func TestSnapshotEmptyFrame(t *testing.T) {
	frame := &IndicatorFrame{}
	snap := frame.Snapshot()
	if snap.CurrentPrice != 0 || snap.RSI.Valid {
		t.Errorf("empty frame snapshot = %+v, want zero values", snap)
	}
	if _, err := json.Marshal(snap); err != nil {
		t.Errorf("Marshal() error = %v", err)
	}
}
