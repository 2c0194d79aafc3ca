package models

import (
	"testing"
	"time"
)

func TestParseDecision(t *testing.T) {
	tests := []struct {
		input   string
		want    Decision
		wantErr bool
	}{
		{"BUY", DecisionBuy, false},
		{"SELL", DecisionSell, false},
		{"HOLD", DecisionHold, false},
		{"buy", "", true},
		{"WAIT", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDecision(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDecision(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDecision(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{7.5, 1},
	}
	for _, tt := range tests {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	base := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	series := PriceSeries{
		Symbol: "TEST",
		Candles: []Candle{
			{Timestamp: base.AddDate(0, 0, 2), Close: 103},
			{Timestamp: base, Close: 100},
			{Timestamp: base.AddDate(0, 0, 1), Close: 101},
			{Timestamp: base.AddDate(0, 0, 1), Close: 102}, // duplicate day, later value wins
		},
	}
	series.Normalize()

	if series.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 after dedupe", series.Len())
	}
	for i := 1; i < series.Len(); i++ {
		if !series.Candles[i-1].Timestamp.Before(series.Candles[i].Timestamp) {
			t.Fatal("candles not strictly ascending after Normalize")
		}
	}
	if series.Candles[1].Close != 102 {
		t.Errorf("duplicate resolution kept close %v, want the later row (102)", series.Candles[1].Close)
	}
}

func TestTradingDays(t *testing.T) {
	tests := []struct {
		period string
		want   int
	}{
		{"1d", 1},
		{"5d", 3},
		{"1mo", 21},
		{"1y", 260},
		{"bogus", 21},
	}
	for _, tt := range tests {
		if got := TradingDays(tt.period); got != tt.want {
			t.Errorf("TradingDays(%q) = %d, want %d", tt.period, got, tt.want)
		}
	}
}
