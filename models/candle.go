package models

import (
	"math"
	"sort"
	"time"
)

// Candle represents a single OHLCV price bar
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume,omitempty"`
}

// PriceSeries is an ordered sequence of candles for one symbol.
// Candles are sorted strictly ascending by timestamp with no duplicates.
type PriceSeries struct {
	Symbol    string   `json:"symbol"`
	Candles   []Candle `json:"candles"`
	Synthetic bool     `json:"synthetic"`
}

// Normalize sorts candles oldest-first and drops duplicate timestamps,
// keeping the last candle seen for each timestamp.
func (s *PriceSeries) Normalize() {
	sort.SliceStable(s.Candles, func(i, j int) bool {
		return s.Candles[i].Timestamp.Before(s.Candles[j].Timestamp)
	})

	out := s.Candles[:0]
	for _, c := range s.Candles {
		if len(out) > 0 && out[len(out)-1].Timestamp.Equal(c.Timestamp) {
			out[len(out)-1] = c
			continue
		}
		out = append(out, c)
	}
	s.Candles = out
}

// Len returns the number of candles in the series
func (s *PriceSeries) Len() int {
	return len(s.Candles)
}

// Last returns the most recent candle, or false if the series is empty
func (s *PriceSeries) Last() (Candle, bool) {
	if len(s.Candles) == 0 {
		return Candle{}, false
	}
	return s.Candles[len(s.Candles)-1], true
}

// Closes returns the close prices of the series in order
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		closes[i] = c.Close
	}
	return closes
}

// IndicatorFrame is a PriceSeries with derived indicator columns aligned by
// index. A value is absent (NaN) for rows whose lookback window is unmet.
type IndicatorFrame struct {
	PriceSeries

	MACD        []float64 `json:"-"`
	MACDSignal  []float64 `json:"-"`
	MACDHist    []float64 `json:"-"`
	RSI         []float64 `json:"-"`
	BBUpper     []float64 `json:"-"`
	BBMiddle    []float64 `json:"-"`
	BBLower     []float64 `json:"-"`
	SMA50       []float64 `json:"-"`
	SMA200      []float64 `json:"-"`
	VolumeSMA20 []float64 `json:"-"`
	ChangePct   []float64 `json:"-"`
}

// Valid reports whether an indicator value is defined (its lookback was met)
func Valid(v float64) bool {
	return !math.IsNaN(v)
}

// IndicatorValue is the latest value of one derived column together with a
// flag telling whether the lookback window was met.
type IndicatorValue struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// MarketSnapshot is the latest state of an IndicatorFrame, shaped for
// embedding into agent prompts and API responses.
type MarketSnapshot struct {
	Symbol        string         `json:"symbol"`
	CurrentPrice  float64        `json:"current_price"`
	PreviousClose float64        `json:"previous_close"`
	ChangePct     float64        `json:"change_pct"`
	WindowHigh    float64        `json:"window_high"`
	WindowLow     float64        `json:"window_low"`
	Volume        int64          `json:"volume"`
	AvgVolume     float64        `json:"avg_volume"`
	RSI           IndicatorValue `json:"rsi"`
	MACD          IndicatorValue `json:"macd"`
	MACDSignal    IndicatorValue `json:"macd_signal"`
	BBUpper       IndicatorValue `json:"bb_upper"`
	BBLower       IndicatorValue `json:"bb_lower"`
	SMA50         IndicatorValue `json:"sma_50"`
	SMA200        IndicatorValue `json:"sma_200"`
	Trend         string         `json:"trend"`
	VolumeProfile string         `json:"volume_profile"`
	Synthetic     bool           `json:"synthetic"`
}

func latest(col []float64) IndicatorValue {
	if len(col) == 0 {
		return IndicatorValue{}
	}
	// NaN is not encodable as JSON, so an unmet lookback reports a zero
	// value with Valid false.
	v := col[len(col)-1]
	if !Valid(v) {
		return IndicatorValue{}
	}
	return IndicatorValue{Value: v, Valid: true}
}

// Snapshot extracts the latest row of the frame. Trend and VolumeProfile are
// left empty for the caller to fill in.
func (f *IndicatorFrame) Snapshot() MarketSnapshot {
	snap := MarketSnapshot{
		Symbol:     f.Symbol,
		RSI:        latest(f.RSI),
		MACD:       latest(f.MACD),
		MACDSignal: latest(f.MACDSignal),
		BBUpper:    latest(f.BBUpper),
		BBLower:    latest(f.BBLower),
		SMA50:      latest(f.SMA50),
		SMA200:     latest(f.SMA200),
		Synthetic:  f.Synthetic,
	}

	n := len(f.Candles)
	if n == 0 {
		return snap
	}

	last := f.Candles[n-1]
	snap.CurrentPrice = last.Close
	snap.Volume = last.Volume
	if n > 1 {
		snap.PreviousClose = f.Candles[n-2].Close
		if snap.PreviousClose != 0 {
			snap.ChangePct = (last.Close - snap.PreviousClose) / snap.PreviousClose * 100
		}
	}

	snap.WindowHigh = last.High
	snap.WindowLow = last.Low
	var volumeSum float64
	for _, c := range f.Candles {
		if c.High > snap.WindowHigh {
			snap.WindowHigh = c.High
		}
		if c.Low < snap.WindowLow {
			snap.WindowLow = c.Low
		}
		volumeSum += float64(c.Volume)
	}
	snap.AvgVolume = volumeSum / float64(n)

	return snap
}
