package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/data"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/models"
)

// FibLevelNames orders the retracement levels from the window high (0%) down
// to the window low (100%).
var FibLevelNames = []string{"0%", "23.6%", "38.2%", "50%", "61.8%", "100%"}

var fibRatios = map[string]float64{
	"0%":    0,
	"23.6%": 0.236,
	"38.2%": 0.382,
	"50%":   0.5,
	"61.8%": 0.618,
	"100%":  1,
}

// FibonacciResult is the retracement analysis for one symbol
type FibonacciResult struct {
	Symbol       string             `json:"symbol"`
	CurrentPrice float64            `json:"current_price"`
	WindowHigh   float64            `json:"window_high"`
	WindowLow    float64            `json:"window_low"`
	Levels       map[string]float64 `json:"levels"`
	Signal       models.Decision    `json:"signal"`
	Confidence   float64            `json:"confidence"`
	Analysis     string             `json:"analysis"`
}

// Fibonacci computes retracement levels over the last lookback candles and
// derives an advisory signal: BUY inside the 38.2-61.8% band, SELL at or
// above the 23.6% level, HOLD otherwise. Advisory only, never the final
// decision.
func Fibonacci(series models.PriceSeries, lookback int) (*FibonacciResult, error) {
	if series.Len() == 0 {
		return nil, fmt.Errorf("empty price series for %s", series.Symbol)
	}

	candles := series.Candles
	if lookback > 0 && len(candles) > lookback {
		candles = candles[len(candles)-lookback:]
	}

	high, low := candles[0].High, candles[0].Low
	for _, c := range candles[1:] {
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}

	levels := make(map[string]float64, len(fibRatios))
	for name, ratio := range fibRatios {
		levels[name] = high - ratio*(high-low)
	}

	price := candles[len(candles)-1].Close
	result := &FibonacciResult{
		Symbol:       series.Symbol,
		CurrentPrice: price,
		WindowHigh:   high,
		WindowLow:    low,
		Levels:       levels,
	}

	switch {
	case price >= levels["61.8%"] && price <= levels["38.2%"]:
		result.Signal = models.DecisionBuy
		result.Confidence = 0.75
	case price >= levels["23.6%"]:
		result.Signal = models.DecisionSell
		result.Confidence = 0.65
	default:
		result.Signal = models.DecisionHold
		result.Confidence = 0.5
	}

	result.Analysis = fmt.Sprintf("Price %.2f is nearest the %s retracement level (%.2f)",
		price, nearestLevel(levels, price), levels[nearestLevel(levels, price)])

	return result, nil
}

func nearestLevel(levels map[string]float64, price float64) string {
	best, bestDist := "", math.Inf(1)
	for _, name := range FibLevelNames {
		if d := math.Abs(levels[name] - price); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

// FibonacciTool exposes the retracement analysis through the registry
type FibonacciTool struct {
	provider *data.Provider
	period   string
	interval string
}

// NewFibonacciTool creates the registry wrapper over provider
func NewFibonacciTool(provider *data.Provider, period, interval string) *FibonacciTool {
	return &FibonacciTool{provider: provider, period: period, interval: interval}
}

type fibonacciInput struct {
	Symbol       string `json:"symbol"`
	LookbackDays int    `json:"lookback_days"`
}

func (t *FibonacciTool) Name() string { return "fibonacci_levels" }

func (t *FibonacciTool) Description() string {
	return "Calculate Fibonacci retracement levels over a lookback window and derive an advisory BUY/SELL/HOLD signal"
}

func (t *FibonacciTool) InputSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"symbol": {"type": "string"},
			"lookback_days": {"type": "integer", "default": 20}
		},
		"required": ["symbol"]
	}`)
}

func (t *FibonacciTool) OutputSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"symbol": {"type": "string"},
			"current_price": {"type": "number"},
			"window_high": {"type": "number"},
			"window_low": {"type": "number"},
			"levels": {"type": "object"},
			"signal": {"type": "string", "enum": ["BUY", "SELL", "HOLD"]},
			"confidence": {"type": "number"},
			"analysis": {"type": "string"}
		}
	}`)
}

func (t *FibonacciTool) Invoke(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in fibonacciInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("decoding input: %w", err)
	}
	if in.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if in.LookbackDays <= 0 {
		in.LookbackDays = 20
	}

	series, err := t.provider.Series(ctx, in.Symbol, t.period, t.interval)
	if err != nil {
		return nil, err
	}

	result, err := Fibonacci(series, in.LookbackDays)
	if err != nil {
		return nil, err
	}
	return marshalOutput(result)
}
