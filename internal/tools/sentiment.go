package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/data"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/models"
)

// timeframePeriods maps the sentiment timeframes onto fetch periods
var timeframePeriods = map[string]string{
	"1d":  "2d",
	"3d":  "5d",
	"7d":  "1mo",
	"30d": "3mo",
}

// timeframeWindows caps how many candles each timeframe examines
var timeframeWindows = map[string]int{
	"1d":  5,
	"3d":  10,
	"7d":  20,
	"30d": 60,
}

// SentimentResult is the outcome of the sentiment heuristic
type SentimentResult struct {
	Symbol      string           `json:"symbol"`
	Timeframe   string           `json:"timeframe"`
	Sentiment   models.Sentiment `json:"sentiment"`
	Confidence  float64          `json:"confidence"`
	ChangePct   float64          `json:"change_pct"`
	VolumeTrend float64          `json:"volume_trend"`
	Analysis    string           `json:"analysis"`
}

// Sentiment classifies price action over the window: +/-2% moves read as
// bullish/bearish, +/-5% with a volume trend above 1.2 promote to the VERY_
// buckets. The volume trend compares the last five candles to the whole
// window.
func Sentiment(series models.PriceSeries, timeframe string) (*SentimentResult, error) {
	if series.Len() < 2 {
		return nil, fmt.Errorf("not enough data for sentiment on %s", series.Symbol)
	}

	candles := series.Candles
	if window, ok := timeframeWindows[timeframe]; ok && len(candles) > window {
		candles = candles[len(candles)-window:]
	}

	first, last := candles[0].Close, candles[len(candles)-1].Close
	var changePct float64
	if first != 0 {
		changePct = (last - first) / first * 100
	}

	var allVolume float64
	for _, c := range candles {
		allVolume += float64(c.Volume)
	}
	allVolume /= float64(len(candles))

	recent := candles
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	var recentVolume float64
	for _, c := range recent {
		recentVolume += float64(c.Volume)
	}
	recentVolume /= float64(len(recent))

	volumeTrend := 1.0
	if allVolume > 0 {
		volumeTrend = recentVolume / allVolume
	}

	result := &SentimentResult{
		Symbol:      series.Symbol,
		Timeframe:   timeframe,
		ChangePct:   changePct,
		VolumeTrend: volumeTrend,
	}

	switch {
	case changePct > 5 && volumeTrend > 1.2:
		result.Sentiment, result.Confidence = models.SentimentVeryBullish, 0.85
	case changePct > 2:
		result.Sentiment, result.Confidence = models.SentimentBullish, 0.70
	case changePct < -5 && volumeTrend > 1.2:
		result.Sentiment, result.Confidence = models.SentimentVeryBearish, 0.85
	case changePct < -2:
		result.Sentiment, result.Confidence = models.SentimentBearish, 0.70
	default:
		result.Sentiment, result.Confidence = models.SentimentNeutral, 0.60
	}

	result.Analysis = fmt.Sprintf("%s moved %.2f%% over %s with volume trend %.2fx",
		series.Symbol, changePct, timeframe, volumeTrend)

	return result, nil
}

// SentimentTool exposes the sentiment heuristic through the registry
type SentimentTool struct {
	provider *data.Provider
	interval string
}

// NewSentimentTool creates the registry wrapper over provider
func NewSentimentTool(provider *data.Provider, interval string) *SentimentTool {
	return &SentimentTool{provider: provider, interval: interval}
}

type sentimentInput struct {
	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"`
}

func (t *SentimentTool) Name() string { return "market_sentiment" }

func (t *SentimentTool) Description() string {
	return "Analyze market sentiment from price action and volume over a timeframe (1d, 3d, 7d, 30d)"
}

func (t *SentimentTool) InputSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"symbol": {"type": "string"},
			"timeframe": {"type": "string", "enum": ["1d", "3d", "7d", "30d"], "default": "3d"}
		},
		"required": ["symbol"]
	}`)
}

func (t *SentimentTool) OutputSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"symbol": {"type": "string"},
			"timeframe": {"type": "string"},
			"sentiment": {"type": "string", "enum": ["VERY_BULLISH", "BULLISH", "NEUTRAL", "BEARISH", "VERY_BEARISH"]},
			"confidence": {"type": "number"},
			"change_pct": {"type": "number"},
			"volume_trend": {"type": "number"},
			"analysis": {"type": "string"}
		}
	}`)
}

func (t *SentimentTool) Invoke(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in sentimentInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("decoding input: %w", err)
	}
	if in.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	period, ok := timeframePeriods[in.Timeframe]
	if !ok {
		in.Timeframe = "3d"
		period = timeframePeriods[in.Timeframe]
	}

	series, err := t.provider.Series(ctx, in.Symbol, period, t.interval)
	if err != nil {
		return nil, err
	}

	result, err := Sentiment(series, in.Timeframe)
	if err != nil {
		return nil, err
	}
	return marshalOutput(result)
}
