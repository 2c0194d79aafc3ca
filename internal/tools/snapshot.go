package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/data"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/models"
)

// Snapshot builds the latest market snapshot for a frame, including the
// trend and volume texts.
func Snapshot(frame *models.IndicatorFrame) models.MarketSnapshot {
	snap := frame.Snapshot()
	snap.Trend = TrendText(frame.Candles)
	snap.VolumeProfile = VolumeText(frame.Candles)
	return snap
}

// SnapshotTool exposes the market snapshot through the registry
type SnapshotTool struct {
	provider *data.Provider
	interval string
}

// NewSnapshotTool creates the registry wrapper over provider
func NewSnapshotTool(provider *data.Provider, interval string) *SnapshotTool {
	return &SnapshotTool{provider: provider, interval: interval}
}

type snapshotInput struct {
	Symbol string `json:"symbol"`
	Period string `json:"period"`
}

func (t *SnapshotTool) Name() string { return "market_snapshot" }

func (t *SnapshotTool) Description() string {
	return "Get the latest price, volume, and technical indicator snapshot for a symbol"
}

func (t *SnapshotTool) InputSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"symbol": {"type": "string"},
			"period": {"type": "string", "default": "1mo"}
		},
		"required": ["symbol"]
	}`)
}

func (t *SnapshotTool) OutputSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"symbol": {"type": "string"},
			"current_price": {"type": "number"},
			"previous_close": {"type": "number"},
			"change_pct": {"type": "number"},
			"window_high": {"type": "number"},
			"window_low": {"type": "number"},
			"volume": {"type": "integer"},
			"avg_volume": {"type": "number"},
			"trend": {"type": "string"},
			"volume_profile": {"type": "string"},
			"synthetic": {"type": "boolean"}
		}
	}`)
}

func (t *SnapshotTool) Invoke(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in snapshotInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("decoding input: %w", err)
	}
	if in.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if in.Period == "" {
		in.Period = "1mo"
	}

	frame, err := t.provider.Frame(ctx, in.Symbol, in.Period, t.interval)
	if err != nil {
		return nil, err
	}
	return marshalOutput(Snapshot(frame))
}
