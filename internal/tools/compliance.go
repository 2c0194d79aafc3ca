package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/data"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/models"
)

// ComplianceResult is the outcome of the Regulation M screen
type ComplianceResult struct {
	Symbol         string                  `json:"symbol"`
	Status         models.ComplianceStatus `json:"compliance_status"`
	Recommendation string                  `json:"recommendation"`
	Confidence     float64                 `json:"confidence"`
	Violations     []string                `json:"violations"`
	VolumeSpike    float64                 `json:"volume_spike"`
	Explanation    string                  `json:"explanation"`
}

// RegulationM screens the last five trading days for distribution-period
// red flags: a volume spike above 3x the window average, or two or more days
// with absolute moves over 5%.
func RegulationM(series models.PriceSeries) (*ComplianceResult, error) {
	if series.Len() < 2 {
		return nil, fmt.Errorf("not enough data for compliance screen on %s", series.Symbol)
	}

	candles := series.Candles
	if len(candles) > 5 {
		candles = candles[len(candles)-5:]
	}

	var avgVolume float64
	for _, c := range candles {
		avgVolume += float64(c.Volume)
	}
	avgVolume /= float64(len(candles))

	spike := 1.0
	if avgVolume > 0 {
		spike = float64(candles[len(candles)-1].Volume) / avgVolume
	}

	volatileDays := 0
	for i := 1; i < len(candles); i++ {
		if candles[i-1].Close == 0 {
			continue
		}
		change := (candles[i].Close - candles[i-1].Close) / candles[i-1].Close * 100
		if math.Abs(change) > 5 {
			volatileDays++
		}
	}

	result := &ComplianceResult{
		Symbol:      series.Symbol,
		Status:      models.ComplianceCompliant,
		Violations:  []string{},
		VolumeSpike: spike,
	}

	if spike > 3.0 {
		result.Status = models.ComplianceViolation
		result.Violations = append(result.Violations,
			"High volume activity may indicate distribution period")
	}
	if volatileDays >= 2 {
		result.Violations = append(result.Violations,
			"High price volatility during analysis period")
		if result.Status != models.ComplianceViolation {
			result.Status = models.ComplianceReviewRequired
		}
	}

	switch result.Status {
	case models.ComplianceViolation:
		result.Recommendation, result.Confidence = "BLOCK_TRADES", 0.90
	case models.ComplianceReviewRequired:
		result.Recommendation, result.Confidence = "PROCEED_WITH_CAUTION", 0.70
	default:
		result.Recommendation, result.Confidence = "APPROVED", 0.85
	}

	result.Explanation = fmt.Sprintf(
		"Screened %d days: volume spike %.2fx average, %d high-volatility days, status %s",
		len(candles), spike, volatileDays, result.Status)

	return result, nil
}

// ComplianceTool exposes the Regulation M screen through the registry
type ComplianceTool struct {
	provider *data.Provider
	interval string
}

// NewComplianceTool creates the registry wrapper over provider
func NewComplianceTool(provider *data.Provider, interval string) *ComplianceTool {
	return &ComplianceTool{provider: provider, interval: interval}
}

type complianceInput struct {
	Symbol string `json:"symbol"`
}

func (t *ComplianceTool) Name() string { return "regulation_m_check" }

func (t *ComplianceTool) Description() string {
	return "Screen recent volume and volatility for SEC Regulation M red flags"
}

func (t *ComplianceTool) InputSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"symbol": {"type": "string"}
		},
		"required": ["symbol"]
	}`)
}

func (t *ComplianceTool) OutputSchema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"symbol": {"type": "string"},
			"compliance_status": {"type": "string", "enum": ["COMPLIANT", "VIOLATION_DETECTED", "REVIEW_REQUIRED"]},
			"recommendation": {"type": "string"},
			"confidence": {"type": "number"},
			"violations": {"type": "array", "items": {"type": "string"}},
			"volume_spike": {"type": "number"},
			"explanation": {"type": "string"}
		}
	}`)
}

func (t *ComplianceTool) Invoke(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in complianceInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("decoding input: %w", err)
	}
	if in.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	series, err := t.provider.Series(ctx, in.Symbol, "5d", t.interval)
	if err != nil {
		return nil, err
	}

	result, err := RegulationM(series)
	if err != nil {
		return nil, err
	}
	return marshalOutput(result)
}
