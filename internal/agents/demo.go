package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"
)

// DemoModel is a deterministic stand-in for the hosted model so the demo
// runs without an API key. Responses are canned per role; the decision is
// derived from a hash of the symbol, so the same symbol always gets the
// same answer.
type DemoModel struct{}

// NewDemoModel creates the keyless demo model
func NewDemoModel() *DemoModel {
	return &DemoModel{}
}

func (m *DemoModel) Complete(_ context.Context, role Role, system, _ string) (string, error) {
	symbol := symbolFromPrompt(system)
	decision := demoDecision(symbol)

	var payload any
	switch role {
	case RoleMarketAnalyst:
		payload = MarketAnalysis{
			MarketAnalysis:    fmt.Sprintf("%s shows a stable technical picture with moderate momentum and no unusual volume. Demo-mode analysis.", symbol),
			OverallConfidence: 0.72,
			TechnicalSummary:  "RSI near the midline, MACD flat, price inside the Bollinger Bands",
			SentimentSummary:  "Neutral to mildly positive sentiment",
		}
	case RoleStrategy:
		payload = TradingDecision{
			Symbol:              symbol,
			Decision:            decision,
			Confidence:          0.68,
			Rationale:           fmt.Sprintf("Demo-mode strategy: momentum and retracement levels favor %s for %s.", decision, symbol),
			RiskLevel:           "MEDIUM",
			PositionSizePercent: 5,
		}
	case RoleRiskManager:
		payload = RiskAssessment{
			RiskLevel:          "MEDIUM",
			Confidence:         0.75,
			Rationale:          "Demo-mode risk view: moderate volatility, cap exposure at a small position.",
			MaxPositionPercent: 5,
		}
	case RoleRegulatory:
		payload = ComplianceDecision{
			ComplianceStatus: "COMPLIANT",
			Recommendation:   "APPROVED",
			Confidence:       0.85,
			Violations:       []string{},
			Explanation:      "Demo-mode screen: no volume spikes or volatility flags in the review window.",
		}
	case RoleSupervisor:
		payload = SupervisorDecision{
			FinalDecision:           decision,
			Confidence:              0.7,
			Rationale:               fmt.Sprintf("Demo-mode final decision: agents lean %s for %s with no compliance objections.", decision, symbol),
			RiskAssessment:          "MEDIUM",
			PositionSizePercent:     5,
			ComplianceApproved:      true,
			AgentConsensus:          "majority " + decision,
			MarketConditionsSummary: "Calm conditions, normal volume",
		}
	default:
		return "", fmt.Errorf("unknown agent role %q", role)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func demoDecision(symbol string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.ToUpper(symbol)))
	switch h.Sum32() % 3 {
	case 0:
		return "BUY"
	case 1:
		return "HOLD"
	default:
		return "SELL"
	}
}

// symbolFromPrompt pulls the symbol out of the system instruction, which
// always ends its first line with "for <SYMBOL>.".
func symbolFromPrompt(system string) string {
	line := system
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSuffix(strings.TrimSpace(line), ".")
	if idx := strings.LastIndex(line, " for "); idx >= 0 {
		return line[idx+len(" for "):]
	}
	return "DEMO"
}
