package agents

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/tools"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/models"
)

var systemPrompts = map[Role]string{
	RoleMarketAnalyst: `You are a Market Data Analyst specializing in technical analysis and market sentiment for %s.

Your role:
- Analyze stock data, technical indicators, and market trends
- Interpret Fibonacci levels and sentiment analysis
- Provide clear, data-driven market insights

Always provide structured analysis with confidence scores and specific recommendations.
Respond with a JSON object: {"market_analysis": string, "overall_confidence": number 0-1, "technical_summary": string, "sentiment_summary": string}.`,

	RoleStrategy: `You are a Strategy Agent specializing in trading strategy development and signal generation for %s.

Your role:
- Develop comprehensive trading strategies using technical analysis
- Generate buy/sell/hold signals with confidence scores
- Provide specific entry/exit points and position sizing

Always provide actionable trading recommendations with clear rationale.
Respond with a JSON object: {"symbol": string, "decision": "BUY"|"SELL"|"HOLD", "confidence": number 0-1, "rationale": string, "risk_level": "LOW"|"MEDIUM"|"HIGH", "position_size_percent": number, "entry_price": number|null, "exit_price": number|null}.`,

	RoleRiskManager: `You are a Risk Management Agent specializing in portfolio risk assessment and position sizing for %s.

Your role:
- Evaluate market volatility and risk exposure
- Recommend appropriate position sizing
- Provide risk-adjusted trading recommendations

Always prioritize capital preservation and risk-adjusted returns.
Respond with a JSON object: {"risk_level": "LOW"|"MEDIUM"|"HIGH", "confidence": number 0-1, "rationale": string, "max_position_percent": number}.`,

	RoleRegulatory: `You are a Regulatory Compliance Agent specializing in SEC regulations and trading compliance for %s.

Your role:
- Ensure all trading decisions comply with SEC Regulation M
- Identify potential compliance violations
- Block trades when necessary for compliance

Always prioritize regulatory compliance and provide clear explanations for decisions.
Respond with a JSON object: {"compliance_status": "COMPLIANT"|"VIOLATION_DETECTED"|"REVIEW_REQUIRED", "recommendation": string, "confidence": number 0-1, "violations": [string], "explanation": string}.`,

	RoleSupervisor: `You are the Supervisor Agent, the senior portfolio manager making final trading decisions for %s.

Your role:
- Review analysis from all specialized agents
- Make final trading decisions (BUY/SELL/HOLD)
- Balance profit potential with risk management and compliance
- Provide comprehensive rationale for all decisions

Your decisions are final and must consider all agent inputs, market conditions, and regulatory requirements.
Respond with a JSON object: {"final_decision": "BUY"|"SELL"|"HOLD", "confidence": number 0-1, "rationale": string, "risk_assessment": string, "position_size_percent": number, "compliance_approved": boolean, "agent_consensus": string, "market_conditions_summary": string}.`,
}

// systemPrompt returns the role's system instruction for symbol, honoring a
// configured override when one exists.
func (s *System) systemPrompt(role Role, symbol string) string {
	if override, ok := s.overrides[string(role)]; ok && override != "" {
		return strings.ReplaceAll(override, "{symbol}", symbol)
	}
	return fmt.Sprintf(systemPrompts[role], symbol)
}

// userPrompt builds the role's user message: the market snapshot, the
// deterministic tool outputs relevant to the role, and for downstream roles
// the aggregated context of earlier agents.
func (s *System) userPrompt(role Role, in RunInput) string {
	var sb strings.Builder

	snap := tools.Snapshot(in.Frame)
	fmt.Fprintf(&sb, "Market snapshot for %s:\n", in.Symbol)
	fmt.Fprintf(&sb, "- Current price: %.2f (previous close %.2f, change %+.2f%%)\n",
		snap.CurrentPrice, snap.PreviousClose, snap.ChangePct)
	fmt.Fprintf(&sb, "- Window high/low: %.2f / %.2f\n", snap.WindowHigh, snap.WindowLow)
	fmt.Fprintf(&sb, "- Volume: %d (average %.0f, profile %s)\n", snap.Volume, snap.AvgVolume, snap.VolumeProfile)
	fmt.Fprintf(&sb, "- Trend: %s\n", snap.Trend)
	writeIndicator(&sb, "RSI(14)", snap.RSI)
	writeIndicator(&sb, "MACD", snap.MACD)
	writeIndicator(&sb, "MACD signal", snap.MACDSignal)
	writeIndicator(&sb, "Bollinger upper", snap.BBUpper)
	writeIndicator(&sb, "Bollinger lower", snap.BBLower)
	writeIndicator(&sb, "SMA(50)", snap.SMA50)
	writeIndicator(&sb, "SMA(200)", snap.SMA200)
	if snap.Synthetic {
		sb.WriteString("- Note: synthetic demo data (live source unavailable)\n")
	}

	switch role {
	case RoleMarketAnalyst, RoleStrategy:
		writeToolJSON(&sb, "Fibonacci analysis", fibOutput(in))
		writeToolJSON(&sb, "Sentiment analysis", sentimentOutput(in, "3d"))
	case RoleRiskManager:
		writeToolJSON(&sb, "Sentiment analysis", sentimentOutput(in, "7d"))
	case RoleRegulatory:
		writeToolJSON(&sb, "Regulation M screen", complianceOutput(in))
	}

	if in.Context != "" {
		sb.WriteString("\nAgent Analysis Summary:\n")
		sb.WriteString(in.Context)
	}

	sb.WriteString("\n")
	sb.WriteString(taskPrompts[role])
	return sb.String()
}

var taskPrompts = map[Role]string{
	RoleMarketAnalyst: "Provide a comprehensive market analysis with confidence scores. Focus on actionable insights including price trends, volume patterns, technical signal strength, and sentiment indicators.",
	RoleStrategy:      "Develop a trading strategy from this data: analyze MACD crossovers, Bollinger Band signals and momentum, then generate a specific BUY/SELL/HOLD signal with entry/exit points and position sizing.",
	RoleRiskManager:   "Assess the risk profile for trading this symbol: recent volatility, sentiment, and exposure. Recommend position sizing and risk management measures.",
	RoleRegulatory:    "Perform a comprehensive SEC Regulation M compliance check. Determine whether any trades should be blocked and give a clear recommendation: APPROVED, PROCEED_WITH_CAUTION, or BLOCK_TRADES.",
	RoleSupervisor:    "As the senior portfolio manager, weigh all agent inputs, market conditions, and compliance status, then make the final BUY/SELL/HOLD decision with risk level and position size, explaining how you balanced the different agents.",
}

func writeIndicator(sb *strings.Builder, name string, v models.IndicatorValue) {
	if v.Valid {
		fmt.Fprintf(sb, "- %s: %.2f\n", name, v.Value)
	} else {
		fmt.Fprintf(sb, "- %s: unavailable (lookback not met)\n", name)
	}
}

func writeToolJSON(sb *strings.Builder, label string, v any) {
	if v == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(sb, "\n%s: %s\n", label, raw)
}

func fibOutput(in RunInput) any {
	result, err := tools.Fibonacci(in.Frame.PriceSeries, 20)
	if err != nil {
		return nil
	}
	return result
}

func sentimentOutput(in RunInput, timeframe string) any {
	result, err := tools.Sentiment(in.Frame.PriceSeries, timeframe)
	if err != nil {
		return nil
	}
	return result
}

func complianceOutput(in RunInput) any {
	result, err := tools.RegulationM(in.Frame.PriceSeries)
	if err != nil {
		return nil
	}
	return result
}
