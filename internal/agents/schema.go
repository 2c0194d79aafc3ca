package agents

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/models"
)

// MarketAnalysis is the market analyst's output schema
type MarketAnalysis struct {
	MarketAnalysis    string  `json:"market_analysis" validate:"required"`
	OverallConfidence float64 `json:"overall_confidence"`
	TechnicalSummary  string  `json:"technical_summary"`
	SentimentSummary  string  `json:"sentiment_summary"`
}

// TradingDecision is the strategy agent's output schema
type TradingDecision struct {
	Symbol              string   `json:"symbol"`
	Decision            string   `json:"decision" validate:"required,oneof=BUY SELL HOLD"`
	Confidence          float64  `json:"confidence"`
	Rationale           string   `json:"rationale" validate:"required"`
	RiskLevel           string   `json:"risk_level" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	PositionSizePercent float64  `json:"position_size_percent"`
	EntryPrice          *float64 `json:"entry_price,omitempty"`
	ExitPrice           *float64 `json:"exit_price,omitempty"`
}

// RiskAssessment is the risk manager's output schema
type RiskAssessment struct {
	RiskLevel          string  `json:"risk_level" validate:"required,oneof=LOW MEDIUM HIGH"`
	Confidence         float64 `json:"confidence"`
	Rationale          string  `json:"rationale" validate:"required"`
	MaxPositionPercent float64 `json:"max_position_percent"`
}

// ComplianceDecision is the regulatory agent's output schema
type ComplianceDecision struct {
	ComplianceStatus string   `json:"compliance_status" validate:"required,oneof=COMPLIANT VIOLATION_DETECTED REVIEW_REQUIRED"`
	Recommendation   string   `json:"recommendation" validate:"required"`
	Confidence       float64  `json:"confidence"`
	Violations       []string `json:"violations"`
	Explanation      string   `json:"explanation"`
}

// SupervisorDecision is the supervisor's output schema carrying the final
// trading decision.
type SupervisorDecision struct {
	FinalDecision           string  `json:"final_decision" validate:"required,oneof=BUY SELL HOLD"`
	Confidence              float64 `json:"confidence"`
	Rationale               string  `json:"rationale" validate:"required"`
	RiskAssessment          string  `json:"risk_assessment"`
	PositionSizePercent     float64 `json:"position_size_percent"`
	ComplianceApproved      bool    `json:"compliance_approved"`
	AgentConsensus          string  `json:"agent_consensus"`
	MarketConditionsSummary string  `json:"market_conditions_summary"`
}

var validate = validator.New()

// decodePayload parses a model response against a role schema and validates
// it fail-closed. A decision outside the enum is a protocol violation, never
// coerced. Confidence clamping happens after validation, in the role mappers.
func decodePayload(role Role, raw string, out any) error {
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return &models.SchemaValidationError{
			Role:   string(role),
			Detail: "response is not valid JSON: " + err.Error(),
		}
	}

	if err := validate.Struct(out); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			details := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				details = append(details, fe.Field()+" failed "+fe.Tag())
			}
			return &models.SchemaValidationError{
				Role:   string(role),
				Detail: strings.Join(details, "; "),
			}
		}
		return &models.SchemaValidationError{Role: string(role), Detail: err.Error()}
	}

	return nil
}
