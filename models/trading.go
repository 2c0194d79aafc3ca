package models

import (
	"fmt"
	"time"
)

// Decision is a trading signal emitted by an agent
type Decision string

const (
	DecisionBuy  Decision = "BUY"
	DecisionSell Decision = "SELL"
	DecisionHold Decision = "HOLD"
)

// ParseDecision maps a string onto the decision enum. Anything outside the
// enum is rejected so that a malformed model response never leaks downstream.
func ParseDecision(s string) (Decision, error) {
	switch Decision(s) {
	case DecisionBuy, DecisionSell, DecisionHold:
		return Decision(s), nil
	}
	return "", fmt.Errorf("unknown decision %q", s)
}

// RiskLevel classifies the risk attached to a decision
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// ComplianceStatus is the outcome of a regulatory screen
type ComplianceStatus string

const (
	ComplianceCompliant      ComplianceStatus = "COMPLIANT"
	ComplianceViolation      ComplianceStatus = "VIOLATION_DETECTED"
	ComplianceReviewRequired ComplianceStatus = "REVIEW_REQUIRED"
)

// Sentiment buckets for the market sentiment heuristic
type Sentiment string

const (
	SentimentVeryBullish Sentiment = "VERY_BULLISH"
	SentimentBullish     Sentiment = "BULLISH"
	SentimentNeutral     Sentiment = "NEUTRAL"
	SentimentBearish     Sentiment = "BEARISH"
	SentimentVeryBearish Sentiment = "VERY_BEARISH"
)

// AgentOutput is one structured decision from one agent invocation.
// It is immutable once persisted.
type AgentOutput struct {
	Symbol     string    `json:"symbol"`
	Role       string    `json:"agent_role"`
	Decision   Decision  `json:"decision,omitempty"`
	Confidence float64   `json:"confidence"`
	RiskLevel  RiskLevel `json:"risk_level,omitempty"`
	Rationale  string    `json:"rationale"`
	Summary    string    `json:"summary,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	RunID      string    `json:"run_id"`
}

// DecisionRecord is one row of the append-only decision log
type DecisionRecord struct {
	ID         string    `json:"id"`
	Symbol     string    `json:"symbol"`
	Decision   string    `json:"decision"`
	Confidence float64   `json:"confidence"`
	AgentName  string    `json:"agent_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuditEntry is a compliance-grade superset of an agent decision, written by
// the regulatory and supervisor steps and on trade execution.
type AuditEntry struct {
	ID               string    `json:"id"`
	Symbol           string    `json:"symbol"`
	Timestamp        time.Time `json:"timestamp"`
	DecisionType     string    `json:"decision_type"`
	Action           string    `json:"action"`
	Confidence       float64   `json:"confidence"`
	Rationale        string    `json:"rationale"`
	ComplianceStatus string    `json:"compliance_status,omitempty"`
	RiskLevel        string    `json:"risk_level,omitempty"`
	PositionSize     string    `json:"position_size,omitempty"`
	BlockedTrades    string    `json:"blocked_trades,omitempty"`
}

// AuditSummary aggregates the audit trail for the dashboard
type AuditSummary struct {
	TotalEntries        int `json:"total_entries"`
	SupervisorDecisions int `json:"supervisor_decisions"`
	RegulatoryDecisions int `json:"regulatory_decisions"`
	BlockedTrades       int `json:"blocked_trades"`
}

// Clamp01 bounds a confidence value to [0,1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
