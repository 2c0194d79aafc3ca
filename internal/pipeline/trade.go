package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/agents"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/telemetry"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/tools"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/models"
)

// TradeResult summarizes an executed demo trade
type TradeResult struct {
	Symbol        string          `json:"symbol"`
	Decision      models.Decision `json:"decision"`
	Confidence    float64         `json:"confidence"`
	PositionSize  float64         `json:"position_size_percent"`
	Rationale     string          `json:"rationale"`
	RecordedRoles []string        `json:"recorded_roles"`
	ExecutedAt    time.Time       `json:"executed_at"`
}

// ExecuteTrade records the supervisor's final decision as an executed demo
// trade. It is gated on the supervisor having completed; one decision row is
// persisted per completed agent plus the advisory trading signal, and the
// trade itself lands in the audit trail.
func (p *Pipeline) ExecuteTrade(ctx context.Context, symbol string) (*TradeResult, error) {
	state := p.session(symbol)

	if missing := state.MissingPrerequisites(agents.RoleSupervisor); len(missing) > 0 || !state.Completed(agents.RoleSupervisor) {
		if !state.Completed(agents.RoleSupervisor) {
			missing = append(missing, agents.RoleSupervisor.DisplayName())
		}
		return nil, &models.PrerequisiteNotMetError{Role: "Trade Execution", Missing: missing}
	}

	supervisorStep, _ := state.Step(agents.RoleSupervisor)
	supervisor, ok := supervisorStep.Payload.(*agents.SupervisorDecision)
	if !ok {
		return nil, fmt.Errorf("supervisor payload missing for %s", symbol)
	}

	trade := &TradeResult{
		Symbol:       symbol,
		Decision:     supervisorStep.Output.Decision,
		Confidence:   supervisorStep.Output.Confidence,
		PositionSize: supervisor.PositionSizePercent,
		Rationale:    supervisor.Rationale,
		ExecutedAt:   time.Now().UTC(),
	}

	// One decision row per completed agent, plus the advisory heuristic
	for _, role := range agents.PipelineOrder {
		step, ok := state.Step(role)
		if !ok || step.Status != StatusCompleted {
			continue
		}
		p.saveTradeDecision(ctx, symbol, decisionOrAction(step), step.Output.Confidence, string(role))
		trade.RecordedRoles = append(trade.RecordedRoles, string(role))
	}
	if signal := p.advisorySignal(ctx, symbol); signal != nil {
		p.saveTradeDecision(ctx, symbol, string(signal.Signal), signal.Confidence, "trading_signal")
		trade.RecordedRoles = append(trade.RecordedRoles, "trading_signal")
	}

	if p.store != nil {
		entry := models.AuditEntry{
			ID:               uuid.NewString(),
			Symbol:           symbol,
			Timestamp:        trade.ExecutedAt,
			DecisionType:     "TRADE_EXECUTION",
			Action:           string(trade.Decision),
			Confidence:       trade.Confidence,
			Rationale:        trade.Rationale,
			ComplianceStatus: string(models.ComplianceCompliant),
			PositionSize:     fmt.Sprintf("%.1f%%", trade.PositionSize),
		}
		if !supervisor.ComplianceApproved {
			entry.ComplianceStatus = string(models.ComplianceReviewRequired)
		}
		if err := p.store.SaveAuditEntry(ctx, entry); err != nil {
			p.logger.Error().Err(err).Str("symbol", symbol).Msg("Failed to persist trade audit entry")
		}
	}

	if p.notifier != nil {
		if err := p.notifier.NotifyTrade(ctx, trade); err != nil {
			p.logger.Warn().Err(err).Str("symbol", symbol).Msg("Trade notification failed")
		}
	}

	p.publish(telemetry.Event{
		Type: "trade_executed", Symbol: symbol,
		Status: string(trade.Decision), Detail: trade.Rationale,
	})
	p.logger.Info().Str("symbol", symbol).Str("decision", string(trade.Decision)).
		Float64("confidence", trade.Confidence).Msg("Trade executed")

	return trade, nil
}

func (p *Pipeline) saveTradeDecision(ctx context.Context, symbol, decision string, confidence float64, agentName string) {
	if p.store == nil {
		return
	}
	record := models.DecisionRecord{
		ID:         uuid.NewString(),
		Symbol:     symbol,
		Decision:   decision,
		Confidence: confidence,
		AgentName:  agentName,
		CreatedAt:  time.Now().UTC(),
	}
	if err := p.store.SaveDecision(ctx, record); err != nil {
		p.logger.Error().Err(err).Str("agent", agentName).Msg("Failed to persist trade decision")
	}
}

// advisorySignal recomputes the Fibonacci heuristic for the trade record
func (p *Pipeline) advisorySignal(ctx context.Context, symbol string) *tools.FibonacciResult {
	series, err := p.provider.Series(ctx, symbol, p.period, p.interval)
	if err != nil {
		return nil
	}
	signal, err := tools.Fibonacci(series, 20)
	if err != nil {
		return nil
	}
	return signal
}
