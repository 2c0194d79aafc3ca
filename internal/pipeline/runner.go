package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/agents"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/data"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/metrics"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/storage"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/telemetry"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/models"
)

// Notifier pushes a human-readable note about an executed trade
type Notifier interface {
	NotifyTrade(ctx context.Context, trade *TradeResult) error
}

// Options configures a Pipeline
type Options struct {
	Provider *data.Provider
	Agents   *agents.System
	Store    storage.Store
	Hub      *telemetry.Hub // optional
	Notifier Notifier       // optional
	Period   string
	Interval string
}

// Pipeline orchestrates the agent roles per symbol. Execution is strictly
// sequential within one symbol; the prerequisite gates enforce the order.
type Pipeline struct {
	provider *data.Provider
	agents   *agents.System
	store    storage.Store
	hub      *telemetry.Hub
	notifier Notifier
	period   string
	interval string
	logger   zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*State
}

// New creates a pipeline
func New(opts Options) *Pipeline {
	period := opts.Period
	if period == "" {
		period = "1mo"
	}
	interval := opts.Interval
	if interval == "" {
		interval = "1d"
	}

	return &Pipeline{
		provider: opts.Provider,
		agents:   opts.Agents,
		store:    opts.Store,
		hub:      opts.Hub,
		notifier: opts.Notifier,
		period:   period,
		interval: interval,
		logger:   log.With().Str("component", "pipeline").Logger(),
		sessions: make(map[string]*State),
	}
}

// session returns (or creates) the state object for symbol
func (p *Pipeline) session(symbol string) *State {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.sessions[symbol]; ok {
		return s
	}
	s := NewState(symbol)
	p.sessions[symbol] = s
	return s
}

// StateFor returns a snapshot of the symbol's session
func (p *Pipeline) StateFor(symbol string) Snapshot {
	return p.session(symbol).Snapshot()
}

// Reset clears the symbol's session
func (p *Pipeline) Reset(symbol string) {
	p.session(symbol).Reset()
	p.publish(telemetry.Event{Type: "pipeline_reset", Symbol: symbol})
}

// RunStep runs one agent role for symbol. Prerequisite violations, model
// failures, and schema violations all come back inside the StepResult; the
// error return is reserved for unknown roles.
func (p *Pipeline) RunStep(ctx context.Context, symbol string, role agents.Role) (*StepResult, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown agent role %q", role)
	}

	state := p.session(symbol)
	start := time.Now().UTC()

	if missing := state.MissingPrerequisites(role); len(missing) > 0 {
		err := &models.PrerequisiteNotMetError{Role: role.DisplayName(), Missing: missing}
		result := p.failStep(state, role, start, err)
		return result, nil
	}

	p.publish(telemetry.Event{Type: "step_started", Symbol: symbol, Role: string(role)})
	state.setStep(&StepResult{Role: role, Status: StatusRunning, StartedAt: start})

	frame, err := p.provider.Frame(ctx, symbol, p.period, p.interval)
	if err != nil {
		result := p.failStep(state, role, start, err)
		return result, nil
	}

	runOut, err := p.agents.Run(ctx, role, agents.RunInput{
		Symbol:  symbol,
		Frame:   frame,
		Context: agents.AggregateContext(state.contextEntries(role)),
		RunID:   uuid.NewString(),
	})
	if err != nil {
		result := p.failStep(state, role, start, err)
		return result, nil
	}

	result := &StepResult{
		Role:        role,
		Status:      StatusCompleted,
		Output:      runOut.Output,
		Payload:     runOut.Payload,
		PayloadJSON: runOut.PayloadJSON,
		StartedAt:   start,
		FinishedAt:  time.Now().UTC(),
	}
	state.setStep(result)

	p.persistStep(ctx, result)

	metrics.StepRuns.WithLabelValues(string(role), string(StatusCompleted)).Inc()
	metrics.StepDuration.WithLabelValues(string(role)).Observe(time.Since(start).Seconds())
	p.publish(telemetry.Event{
		Type: "step_completed", Symbol: symbol, Role: string(role), Status: string(StatusCompleted),
	})
	p.logger.Info().Str("symbol", symbol).Str("role", string(role)).
		Str("decision", string(result.Output.Decision)).
		Float64("confidence", result.Output.Confidence).Msg("Step completed")

	return result, nil
}

// RunAll runs every role in pipeline order, stopping at the first failure
func (p *Pipeline) RunAll(ctx context.Context, symbol string) ([]*StepResult, error) {
	var results []*StepResult
	for _, role := range agents.PipelineOrder {
		result, err := p.RunStep(ctx, symbol, role)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		if result.Status != StatusCompleted {
			break
		}
	}
	return results, nil
}

func (p *Pipeline) failStep(state *State, role agents.Role, start time.Time, err error) *StepResult {
	result := &StepResult{
		Role:       role,
		Status:     StatusFailed,
		Err:        err,
		Error:      err.Error(),
		StartedAt:  start,
		FinishedAt: time.Now().UTC(),
	}
	state.setStep(result)

	metrics.StepRuns.WithLabelValues(string(role), string(StatusFailed)).Inc()
	p.publish(telemetry.Event{
		Type: "step_failed", Symbol: state.Symbol, Role: string(role),
		Status: string(StatusFailed), Detail: err.Error(),
	})
	p.logger.Warn().Err(err).Str("symbol", state.Symbol).Str("role", string(role)).Msg("Step failed")

	return result
}

// persistStep appends the step's decision (and, for compliance-bearing
// roles, an audit entry). Storage failures are logged and swallowed: the
// computed result stays valid.
func (p *Pipeline) persistStep(ctx context.Context, result *StepResult) {
	if p.store == nil {
		return
	}

	out := result.Output
	record := models.DecisionRecord{
		ID:         uuid.NewString(),
		Symbol:     out.Symbol,
		Decision:   decisionOrAction(result),
		Confidence: out.Confidence,
		AgentName:  out.Role,
		CreatedAt:  out.Timestamp,
	}
	if err := p.store.SaveDecision(ctx, record); err != nil {
		p.logger.Error().Err(err).Str("role", out.Role).Msg("Failed to persist decision")
	}

	entry, ok := auditEntryFor(result)
	if !ok {
		return
	}
	if err := p.store.SaveAuditEntry(ctx, entry); err != nil {
		p.logger.Error().Err(err).Str("role", out.Role).Msg("Failed to persist audit entry")
	}
}

// auditEntryFor builds the compliance-grade entry for regulatory and
// supervisor steps.
func auditEntryFor(result *StepResult) (models.AuditEntry, bool) {
	out := result.Output
	entry := models.AuditEntry{
		ID:         uuid.NewString(),
		Symbol:     out.Symbol,
		Timestamp:  out.Timestamp,
		Confidence: out.Confidence,
		Rationale:  out.Rationale,
		RiskLevel:  string(out.RiskLevel),
	}

	switch payload := result.Payload.(type) {
	case *agents.ComplianceDecision:
		entry.DecisionType = "REGULATORY"
		entry.Action = payload.Recommendation
		entry.ComplianceStatus = payload.ComplianceStatus
		entry.BlockedTrades = strconv.Itoa(len(payload.Violations))
		return entry, true
	case *agents.SupervisorDecision:
		entry.DecisionType = "SUPERVISOR"
		entry.Action = payload.FinalDecision
		entry.PositionSize = fmt.Sprintf("%.1f%%", payload.PositionSizePercent)
		if payload.ComplianceApproved {
			entry.ComplianceStatus = string(models.ComplianceCompliant)
		} else {
			entry.ComplianceStatus = string(models.ComplianceReviewRequired)
		}
		return entry, true
	}
	return models.AuditEntry{}, false
}

// decisionOrAction picks the loggable action for a step: the decision for
// decision-bearing roles, the recommendation or risk level otherwise.
func decisionOrAction(result *StepResult) string {
	switch payload := result.Payload.(type) {
	case *agents.TradingDecision:
		return payload.Decision
	case *agents.SupervisorDecision:
		return payload.FinalDecision
	case *agents.RiskAssessment:
		return payload.RiskLevel
	case *agents.ComplianceDecision:
		return payload.Recommendation
	default:
		return "ANALYZED"
	}
}

func (p *Pipeline) publish(event telemetry.Event) {
	if p.hub != nil {
		p.hub.Publish(event)
	}
}
