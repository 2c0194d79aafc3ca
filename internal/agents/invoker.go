package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/models"
)

// ChatModel is the hosted LLM behind the agents. The pipeline treats it as
// an opaque collaborator that returns schema-conformant JSON.
type ChatModel interface {
	Complete(ctx context.Context, role Role, system, user string) (string, error)
}

// Completer is the transport-level contract of the chat API client
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type completerModel struct {
	c Completer
}

func (m completerModel) Complete(ctx context.Context, _ Role, system, user string) (string, error) {
	return m.c.Complete(ctx, system, user)
}

// WrapCompleter adapts a role-agnostic chat client into a ChatModel
func WrapCompleter(c Completer) ChatModel {
	return completerModel{c: c}
}

// RunInput is everything one agent invocation needs
type RunInput struct {
	Symbol  string
	Frame   *models.IndicatorFrame
	Context string
	RunID   string
}

// RunOutput carries the normalized agent output plus the role's typed payload
type RunOutput struct {
	Output  models.AgentOutput
	Payload any
	// PayloadJSON is the payload serialized for context aggregation
	PayloadJSON string
}

// System invokes the five agents against a ChatModel
type System struct {
	model     ChatModel
	overrides map[string]string
	logger    zerolog.Logger
}

// NewSystem creates the agent system. overrides may replace per-role system
// prompts ({symbol} is substituted); pass nil for the defaults.
func NewSystem(model ChatModel, overrides map[string]string) *System {
	if overrides == nil {
		overrides = map[string]string{}
	}
	return &System{
		model:     model,
		overrides: overrides,
		logger:    log.With().Str("component", "agents").Logger(),
	}
}

// Run invokes one agent role. Invocation and parsing failures come back as
// typed errors (ModelInvocationError, SchemaValidationError) so callers can
// distinguish "couldn't ask" from "got garbage back".
func (s *System) Run(ctx context.Context, role Role, in RunInput) (*RunOutput, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown agent role %q", role)
	}
	if in.Frame == nil || in.Frame.Len() == 0 {
		return nil, fmt.Errorf("no market data for %s", in.Symbol)
	}

	system := s.systemPrompt(role, in.Symbol)
	user := s.userPrompt(role, in)

	s.logger.Debug().Str("role", string(role)).Str("symbol", in.Symbol).Msg("Invoking agent")
	raw, err := s.model.Complete(ctx, role, system, user)
	if err != nil {
		return nil, &models.ModelInvocationError{Role: string(role), Err: err}
	}

	out, err := s.mapResponse(role, in, raw)
	if err != nil {
		return nil, err
	}

	out.Output.Symbol = in.Symbol
	out.Output.Role = string(role)
	out.Output.Timestamp = time.Now().UTC()
	out.Output.RunID = in.RunID
	out.Output.Confidence = models.Clamp01(out.Output.Confidence)

	if payload, err := json.Marshal(out.Payload); err == nil {
		out.PayloadJSON = string(payload)
	}

	return out, nil
}

// mapResponse decodes the raw model answer into the role schema and folds it
// into the shared AgentOutput shape.
func (s *System) mapResponse(role Role, in RunInput, raw string) (*RunOutput, error) {
	switch role {
	case RoleMarketAnalyst:
		var payload MarketAnalysis
		if err := decodePayload(role, raw, &payload); err != nil {
			return nil, err
		}
		return &RunOutput{
			Output: models.AgentOutput{
				Confidence: payload.OverallConfidence,
				Rationale:  payload.MarketAnalysis,
				Summary:    payload.TechnicalSummary,
			},
			Payload: &payload,
		}, nil

	case RoleStrategy:
		var payload TradingDecision
		if err := decodePayload(role, raw, &payload); err != nil {
			return nil, err
		}
		decision, err := models.ParseDecision(payload.Decision)
		if err != nil {
			return nil, &models.SchemaValidationError{Role: string(role), Detail: err.Error()}
		}
		return &RunOutput{
			Output: models.AgentOutput{
				Decision:   decision,
				Confidence: payload.Confidence,
				RiskLevel:  models.RiskLevel(payload.RiskLevel),
				Rationale:  payload.Rationale,
			},
			Payload: &payload,
		}, nil

	case RoleRiskManager:
		var payload RiskAssessment
		if err := decodePayload(role, raw, &payload); err != nil {
			return nil, err
		}
		return &RunOutput{
			Output: models.AgentOutput{
				Confidence: payload.Confidence,
				RiskLevel:  models.RiskLevel(payload.RiskLevel),
				Rationale:  payload.Rationale,
			},
			Payload: &payload,
		}, nil

	case RoleRegulatory:
		var payload ComplianceDecision
		if err := decodePayload(role, raw, &payload); err != nil {
			return nil, err
		}
		return &RunOutput{
			Output: models.AgentOutput{
				Confidence: payload.Confidence,
				Rationale:  payload.Explanation,
				Summary:    payload.Recommendation,
			},
			Payload: &payload,
		}, nil

	case RoleSupervisor:
		var payload SupervisorDecision
		if err := decodePayload(role, raw, &payload); err != nil {
			return nil, err
		}
		decision, err := models.ParseDecision(payload.FinalDecision)
		if err != nil {
			return nil, &models.SchemaValidationError{Role: string(role), Detail: err.Error()}
		}
		return &RunOutput{
			Output: models.AgentOutput{
				Decision:   decision,
				Confidence: payload.Confidence,
				RiskLevel:  riskFromAssessment(payload.RiskAssessment),
				Rationale:  payload.Rationale,
				Summary:    payload.MarketConditionsSummary,
			},
			Payload: &payload,
		}, nil
	}

	return nil, fmt.Errorf("unknown agent role %q", role)
}

// riskFromAssessment extracts a risk level when the supervisor's free-text
// assessment names one; otherwise the level stays empty.
func riskFromAssessment(text string) models.RiskLevel {
	for _, level := range []models.RiskLevel{models.RiskLow, models.RiskMedium, models.RiskHigh} {
		if text == string(level) {
			return level
		}
	}
	return ""
}
