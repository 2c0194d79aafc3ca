// Package pipeline sequences the five agent roles for one symbol: explicit
// per-symbol state, prerequisite gating, and trade execution behind the
// supervisor's final decision.
package pipeline

import (
	"sync"
	"time"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/agents"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/models"
)

// Status of one pipeline step
type Status string

const (
	StatusNotRun    Status = "NOT_RUN"
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// prerequisites gates each role on upstream completions
var prerequisites = map[agents.Role][]agents.Role{
	agents.RoleMarketAnalyst: nil,
	agents.RoleStrategy:      {agents.RoleMarketAnalyst},
	agents.RoleRiskManager:   {agents.RoleMarketAnalyst},
	agents.RoleRegulatory:    {agents.RoleMarketAnalyst, agents.RoleStrategy},
	agents.RoleSupervisor: {
		agents.RoleMarketAnalyst, agents.RoleStrategy,
		agents.RoleRiskManager, agents.RoleRegulatory,
	},
}

// StepResult is the outcome of one agent run. Failures carry Err instead of
// raising; sibling steps are unaffected.
type StepResult struct {
	Role        agents.Role        `json:"role"`
	Status      Status             `json:"status"`
	Output      models.AgentOutput `json:"output"`
	Payload     any                `json:"payload,omitempty"`
	PayloadJSON string             `json:"-"`
	Err         error              `json:"-"`
	Error       string             `json:"error,omitempty"`
	StartedAt   time.Time          `json:"started_at"`
	FinishedAt  time.Time          `json:"finished_at"`
}

// State is the per-symbol pipeline session: role to latest step result.
// Re-running a role overwrites its slot; the audit log keeps every run.
type State struct {
	Symbol string

	mu    sync.RWMutex
	steps map[agents.Role]*StepResult
}

// NewState creates an empty session for symbol
func NewState(symbol string) *State {
	return &State{
		Symbol: symbol,
		steps:  make(map[agents.Role]*StepResult),
	}
}

// Status reports the current status of a role
func (s *State) Status(role agents.Role) Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if step, ok := s.steps[role]; ok {
		return step.Status
	}
	return StatusNotRun
}

// Completed reports whether the role has finished successfully
func (s *State) Completed(role agents.Role) bool {
	return s.Status(role) == StatusCompleted
}

// Step returns the latest result for a role
func (s *State) Step(role agents.Role) (*StepResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	step, ok := s.steps[role]
	return step, ok
}

// setStep overwrites the role's slot
func (s *State) setStep(result *StepResult) {
	s.mu.Lock()
	s.steps[result.Role] = result
	s.mu.Unlock()
}

// Reset clears every slot, e.g. when the symbol's analysis starts over
func (s *State) Reset() {
	s.mu.Lock()
	s.steps = make(map[agents.Role]*StepResult)
	s.mu.Unlock()
}

// MissingPrerequisites lists display names of incomplete upstream roles
func (s *State) MissingPrerequisites(role agents.Role) []string {
	var missing []string
	for _, req := range prerequisites[role] {
		if !s.Completed(req) {
			missing = append(missing, req.DisplayName())
		}
	}
	return missing
}

// contextEntries collects completed upstream outputs in pipeline order for
// the context aggregator.
func (s *State) contextEntries(role agents.Role) []agents.ContextEntry {
	var entries []agents.ContextEntry
	for _, upstream := range agents.PipelineOrder {
		if upstream == role {
			break
		}
		step, ok := s.Step(upstream)
		if !ok || step.Status != StatusCompleted {
			continue
		}
		entries = append(entries, agents.ContextEntry{
			Role: upstream,
			Text: step.PayloadJSON,
		})
	}
	return entries
}

// Snapshot is a read-only view of the session for API responses
type Snapshot struct {
	Symbol string                      `json:"symbol"`
	Steps  map[agents.Role]*StepResult `json:"steps"`
	Status map[agents.Role]Status      `json:"status"`
}

// Snapshot captures the current state of every role
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Symbol: s.Symbol,
		Steps:  make(map[agents.Role]*StepResult, len(s.steps)),
		Status: make(map[agents.Role]Status, len(agents.PipelineOrder)),
	}
	for _, role := range agents.PipelineOrder {
		snap.Status[role] = StatusNotRun
		if step, ok := s.steps[role]; ok {
			snap.Steps[role] = step
			snap.Status[role] = step.Status
		}
	}
	return snap
}
