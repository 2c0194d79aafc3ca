// Package agents builds role-specific prompts, invokes the hosted model, and
// validates structured responses for the five trading agents.
package agents

// Role identifies one agent in the pipeline
type Role string

const (
	RoleMarketAnalyst Role = "market_analyst"
	RoleStrategy      Role = "strategy_agent"
	RoleRiskManager   Role = "risk_manager"
	RoleRegulatory    Role = "regulatory_agent"
	RoleSupervisor    Role = "supervisor"
)

// PipelineOrder lists the roles in execution order
var PipelineOrder = []Role{
	RoleMarketAnalyst,
	RoleStrategy,
	RoleRiskManager,
	RoleRegulatory,
	RoleSupervisor,
}

var displayNames = map[Role]string{
	RoleMarketAnalyst: "Market Analyst",
	RoleStrategy:      "Strategy Agent",
	RoleRiskManager:   "Risk Manager",
	RoleRegulatory:    "Regulatory Agent",
	RoleSupervisor:    "Supervisor",
}

// DisplayName returns the human-facing name of the role
func (r Role) DisplayName() string {
	if name, ok := displayNames[r]; ok {
		return name
	}
	return string(r)
}

// Valid reports whether r is a known pipeline role
func (r Role) Valid() bool {
	_, ok := displayNames[r]
	return ok
}

// ParseRole maps a string onto a known role
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}
