package agents

import "strings"

// maxContextChars bounds one upstream agent's contribution to a downstream
// prompt so a single verbose agent cannot crowd out the rest.
const maxContextChars = 300

var contextHeaders = map[Role]string{
	RoleMarketAnalyst: "MARKET ANALYSIS",
	RoleStrategy:      "STRATEGY ANALYSIS",
	RoleRiskManager:   "RISK ANALYSIS",
	RoleRegulatory:    "COMPLIANCE ANALYSIS",
	RoleSupervisor:    "SUPERVISOR DECISION",
}

// ContextEntry is one upstream agent's textual output
type ContextEntry struct {
	Role Role
	Text string
}

// AggregateContext folds prior agent outputs into a bounded summary for the
// next agent's prompt. Each entry is truncated to maxContextChars with an
// ellipsis marker; empty entries are skipped; entries keep pipeline order.
func AggregateContext(entries []ContextEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		text := e.Text
		if text == "" {
			continue
		}
		if runes := []rune(text); len(runes) > maxContextChars {
			text = string(runes[:maxContextChars]) + "..."
		}

		header := contextHeaders[e.Role]
		if header == "" {
			header = strings.ToUpper(string(e.Role))
		}

		sb.WriteString("\n")
		sb.WriteString(header)
		sb.WriteString(" (")
		sb.WriteString(string(e.Role))
		sb.WriteString("):\n")
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String()
}
