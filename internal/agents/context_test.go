package agents

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestAggregateContext(t *testing.T) {
	entries := []ContextEntry{
		{Role: RoleMarketAnalyst, Text: "bullish momentum"},
		{Role: RoleStrategy, Text: "buy on the retracement"},
	}

	got := AggregateContext(entries)

	if !strings.Contains(got, "MARKET ANALYSIS (market_analyst):\nbullish momentum") {
		t.Errorf("missing market analyst block in %q", got)
	}
	if !strings.Contains(got, "STRATEGY ANALYSIS (strategy_agent):\nbuy on the retracement") {
		t.Errorf("missing strategy block in %q", got)
	}
	if strings.Index(got, "MARKET ANALYSIS") > strings.Index(got, "STRATEGY ANALYSIS") {
		t.Error("entries out of pipeline order")
	}
}

func TestAggregateContextTruncation(t *testing.T) {
	long := strings.Repeat("x", 500)
	got := AggregateContext([]ContextEntry{{Role: RoleRiskManager, Text: long}})

	want := strings.Repeat("x", 300) + "..."
	if !strings.Contains(got, want) {
		t.Fatal("long entry not truncated to 300 characters with ellipsis")
	}
	if strings.Contains(got, strings.Repeat("x", 301)) {
		t.Error("more than 300 characters of the entry survived")
	}
}

func TestAggregateContextTruncationMultibyte(t *testing.T) {
	long := strings.Repeat("é", 500)
	got := AggregateContext([]ContextEntry{{Role: RoleRiskManager, Text: long}})

	if !utf8.ValidString(got) {
		t.Fatal("truncation split a multibyte rune")
	}
	want := strings.Repeat("é", 300) + "..."
	if !strings.Contains(got, want) {
		t.Error("long entry not truncated to 300 runes with ellipsis")
	}
}

func TestAggregateContextBoundary(t *testing.T) {
	exact := strings.Repeat("y", 300)
	got := AggregateContext([]ContextEntry{{Role: RoleMarketAnalyst, Text: exact}})

	if strings.Contains(got, "...") {
		t.Error("300-character entry truncated; the limit is inclusive")
	}
	if !strings.Contains(got, exact) {
		t.Error("300-character entry not passed through whole")
	}
}

func TestAggregateContextSkipsEmpty(t *testing.T) {
	entries := []ContextEntry{
		{Role: RoleMarketAnalyst, Text: ""},
		{Role: RoleStrategy, Text: "something"},
	}

	got := AggregateContext(entries)
	if strings.Contains(got, "MARKET ANALYSIS") {
		t.Error("empty entry produced a header")
	}
	if got == "" {
		t.Error("non-empty entry dropped")
	}
}

func TestAggregateContextEmptyInput(t *testing.T) {
	if got := AggregateContext(nil); got != "" {
		t.Errorf("AggregateContext(nil) = %q, want empty", got)
	}
}
