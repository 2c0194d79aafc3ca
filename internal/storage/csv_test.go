package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/models"
)

func newTestStore(t *testing.T) *CSVStore {
	t.Helper()
	store, err := NewCSVStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewCSVStore() error = %v", err)
	}
	return store
}

func decisionAt(i int, symbol, agent string) models.DecisionRecord {
	return models.DecisionRecord{
		ID:         fmt.Sprintf("id-%d", i),
		Symbol:     symbol,
		Decision:   "BUY",
		Confidence: 0.7,
		AgentName:  agent,
		CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute),
	}
}

func TestDecisionsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.SaveDecision(ctx, decisionAt(i, "AAPL", "strategy_agent")); err != nil {
			t.Fatalf("SaveDecision() error = %v", err)
		}
	}

	records, err := store.Decisions(ctx, "", "", 0)
	if err != nil {
		t.Fatalf("Decisions() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].CreatedAt.After(records[i-1].CreatedAt) {
			t.Fatal("records not newest first")
		}
	}
	if records[0].ID != "id-2" {
		t.Errorf("first record = %s, want the most recent (id-2)", records[0].ID)
	}
}

func TestDecisionsFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := []models.DecisionRecord{
		decisionAt(0, "AAPL", "strategy_agent"),
		decisionAt(1, "AAPL", "supervisor"),
		decisionAt(2, "TSLA", "strategy_agent"),
	}
	for _, record := range seed {
		if err := store.SaveDecision(ctx, record); err != nil {
			t.Fatalf("SaveDecision() error = %v", err)
		}
	}

	tests := []struct {
		name   string
		symbol string
		role   string
		want   int
	}{
		{"All", "", "", 3},
		{"By symbol", "AAPL", "", 2},
		{"Symbol is case-insensitive", "aapl", "", 2},
		{"By role", "", "strategy_agent", 2},
		{"Symbol and role", "AAPL", "strategy_agent", 1},
		{"No matches", "MSFT", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := store.Decisions(ctx, tt.symbol, tt.role, 0)
			if err != nil {
				t.Fatalf("Decisions() error = %v", err)
			}
			if len(records) != tt.want {
				t.Errorf("got %d records, want %d", len(records), tt.want)
			}
		})
	}
}

func TestDecisionsLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if err := store.SaveDecision(ctx, decisionAt(i, "AAPL", "strategy_agent")); err != nil {
			t.Fatalf("SaveDecision() error = %v", err)
		}
	}

	records, err := store.Decisions(ctx, "", "", 4)
	if err != nil {
		t.Fatalf("Decisions() error = %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}
	if records[0].ID != "id-9" {
		t.Errorf("limit kept %s first, want the newest (id-9)", records[0].ID)
	}
}

func TestAuditTrailRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := models.AuditEntry{
		ID:               "audit-1",
		Symbol:           "AAPL",
		Timestamp:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		DecisionType:     "REGULATORY",
		Action:           "BLOCK_TRADES",
		Confidence:       0.9,
		Rationale:        "volume spike, possible distribution",
		ComplianceStatus: "VIOLATION_DETECTED",
		RiskLevel:        "HIGH",
		PositionSize:     "0.0%",
		BlockedTrades:    "1",
	}
	if err := store.SaveAuditEntry(ctx, entry); err != nil {
		t.Fatalf("SaveAuditEntry() error = %v", err)
	}

	entries, err := store.AuditTrail(ctx, "AAPL", 0)
	if err != nil {
		t.Fatalf("AuditTrail() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0] != entry {
		t.Errorf("round-tripped entry = %+v, want %+v", entries[0], entry)
	}
}

func TestAuditTrailHandlesCommasAndNewlines(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rationale := "first line, with a comma\nsecond line with \"quotes\""
	entry := models.AuditEntry{
		ID:           "audit-2",
		Symbol:       "AAPL",
		Timestamp:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		DecisionType: "SUPERVISOR",
		Action:       "HOLD",
		Rationale:    rationale,
	}
	if err := store.SaveAuditEntry(ctx, entry); err != nil {
		t.Fatalf("SaveAuditEntry() error = %v", err)
	}

	entries, err := store.AuditTrail(ctx, "AAPL", 0)
	if err != nil {
		t.Fatalf("AuditTrail() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Rationale != rationale {
		t.Errorf("rationale mangled by CSV encoding: %q", entries[0].Rationale)
	}
}

func TestAuditSummary(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := []models.AuditEntry{
		{ID: "a", Symbol: "AAPL", Timestamp: time.Now().UTC(), DecisionType: "REGULATORY", BlockedTrades: "0"},
		{ID: "b", Symbol: "AAPL", Timestamp: time.Now().UTC(), DecisionType: "REGULATORY", BlockedTrades: "2"},
		{ID: "c", Symbol: "AAPL", Timestamp: time.Now().UTC(), DecisionType: "SUPERVISOR"},
		{ID: "d", Symbol: "TSLA", Timestamp: time.Now().UTC(), DecisionType: "TRADE_EXECUTION"},
	}
	for _, entry := range seed {
		if err := store.SaveAuditEntry(ctx, entry); err != nil {
			t.Fatalf("SaveAuditEntry() error = %v", err)
		}
	}

	summary, err := store.AuditSummary(ctx)
	if err != nil {
		t.Fatalf("AuditSummary() error = %v", err)
	}
	if summary.TotalEntries != 4 {
		t.Errorf("TotalEntries = %d, want 4", summary.TotalEntries)
	}
	if summary.RegulatoryDecisions != 2 {
		t.Errorf("RegulatoryDecisions = %d, want 2", summary.RegulatoryDecisions)
	}
	if summary.SupervisorDecisions != 1 {
		t.Errorf("SupervisorDecisions = %d, want 1", summary.SupervisorDecisions)
	}
	if summary.BlockedTrades != 1 {
		t.Errorf("BlockedTrades = %d, want 1", summary.BlockedTrades)
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewCSVStore(dir)
	if err != nil {
		t.Fatalf("NewCSVStore() error = %v", err)
	}
	if err := first.SaveDecision(ctx, decisionAt(0, "AAPL", "supervisor")); err != nil {
		t.Fatalf("SaveDecision() error = %v", err)
	}
	first.Close()

	second, err := NewCSVStore(dir)
	if err != nil {
		t.Fatalf("NewCSVStore() reopen error = %v", err)
	}
	records, err := second.Decisions(ctx, "", "", 0)
	if err != nil {
		t.Fatalf("Decisions() error = %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records after reopen, want 1", len(records))
	}
}
