package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/agents"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/data"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/internal/storage"
	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/models"
)

// staticSource serves the same candle window for every symbol
type staticSource struct{}

func (staticSource) FetchCandles(_ context.Context, _ string, _, _ string) ([]models.Candle, error) {
	candles := make([]models.Candle, 30)
	for i := range candles {
		price := 100 + float64(i)*0.5
		candles[i] = models.Candle{
			Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open:      price,
			High:      price + 1,
			Low:       price - 1,
			Close:     price,
			Volume:    1000,
		}
	}
	return candles, nil
}

func testPipeline(t *testing.T, model agents.ChatModel) (*Pipeline, storage.Store) {
	t.Helper()

	store, err := storage.NewCSVStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewCSVStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	pipe := New(Options{
		Provider: data.NewProvider(staticSource{}, time.Minute),
		Agents:   agents.NewSystem(model, nil),
		Store:    store,
		Period:   "1mo",
		Interval: "1d",
	})
	return pipe, store
}

func TestRunStepPrerequisiteGate(t *testing.T) {
	pipe, _ := testPipeline(t, agents.NewDemoModel())

	result, err := pipe.RunStep(context.Background(), "AAPL", agents.RoleStrategy)
	if err != nil {
		t.Fatalf("RunStep() error = %v", err)
	}
	if result.Status != StatusFailed {
		t.Fatalf("Status = %v, want FAILED", result.Status)
	}

	var prereq *models.PrerequisiteNotMetError
	if !errors.As(result.Err, &prereq) {
		t.Fatalf("Err = %v, want PrerequisiteNotMetError", result.Err)
	}
	if len(prereq.Missing) != 1 || prereq.Missing[0] != "Market Analyst" {
		t.Errorf("Missing = %v, want [Market Analyst]", prereq.Missing)
	}

	// The sibling state is untouched
	state := pipe.StateFor("AAPL")
	if state.Status[agents.RoleMarketAnalyst] != StatusNotRun {
		t.Errorf("market analyst status = %v, want NOT_RUN", state.Status[agents.RoleMarketAnalyst])
	}
}

func TestRunStepSupervisorNeedsEveryAgent(t *testing.T) {
	pipe, _ := testPipeline(t, agents.NewDemoModel())
	ctx := context.Background()

	for _, role := range []agents.Role{agents.RoleMarketAnalyst, agents.RoleStrategy} {
		result, err := pipe.RunStep(ctx, "AAPL", role)
		if err != nil || result.Status != StatusCompleted {
			t.Fatalf("RunStep(%s) = %v, %v", role, result.Status, err)
		}
	}

	result, err := pipe.RunStep(ctx, "AAPL", agents.RoleSupervisor)
	if err != nil {
		t.Fatalf("RunStep() error = %v", err)
	}

	var prereq *models.PrerequisiteNotMetError
	if !errors.As(result.Err, &prereq) {
		t.Fatalf("Err = %v, want PrerequisiteNotMetError", result.Err)
	}
	want := map[string]bool{"Risk Manager": true, "Regulatory Agent": true}
	if len(prereq.Missing) != len(want) {
		t.Fatalf("Missing = %v, want the two unrun upstream agents", prereq.Missing)
	}
	for _, name := range prereq.Missing {
		if !want[name] {
			t.Errorf("unexpected missing agent %q", name)
		}
	}
}

func TestRunAllCompletesInOrder(t *testing.T) {
	pipe, _ := testPipeline(t, agents.NewDemoModel())

	results, err := pipe.RunAll(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}
	if len(results) != len(agents.PipelineOrder) {
		t.Fatalf("got %d steps, want %d", len(results), len(agents.PipelineOrder))
	}

	for i, result := range results {
		if result.Role != agents.PipelineOrder[i] {
			t.Errorf("step %d role = %v, want %v", i, result.Role, agents.PipelineOrder[i])
		}
		if result.Status != StatusCompleted {
			t.Errorf("step %v status = %v, want COMPLETED", result.Role, result.Status)
		}
	}

	final := results[len(results)-1]
	if final.Output.Decision == "" {
		t.Error("supervisor produced no final decision")
	}
}

// failingModel errors on one role and delegates the rest
type failingModel struct {
	failRole agents.Role
	inner    agents.ChatModel
}

func (m failingModel) Complete(ctx context.Context, role agents.Role, system, user string) (string, error) {
	if role == m.failRole {
		return "", errors.New("model unavailable")
	}
	return m.inner.Complete(ctx, role, system, user)
}

func TestRunAllStopsAtFirstFailure(t *testing.T) {
	pipe, _ := testPipeline(t, failingModel{
		failRole: agents.RoleRiskManager,
		inner:    agents.NewDemoModel(),
	})

	results, err := pipe.RunAll(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}

	last := results[len(results)-1]
	if last.Role != agents.RoleRiskManager || last.Status != StatusFailed {
		t.Fatalf("last step = %v/%v, want risk_manager/FAILED", last.Role, last.Status)
	}

	var invocation *models.ModelInvocationError
	if !errors.As(last.Err, &invocation) {
		t.Errorf("Err = %v, want ModelInvocationError", last.Err)
	}

	state := pipe.StateFor("AAPL")
	if state.Status[agents.RoleRegulatory] != StatusNotRun {
		t.Errorf("regulatory agent ran after an upstream failure")
	}
}

func TestRerunOverwritesStateButKeepsLog(t *testing.T) {
	pipe, store := testPipeline(t, agents.NewDemoModel())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		result, err := pipe.RunStep(ctx, "AAPL", agents.RoleMarketAnalyst)
		if err != nil || result.Status != StatusCompleted {
			t.Fatalf("RunStep() = %v, %v", result.Status, err)
		}
	}

	// One slot in the session state
	state := pipe.StateFor("AAPL")
	if state.Status[agents.RoleMarketAnalyst] != StatusCompleted {
		t.Errorf("status = %v, want COMPLETED", state.Status[agents.RoleMarketAnalyst])
	}

	// Both runs in the append-only log
	records, err := store.Decisions(ctx, "AAPL", string(agents.RoleMarketAnalyst), 10)
	if err != nil {
		t.Fatalf("Decisions() error = %v", err)
	}
	if len(records) != 2 {
		t.Errorf("decision log has %d rows, want 2", len(records))
	}
}

func TestResetClearsState(t *testing.T) {
	pipe, _ := testPipeline(t, agents.NewDemoModel())
	ctx := context.Background()

	if _, err := pipe.RunStep(ctx, "AAPL", agents.RoleMarketAnalyst); err != nil {
		t.Fatalf("RunStep() error = %v", err)
	}
	pipe.Reset("AAPL")

	state := pipe.StateFor("AAPL")
	if state.Status[agents.RoleMarketAnalyst] != StatusNotRun {
		t.Errorf("status after reset = %v, want NOT_RUN", state.Status[agents.RoleMarketAnalyst])
	}
}

func TestStateIsPerSymbol(t *testing.T) {
	pipe, _ := testPipeline(t, agents.NewDemoModel())
	ctx := context.Background()

	if _, err := pipe.RunStep(ctx, "AAPL", agents.RoleMarketAnalyst); err != nil {
		t.Fatalf("RunStep() error = %v", err)
	}

	other := pipe.StateFor("TSLA")
	if other.Status[agents.RoleMarketAnalyst] != StatusNotRun {
		t.Errorf("TSLA inherited AAPL's pipeline state")
	}
}

func TestExecuteTradeGatedOnSupervisor(t *testing.T) {
	pipe, _ := testPipeline(t, agents.NewDemoModel())
	ctx := context.Background()

	if _, err := pipe.ExecuteTrade(ctx, "AAPL"); err == nil {
		t.Fatal("ExecuteTrade() before the pipeline ran returned no error")
	} else {
		var prereq *models.PrerequisiteNotMetError
		if !errors.As(err, &prereq) {
			t.Fatalf("error = %v, want PrerequisiteNotMetError", err)
		}
	}

	if _, err := pipe.RunAll(ctx, "AAPL"); err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}

	trade, err := pipe.ExecuteTrade(ctx, "AAPL")
	if err != nil {
		t.Fatalf("ExecuteTrade() error = %v", err)
	}
	if trade.Symbol != "AAPL" || trade.Decision == "" {
		t.Errorf("trade = %+v, want a decision for AAPL", trade)
	}
}

func TestExecuteTradeAudited(t *testing.T) {
	pipe, store := testPipeline(t, agents.NewDemoModel())
	ctx := context.Background()

	if _, err := pipe.RunAll(ctx, "AAPL"); err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}
	if _, err := pipe.ExecuteTrade(ctx, "AAPL"); err != nil {
		t.Fatalf("ExecuteTrade() error = %v", err)
	}

	entries, err := store.AuditTrail(ctx, "AAPL", 50)
	if err != nil {
		t.Fatalf("AuditTrail() error = %v", err)
	}

	kinds := make(map[string]bool)
	for _, entry := range entries {
		kinds[entry.DecisionType] = true
	}
	for _, want := range []string{"REGULATORY", "SUPERVISOR", "TRADE_EXECUTION"} {
		if !kinds[want] {
			t.Errorf("audit trail missing a %s entry: have %v", want, kinds)
		}
	}
}
