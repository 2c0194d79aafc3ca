package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/models"
)

const (
	decisionsFile = "trading_decisions.csv"
	auditFile     = "audit_trail.csv"
)

var decisionsHeader = []string{"id", "symbol", "decision", "confidence", "agent_name", "created_at"}

var auditHeader = []string{
	"id", "symbol", "timestamp", "decision_type", "action", "confidence",
	"rationale", "compliance_status", "risk_level", "position_size", "blocked_trades",
}

// CSVStore keeps the decision log and audit trail in two CSV files under a
// data directory.
type CSVStore struct {
	dir    string
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewCSVStore creates the data directory and both files with headers if they
// do not exist yet.
func NewCSVStore(dir string) (*CSVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	s := &CSVStore{
		dir:    dir,
		logger: log.With().Str("component", "csv_store").Logger(),
	}

	if err := s.ensureFile(decisionsFile, decisionsHeader); err != nil {
		return nil, err
	}
	if err := s.ensureFile(auditFile, auditHeader); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CSVStore) ensureFile(name string, header []string) error {
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header to %s: %w", name, err)
	}
	w.Flush()
	return w.Error()
}

func (s *CSVStore) appendRow(name string, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (s *CSVStore) readRows(name string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

// SaveDecision appends one decision row
func (s *CSVStore) SaveDecision(_ context.Context, record models.DecisionRecord) error {
	row := []string{
		record.ID,
		record.Symbol,
		record.Decision,
		strconv.FormatFloat(record.Confidence, 'f', 4, 64),
		record.AgentName,
		record.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := s.appendRow(decisionsFile, row); err != nil {
		return &models.StorageError{Op: "save_decision", Err: err}
	}
	return nil
}

// SaveAuditEntry appends one audit row
func (s *CSVStore) SaveAuditEntry(_ context.Context, entry models.AuditEntry) error {
	row := []string{
		entry.ID,
		entry.Symbol,
		entry.Timestamp.UTC().Format(time.RFC3339),
		entry.DecisionType,
		entry.Action,
		strconv.FormatFloat(entry.Confidence, 'f', 4, 64),
		entry.Rationale,
		entry.ComplianceStatus,
		entry.RiskLevel,
		entry.PositionSize,
		entry.BlockedTrades,
	}
	if err := s.appendRow(auditFile, row); err != nil {
		return &models.StorageError{Op: "save_audit_entry", Err: err}
	}
	return nil
}

// Decisions returns the decision log newest first, filtered by symbol and
// role when provided.
func (s *CSVStore) Decisions(_ context.Context, symbol, role string, limit int) ([]models.DecisionRecord, error) {
	rows, err := s.readRows(decisionsFile)
	if err != nil {
		return nil, &models.StorageError{Op: "read_decisions", Err: err}
	}

	var out []models.DecisionRecord
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}
		if symbol != "" && !strings.EqualFold(row[1], symbol) {
			continue
		}
		if role != "" && row[4] != role {
			continue
		}

		confidence, _ := strconv.ParseFloat(row[3], 64)
		createdAt, _ := time.Parse(time.RFC3339, row[5])
		out = append(out, models.DecisionRecord{
			ID:         row[0],
			Symbol:     row[1],
			Decision:   row[2],
			Confidence: confidence,
			AgentName:  row[4],
			CreatedAt:  createdAt,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// AuditTrail returns the audit log newest first, filtered by symbol when
// provided.
func (s *CSVStore) AuditTrail(_ context.Context, symbol string, limit int) ([]models.AuditEntry, error) {
	rows, err := s.readRows(auditFile)
	if err != nil {
		return nil, &models.StorageError{Op: "read_audit", Err: err}
	}

	var out []models.AuditEntry
	for _, row := range rows {
		if len(row) < 11 {
			continue
		}
		if symbol != "" && !strings.EqualFold(row[1], symbol) {
			continue
		}

		timestamp, _ := time.Parse(time.RFC3339, row[2])
		confidence, _ := strconv.ParseFloat(row[5], 64)
		out = append(out, models.AuditEntry{
			ID:               row[0],
			Symbol:           row[1],
			Timestamp:        timestamp,
			DecisionType:     row[3],
			Action:           row[4],
			Confidence:       confidence,
			Rationale:        row[6],
			ComplianceStatus: row[7],
			RiskLevel:        row[8],
			PositionSize:     row[9],
			BlockedTrades:    row[10],
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// AuditSummary aggregates the audit trail
func (s *CSVStore) AuditSummary(ctx context.Context) (*models.AuditSummary, error) {
	entries, err := s.AuditTrail(ctx, "", 0)
	if err != nil {
		return nil, err
	}

	summary := &models.AuditSummary{TotalEntries: len(entries)}
	for _, e := range entries {
		switch e.DecisionType {
		case "SUPERVISOR":
			summary.SupervisorDecisions++
		case "REGULATORY":
			summary.RegulatoryDecisions++
		}
		if e.BlockedTrades != "" && e.BlockedTrades != "0" {
			summary.BlockedTrades++
		}
	}
	return summary, nil
}

// Close is a no-op for the CSV store
func (s *CSVStore) Close() error {
	return nil
}
