package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/models"
)

// PostgresStore keeps the decision log and audit trail in Postgres
type PostgresStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewPostgresStore connects, pings, and creates the tables if they don't
// exist.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Check connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &PostgresStore{
		db:     db,
		logger: log.With().Str("component", "postgres_store").Logger(),
	}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS trading_decisions (
			id TEXT PRIMARY KEY,
			symbol TEXT NOT NULL,
			decision TEXT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			agent_name TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS audit_trail (
			id TEXT PRIMARY KEY,
			symbol TEXT NOT NULL,
			timestamp TIMESTAMP NOT NULL,
			decision_type TEXT NOT NULL,
			action TEXT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			rationale TEXT,
			compliance_status TEXT,
			risk_level TEXT,
			position_size TEXT,
			blocked_trades TEXT
		)
	`)
	return err
}

// SaveDecision inserts one decision row
func (s *PostgresStore) SaveDecision(ctx context.Context, record models.DecisionRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trading_decisions (id, symbol, decision, confidence, agent_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, record.ID, record.Symbol, record.Decision, record.Confidence, record.AgentName, record.CreatedAt)

	if err != nil {
		return &models.StorageError{Op: "save_decision", Err: err}
	}
	return nil
}

// SaveAuditEntry inserts one audit row
func (s *PostgresStore) SaveAuditEntry(ctx context.Context, entry models.AuditEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_trail (
			id, symbol, timestamp, decision_type, action, confidence,
			rationale, compliance_status, risk_level, position_size, blocked_trades
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		entry.ID, entry.Symbol, entry.Timestamp, entry.DecisionType, entry.Action, entry.Confidence,
		entry.Rationale, nullable(entry.ComplianceStatus), nullable(entry.RiskLevel),
		nullable(entry.PositionSize), nullable(entry.BlockedTrades))

	if err != nil {
		return &models.StorageError{Op: "save_audit_entry", Err: err}
	}
	return nil
}

// Decisions returns the decision log newest first
func (s *PostgresStore) Decisions(ctx context.Context, symbol, role string, limit int) ([]models.DecisionRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, symbol, decision, confidence, agent_name, created_at
		FROM trading_decisions
		WHERE ($1 = '' OR UPPER(symbol) = UPPER($1))
		  AND ($2 = '' OR agent_name = $2)
		ORDER BY created_at DESC
		LIMIT $3
	`, symbol, role, limit)
	if err != nil {
		return nil, &models.StorageError{Op: "read_decisions", Err: err}
	}
	defer rows.Close()

	var out []models.DecisionRecord
	for rows.Next() {
		var r models.DecisionRecord
		if err := rows.Scan(&r.ID, &r.Symbol, &r.Decision, &r.Confidence, &r.AgentName, &r.CreatedAt); err != nil {
			return nil, &models.StorageError{Op: "scan_decision", Err: err}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AuditTrail returns the audit log newest first
func (s *PostgresStore) AuditTrail(ctx context.Context, symbol string, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, symbol, timestamp, decision_type, action, confidence,
		       rationale, compliance_status, risk_level, position_size, blocked_trades
		FROM audit_trail
		WHERE ($1 = '' OR UPPER(symbol) = UPPER($1))
		ORDER BY timestamp DESC
		LIMIT $2
	`, symbol, limit)
	if err != nil {
		return nil, &models.StorageError{Op: "read_audit", Err: err}
	}
	defer rows.Close()

	var out []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		var rationale, compliance, risk, position, blocked sql.NullString
		if err := rows.Scan(&e.ID, &e.Symbol, &e.Timestamp, &e.DecisionType, &e.Action, &e.Confidence,
			&rationale, &compliance, &risk, &position, &blocked); err != nil {
			return nil, &models.StorageError{Op: "scan_audit", Err: err}
		}
		e.Rationale = rationale.String
		e.ComplianceStatus = compliance.String
		e.RiskLevel = risk.String
		e.PositionSize = position.String
		e.BlockedTrades = blocked.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// AuditSummary aggregates the audit trail
func (s *PostgresStore) AuditSummary(ctx context.Context) (*models.AuditSummary, error) {
	summary := &models.AuditSummary{}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE decision_type = 'SUPERVISOR'),
		       COUNT(*) FILTER (WHERE decision_type = 'REGULATORY'),
		       COUNT(*) FILTER (WHERE blocked_trades IS NOT NULL AND blocked_trades NOT IN ('', '0'))
		FROM audit_trail
	`).Scan(&summary.TotalEntries, &summary.SupervisorDecisions, &summary.RegulatoryDecisions, &summary.BlockedTrades)

	if err != nil {
		return nil, &models.StorageError{Op: "audit_summary", Err: err}
	}
	return summary, nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func nullable(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
