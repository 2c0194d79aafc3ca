// Package storage persists the append-only decision log and audit trail.
// The CSV store is the default; Postgres is used when DATABASE_URL is set.
package storage

import (
	"context"

	"github.com/Bhardwaj-Saurabh/Agentic-Alpha-Trading-System/models"
)

// Store is the persistent decision and audit log. Appends are write-once;
// queries return newest-first.
type Store interface {
	SaveDecision(ctx context.Context, record models.DecisionRecord) error
	SaveAuditEntry(ctx context.Context, entry models.AuditEntry) error

	// Decisions filters by symbol and/or agent role; empty strings match all
	Decisions(ctx context.Context, symbol, role string, limit int) ([]models.DecisionRecord, error)

	// AuditTrail filters by symbol; empty string matches all
	AuditTrail(ctx context.Context, symbol string, limit int) ([]models.AuditEntry, error)

	AuditSummary(ctx context.Context) (*models.AuditSummary, error)

	Close() error
}
