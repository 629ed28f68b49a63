package domain

import (
	"context"
	"database/sql"
	"time"
)

// Ledger is the durable record of applied units. Record methods run inside
// the unit's transaction so the ledger write commits atomically with the
// schema change it describes.
type Ledger interface {
	// EnsureSchema creates the ledger's own storage when missing. It must
	// succeed on a pristine database before any unit runs.
	EnsureSchema(ctx context.Context) error
	IsApplied(ctx context.Context, unitID string) (bool, error)
	// ListApplied returns entries ordered by applied_at.
	ListApplied(ctx context.Context) ([]LedgerEntry, error)
	// RecordApplied fails with *DuplicateEntryError when unitID is already
	// recorded.
	RecordApplied(ctx context.Context, tx *sql.Tx, unitID string, appliedAt time.Time) error
	// RecordReverted fails with *NotAppliedError when unitID has no entry.
	RecordReverted(ctx context.Context, tx *sql.Tx, unitID string) error
}

// Locker provides mutual exclusion around a full upgrade or downgrade run.
type Locker interface {
	// Acquire blocks until the lock is held and returns its release func.
	Acquire(ctx context.Context) (func() error, error)
}
