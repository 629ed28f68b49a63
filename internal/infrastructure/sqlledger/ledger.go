package sqlledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"chainmigrator/internal/domain"
)

const createLedgerTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	unit_id TEXT PRIMARY KEY,
	applied_at TEXT NOT NULL
);`

// appliedAtFormat keeps the fraction fixed-width, unlike RFC3339Nano which
// trims trailing zeros, so the text column sorts chronologically
// ("...00.120000000Z" < "...00.125000000Z", but "...00.12Z" > "...00.125Z").
const appliedAtFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Ledger stores applied-unit records in a schema_migrations table. The SQL
// is portable across the sqlite and postgres drivers; timestamps are kept
// as RFC 3339 text in UTC.
type Ledger struct {
	db *sql.DB
}

func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// EnsureSchema creates the ledger table when missing. Safe to call on a
// pristine database and on every run.
func (l *Ledger) EnsureSchema(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, createLedgerTable); err != nil {
		return errors.Wrap(err, "create schema_migrations table")
	}
	return nil
}

func (l *Ledger) IsApplied(ctx context.Context, unitID string) (bool, error) {
	var found int
	row := l.db.QueryRowContext(ctx, `SELECT 1 FROM schema_migrations WHERE unit_id = $1`, unitID)
	switch err := row.Scan(&found); err {
	case nil:
		return true, nil
	case sql.ErrNoRows:
		return false, nil
	default:
		return false, errors.Wrap(err, "query schema_migrations")
	}
}

func (l *Ledger) ListApplied(ctx context.Context) ([]domain.LedgerEntry, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT unit_id, applied_at FROM schema_migrations ORDER BY applied_at, unit_id`)
	if err != nil {
		return nil, errors.Wrap(err, "query schema_migrations")
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var unitID, appliedAt string
		if err := rows.Scan(&unitID, &appliedAt); err != nil {
			return nil, errors.Wrap(err, "scan schema_migrations row")
		}
		t, err := time.Parse(time.RFC3339Nano, appliedAt)
		if err != nil {
			return nil, errors.Wrapf(err, "parse applied_at for unit %s", unitID)
		}
		entries = append(entries, domain.LedgerEntry{UnitID: unitID, AppliedAt: t})
	}
	return entries, rows.Err()
}

// RecordApplied inserts an entry inside the unit's transaction. The table's
// primary key backs the duplicate guard; the pre-check keeps the error
// typed instead of driver-specific.
func (l *Ledger) RecordApplied(ctx context.Context, tx *sql.Tx, unitID string, appliedAt time.Time) error {
	var found int
	row := tx.QueryRowContext(ctx, `SELECT 1 FROM schema_migrations WHERE unit_id = $1`, unitID)
	if err := row.Scan(&found); err == nil {
		return &domain.DuplicateEntryError{UnitID: unitID}
	} else if err != sql.ErrNoRows {
		return errors.Wrap(err, "query schema_migrations")
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (unit_id, applied_at) VALUES ($1, $2)`,
		unitID, appliedAt.UTC().Format(appliedAtFormat))
	return errors.Wrapf(err, "record unit %s as applied", unitID)
}

func (l *Ledger) RecordReverted(ctx context.Context, tx *sql.Tx, unitID string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE unit_id = $1`, unitID)
	if err != nil {
		return errors.Wrapf(err, "record unit %s as reverted", unitID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return &domain.NotAppliedError{UnitID: unitID}
	}
	return nil
}
