package sqlledger

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// lockKey identifies this tool's advisory lock in pg_locks.
const lockKey = 0x6368616e // "chan"

// PostgresLocker serializes runs against one database with a session-level
// advisory lock. The session is pinned to a single connection so the
// unlock reaches the same backend.
type PostgresLocker struct {
	db *sql.DB
}

func NewPostgresLocker(db *sql.DB) *PostgresLocker {
	return &PostgresLocker{db: db}
}

func (l *PostgresLocker) Acquire(ctx context.Context) (func() error, error) {
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "acquire connection for advisory lock")
	}
	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, lockKey); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "acquire advisory lock")
	}
	release := func() error {
		// Background context so a cancelled run still unlocks.
		_, err := conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockKey)
		closeErr := conn.Close()
		if err != nil {
			return errors.Wrap(err, "release advisory lock")
		}
		return closeErr
	}
	return release, nil
}

// SQLiteLocker is a no-op: the SQLite file lock already serializes
// writers, so a second runner blocks at its first write transaction.
type SQLiteLocker struct{}

func (SQLiteLocker) Acquire(ctx context.Context) (func() error, error) {
	return func() error { return nil }, nil
}
