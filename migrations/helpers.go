package migrations

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

func execAll(ctx context.Context, tx *sql.Tx, stmts ...string) error {
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "exec %q", stmt)
		}
	}
	return nil
}

func tableExists(ctx context.Context, tx *sql.Tx, name string) (bool, error) {
	return masterEntryExists(ctx, tx, "table", name)
}

func indexExists(ctx context.Context, tx *sql.Tx, name string) (bool, error) {
	return masterEntryExists(ctx, tx, "index", name)
}

func masterEntryExists(ctx context.Context, tx *sql.Tx, kind, name string) (bool, error) {
	var found string
	row := tx.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = $1 AND name = $2`, kind, name)
	switch err := row.Scan(&found); err {
	case nil:
		return true, nil
	case sql.ErrNoRows:
		return false, nil
	default:
		return false, errors.Wrapf(err, "look up %s %s", kind, name)
	}
}

// createIndexIfAbsent skips the CREATE when the index is already present,
// so a unit interrupted between index creations can run again.
func createIndexIfAbsent(ctx context.Context, tx *sql.Tx, name, stmt string) error {
	exists, err := indexExists(ctx, tx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = tx.ExecContext(ctx, stmt)
	return errors.Wrapf(err, "create index %s", name)
}
