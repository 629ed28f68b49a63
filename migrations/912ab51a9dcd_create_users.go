package migrations

import (
	"context"
	"database/sql"

	"chainmigrator/internal/domain"
)

func init() {
	register(domain.Migration{
		ID:   "912ab51a9dcd",
		Name: "create_users",
		Up:   mig_912ab51a9dcd_up,
		Down: mig_912ab51a9dcd_down,
	})
}

func mig_912ab51a9dcd_up(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, `
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name TEXT NOT NULL,
			avatar_path TEXT,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`)
}

func mig_912ab51a9dcd_down(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx, `DROP TABLE IF EXISTS users`)
}
