package migrations

import (
	"context"
	"database/sql"

	"chainmigrator/internal/domain"
)

func init() {
	register(domain.Migration{
		ID:       "530f841606fd",
		ParentID: "d8387244552e",
		Name:     "make_file_path_nullable",
		Up:       mig_530f841606fd_up,
		Down:     mig_530f841606fd_down,
	})
}

// SQLite cannot ALTER COLUMN, so the table is rebuilt: create a shadow
// table with the new constraint, copy rows, swap, recreate the indexes.
func mig_530f841606fd_up(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		// A leftover shadow table from an interrupted run is stale.
		`DROP TABLE IF EXISTS newsletters_new`,
		`CREATE TABLE newsletters_new (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			guid TEXT NOT NULL UNIQUE,
			file_path TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			generated_at TEXT,
			retry_count INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			CHECK (status IN ('pending', 'generating', 'completed', 'failed'))
		)`,
		`INSERT INTO newsletters_new (id, user_id, date, guid, file_path, status, generated_at, retry_count)
			SELECT id, user_id, date, guid, file_path, status, generated_at, retry_count
			FROM newsletters`,
		`DROP TABLE newsletters`,
		`ALTER TABLE newsletters_new RENAME TO newsletters`,
		`CREATE INDEX idx_newsletters_user_date ON newsletters(user_id, date DESC)`,
		`CREATE INDEX idx_newsletters_status ON newsletters(status)`,
		`CREATE INDEX idx_newsletters_user_id ON newsletters(user_id)`,
		`CREATE INDEX idx_newsletters_date ON newsletters(date)`,
	)
}

// Restores NOT NULL. Rows without a file_path (newsletters not yet
// completed) cannot satisfy the old constraint and are dropped.
func mig_530f841606fd_down(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`DROP TABLE IF EXISTS newsletters_old`,
		`CREATE TABLE newsletters_old (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			guid TEXT NOT NULL UNIQUE,
			file_path TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			generated_at TEXT,
			retry_count INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			CHECK (status IN ('pending', 'generating', 'completed', 'failed'))
		)`,
		`INSERT INTO newsletters_old (id, user_id, date, guid, file_path, status, generated_at, retry_count)
			SELECT id, user_id, date, guid, file_path, status, generated_at, retry_count
			FROM newsletters
			WHERE file_path IS NOT NULL`,
		`DROP TABLE newsletters`,
		`ALTER TABLE newsletters_old RENAME TO newsletters`,
		`CREATE INDEX idx_newsletters_user_date ON newsletters(user_id, date DESC)`,
		`CREATE INDEX idx_newsletters_status ON newsletters(status)`,
		`CREATE INDEX idx_newsletters_user_id ON newsletters(user_id)`,
		`CREATE INDEX idx_newsletters_date ON newsletters(date)`,
	)
}
