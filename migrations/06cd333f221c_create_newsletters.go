package migrations

import (
	"context"
	"database/sql"

	"chainmigrator/internal/domain"
)

func init() {
	register(domain.Migration{
		ID:       "06cd333f221c",
		ParentID: "912ab51a9dcd",
		Name:     "create_newsletters",
		Up:       mig_06cd333f221c_up,
		Down:     mig_06cd333f221c_down,
	})
}

func mig_06cd333f221c_up(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`CREATE TABLE newsletters (
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
		`CREATE INDEX idx_newsletters_user_date ON newsletters(user_id, date DESC)`,
		`CREATE INDEX idx_newsletters_status ON newsletters(status)`,
	)
}

func mig_06cd333f221c_down(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`DROP INDEX IF EXISTS idx_newsletters_status`,
		`DROP INDEX IF EXISTS idx_newsletters_user_date`,
		`DROP TABLE IF EXISTS newsletters`,
	)
}
