package migrations

import (
	"context"
	"database/sql"

	"chainmigrator/internal/domain"
)

func init() {
	register(domain.Migration{
		ID:       "65db8e7f1268",
		ParentID: "06cd333f221c",
		Name:     "create_user_interests",
		Up:       mig_65db8e7f1268_up,
		Down:     mig_65db8e7f1268_down,
	})
}

func mig_65db8e7f1268_up(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`CREATE TABLE user_interests (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			interest_name TEXT NOT NULL,
			is_predefined BOOLEAN NOT NULL DEFAULT 0,
			added_at TEXT NOT NULL DEFAULT (datetime('now')),
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		// Each user can hold a given interest once.
		`CREATE UNIQUE INDEX idx_user_interests ON user_interests(user_id, interest_name)`,
	)
}

func mig_65db8e7f1268_down(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`DROP INDEX IF EXISTS idx_user_interests`,
		`DROP TABLE IF EXISTS user_interests`,
	)
}
