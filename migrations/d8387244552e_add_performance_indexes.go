package migrations

import (
	"context"
	"database/sql"

	"chainmigrator/internal/domain"
)

func init() {
	register(domain.Migration{
		ID:       "d8387244552e",
		ParentID: "65db8e7f1268",
		Name:     "add_performance_indexes",
		Up:       mig_d8387244552e_up,
		Down:     mig_d8387244552e_down,
	})
}

// Every create is guarded by an existence check: idx_newsletters_status and
// idx_newsletters_user_date already exist from the newsletters unit, and a
// re-run after a partial failure must skip whatever did get created.
func mig_d8387244552e_up(ctx context.Context, tx *sql.Tx) error {
	indexes := []struct{ name, stmt string }{
		{"idx_newsletters_user_id", `CREATE INDEX idx_newsletters_user_id ON newsletters(user_id)`},
		{"idx_newsletters_date", `CREATE INDEX idx_newsletters_date ON newsletters(date)`},
		{"idx_newsletters_status", `CREATE INDEX idx_newsletters_status ON newsletters(status)`},
		{"idx_newsletters_user_date", `CREATE INDEX idx_newsletters_user_date ON newsletters(user_id, date)`},
		{"idx_user_interests_user_id", `CREATE INDEX idx_user_interests_user_id ON user_interests(user_id)`},
	}
	for _, idx := range indexes {
		if err := createIndexIfAbsent(ctx, tx, idx.name, idx.stmt); err != nil {
			return err
		}
	}
	return nil
}

// Down drops only the indexes this unit introduced. idx_newsletters_status
// and idx_newsletters_user_date belong to the newsletters unit and must
// survive so that reverting this unit restores the prior schema exactly.
func mig_d8387244552e_down(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`DROP INDEX IF EXISTS idx_user_interests_user_id`,
		`DROP INDEX IF EXISTS idx_newsletters_date`,
		`DROP INDEX IF EXISTS idx_newsletters_user_id`,
	)
}
