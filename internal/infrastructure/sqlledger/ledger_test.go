package sqlledger_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"chainmigrator/internal/domain"
	"chainmigrator/internal/infrastructure/sqlledger"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func record(t *testing.T, db *sql.DB, ledger *sqlledger.Ledger, unitID string, at time.Time) {
	t.Helper()
	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, ledger.RecordApplied(context.Background(), tx, unitID, at))
	require.NoError(t, tx.Commit())
}

func TestEnsureSchemaOnPristineDatabase(t *testing.T) {
	db := openTestDB(t)
	ledger := sqlledger.NewLedger(db)
	ctx := context.Background()

	require.NoError(t, ledger.EnsureSchema(ctx))
	// Re-running is harmless.
	require.NoError(t, ledger.EnsureSchema(ctx))

	entries, err := ledger.ListApplied(ctx)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRecordAppliedAndIsApplied(t *testing.T) {
	db := openTestDB(t)
	ledger := sqlledger.NewLedger(db)
	ctx := context.Background()
	require.NoError(t, ledger.EnsureSchema(ctx))

	applied, err := ledger.IsApplied(ctx, "912ab51a9dcd")
	require.NoError(t, err)
	require.False(t, applied)

	record(t, db, ledger, "912ab51a9dcd", time.Now().UTC())

	applied, err = ledger.IsApplied(ctx, "912ab51a9dcd")
	require.NoError(t, err)
	require.True(t, applied)
}

func TestRecordAppliedDuplicate(t *testing.T) {
	db := openTestDB(t)
	ledger := sqlledger.NewLedger(db)
	ctx := context.Background()
	require.NoError(t, ledger.EnsureSchema(ctx))

	record(t, db, ledger, "912ab51a9dcd", time.Now().UTC())

	tx, err := db.Begin()
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	var dup *domain.DuplicateEntryError
	err = ledger.RecordApplied(ctx, tx, "912ab51a9dcd", time.Now().UTC())
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "912ab51a9dcd", dup.UnitID)
}

func TestRecordRevertedMissingEntry(t *testing.T) {
	db := openTestDB(t)
	ledger := sqlledger.NewLedger(db)
	ctx := context.Background()
	require.NoError(t, ledger.EnsureSchema(ctx))

	tx, err := db.Begin()
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	var notApplied *domain.NotAppliedError
	err = ledger.RecordReverted(ctx, tx, "912ab51a9dcd")
	require.ErrorAs(t, err, &notApplied)
	require.Equal(t, "912ab51a9dcd", notApplied.UnitID)
}

func TestRecordRevertedRemovesEntry(t *testing.T) {
	db := openTestDB(t)
	ledger := sqlledger.NewLedger(db)
	ctx := context.Background()
	require.NoError(t, ledger.EnsureSchema(ctx))

	record(t, db, ledger, "912ab51a9dcd", time.Now().UTC())

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, ledger.RecordReverted(ctx, tx, "912ab51a9dcd"))
	require.NoError(t, tx.Commit())

	applied, err := ledger.IsApplied(ctx, "912ab51a9dcd")
	require.NoError(t, err)
	require.False(t, applied)
}

func TestListAppliedOrdersByAppliedAt(t *testing.T) {
	db := openTestDB(t)
	ledger := sqlledger.NewLedger(db)
	ctx := context.Background()
	require.NoError(t, ledger.EnsureSchema(ctx))

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	record(t, db, ledger, "c-last", base.Add(2*time.Hour))
	record(t, db, ledger, "a-first", base)
	record(t, db, ledger, "b-middle", base.Add(time.Hour))

	entries, err := ledger.ListApplied(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "a-first", entries[0].UnitID)
	require.Equal(t, "b-middle", entries[1].UnitID)
	require.Equal(t, "c-last", entries[2].UnitID)
	require.True(t, entries[0].AppliedAt.Equal(base))
}

func TestListAppliedOrdersFractionalSeconds(t *testing.T) {
	db := openTestDB(t)
	ledger := sqlledger.NewLedger(db)
	ctx := context.Background()
	require.NoError(t, ledger.EnsureSchema(ctx))

	// Same second, and the earlier fraction (.12) is a prefix of the later
	// one (.125). A trimmed-zero text format would sort these backwards.
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	record(t, db, ledger, "b-later", base.Add(125*time.Millisecond))
	record(t, db, ledger, "a-earlier", base.Add(120*time.Millisecond))

	entries, err := ledger.ListApplied(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "a-earlier", entries[0].UnitID)
	require.Equal(t, "b-later", entries[1].UnitID)
}
