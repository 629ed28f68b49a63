package app

import (
	"context"
	"database/sql"
	"time"

	log "github.com/sirupsen/logrus"

	"chainmigrator/internal/domain"
)

// MigrationService orchestrates upgrade and downgrade runs. One unit
// applies per transaction; the ledger row commits in the same transaction
// as the schema change, strictly after it.
type MigrationService struct {
	db     *sql.DB
	ledger domain.Ledger
	locker domain.Locker
	logger *log.Logger

	lastAppliedAt time.Time
}

func NewMigrationService(db *sql.DB, ledger domain.Ledger, locker domain.Locker, logger *log.Logger) *MigrationService {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if locker == nil {
		locker = noopLocker{}
	}
	return &MigrationService{db: db, ledger: ledger, locker: locker, logger: logger}
}

type noopLocker struct{}

func (noopLocker) Acquire(ctx context.Context) (func() error, error) {
	return func() error { return nil }, nil
}

// Upgrade applies every unapplied unit through target in chain order.
// target is a unit id or domain.TargetHead. Already-applied units are
// skipped, so reaching a target twice is a no-op. On failure the run stops
// with the failing unit unapplied and earlier units kept.
func (s *MigrationService) Upgrade(ctx context.Context, units []domain.Migration, target string) (domain.Result, error) {
	ordered, err := Resolve(units)
	if err != nil {
		return domain.Result{Version: domain.TargetNone}, err
	}

	release, err := s.locker.Acquire(ctx)
	if err != nil {
		return domain.Result{Version: domain.TargetNone}, err
	}
	defer s.release(release)

	appliedCount, err := s.appliedPrefix(ctx, ordered)
	if err != nil {
		return domain.Result{Version: domain.TargetNone}, err
	}

	targetIdx := len(ordered) - 1
	if target != domain.TargetHead {
		if targetIdx = indexOf(ordered, target); targetIdx < 0 {
			return domain.Result{Version: versionAt(ordered, appliedCount)}, &domain.UnknownTargetError{Target: target}
		}
	}

	result := domain.Result{Version: versionAt(ordered, appliedCount)}
	for i := appliedCount; i <= targetIdx; i++ {
		u := ordered[i]
		s.logger.WithFields(log.Fields{"unit": u.ID, "name": u.Name, "direction": "up"}).Info("applying migration")
		if err := s.applyOne(ctx, u); err != nil {
			return result, err
		}
		result.Applied = append(result.Applied, u.ID)
		result.Version = u.ID
	}
	return result, nil
}

// Downgrade reverts applied units from the head down to target, exclusive,
// in reverse chain order. target is a unit id or domain.TargetNone. On
// failure already-reverted units stay reverted and the failing unit and
// its ancestors stay applied.
func (s *MigrationService) Downgrade(ctx context.Context, units []domain.Migration, target string) (domain.Result, error) {
	ordered, err := Resolve(units)
	if err != nil {
		return domain.Result{Version: domain.TargetNone}, err
	}

	release, err := s.locker.Acquire(ctx)
	if err != nil {
		return domain.Result{Version: domain.TargetNone}, err
	}
	defer s.release(release)

	appliedCount, err := s.appliedPrefix(ctx, ordered)
	if err != nil {
		return domain.Result{Version: domain.TargetNone}, err
	}

	targetIdx := -1
	if target != domain.TargetNone {
		if targetIdx = indexOf(ordered, target); targetIdx < 0 {
			return domain.Result{Version: versionAt(ordered, appliedCount)}, &domain.UnknownTargetError{Target: target}
		}
	}

	result := domain.Result{Version: versionAt(ordered, appliedCount)}
	for i := appliedCount - 1; i > targetIdx; i-- {
		u := ordered[i]
		s.logger.WithFields(log.Fields{"unit": u.ID, "name": u.Name, "direction": "down"}).Info("reverting migration")
		if err := s.revertOne(ctx, u); err != nil {
			return result, err
		}
		result.Applied = append(result.Applied, u.ID)
		result.Version = versionAt(ordered, i)
	}
	return result, nil
}

// Current returns the id of the last applied unit in chain order, or
// domain.TargetNone when the ledger is empty.
func (s *MigrationService) Current(ctx context.Context, units []domain.Migration) (string, error) {
	ordered, err := Resolve(units)
	if err != nil {
		return "", err
	}
	appliedCount, err := s.appliedPrefix(ctx, ordered)
	if err != nil {
		return "", err
	}
	return versionAt(ordered, appliedCount), nil
}

// History lists ledger entries ordered by applied_at.
func (s *MigrationService) History(ctx context.Context) ([]domain.LedgerEntry, error) {
	if err := s.ledger.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return s.ledger.ListApplied(ctx)
}

// nextAppliedAt guarantees strictly increasing timestamps within a run even
// when the platform clock ticks coarser than a migration takes to apply.
func (s *MigrationService) nextAppliedAt() time.Time {
	now := time.Now().UTC()
	if !now.After(s.lastAppliedAt) {
		now = s.lastAppliedAt.Add(time.Nanosecond)
	}
	s.lastAppliedAt = now
	return now
}

func (s *MigrationService) applyOne(ctx context.Context, u domain.Migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.MigrationApplyError{UnitID: u.ID, Cause: err}
	}
	if err := u.Up(ctx, tx); err != nil {
		_ = tx.Rollback()
		return &domain.MigrationApplyError{UnitID: u.ID, Cause: err}
	}
	if err := s.ledger.RecordApplied(ctx, tx, u.ID, s.nextAppliedAt()); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return &domain.MigrationApplyError{UnitID: u.ID, Cause: err}
	}
	return nil
}

func (s *MigrationService) revertOne(ctx context.Context, u domain.Migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.MigrationRevertError{UnitID: u.ID, Cause: err}
	}
	if err := u.Down(ctx, tx); err != nil {
		_ = tx.Rollback()
		return &domain.MigrationRevertError{UnitID: u.ID, Cause: err}
	}
	if err := s.ledger.RecordReverted(ctx, tx, u.ID); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return &domain.MigrationRevertError{UnitID: u.ID, Cause: err}
	}
	return nil
}

// appliedPrefix bootstraps the ledger and checks that its contents are a
// prefix of the chain. Anything else means the table was edited by hand
// or belongs to a different unit set.
func (s *MigrationService) appliedPrefix(ctx context.Context, ordered []domain.Migration) (int, error) {
	if err := s.ledger.EnsureSchema(ctx); err != nil {
		return 0, err
	}
	entries, err := s.ledger.ListApplied(ctx)
	if err != nil {
		return 0, err
	}
	if len(entries) > len(ordered) {
		return 0, &domain.LedgerDriftError{
			UnitID: entries[len(ordered)].UnitID,
			Reason: "more applied entries than units in the chain",
		}
	}
	for i, e := range entries {
		if e.UnitID != ordered[i].ID {
			return 0, &domain.LedgerDriftError{
				UnitID: e.UnitID,
				Reason: "applied entries are not a prefix of the chain",
			}
		}
	}
	return len(entries), nil
}

func (s *MigrationService) release(release func() error) {
	if err := release(); err != nil {
		s.logger.WithError(err).Warn("failed to release migration lock")
	}
}

func indexOf(ordered []domain.Migration, id string) int {
	for i, u := range ordered {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func versionAt(ordered []domain.Migration, appliedCount int) string {
	if appliedCount == 0 {
		return domain.TargetNone
	}
	return ordered[appliedCount-1].ID
}
