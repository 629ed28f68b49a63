package domain

import (
	"errors"
	"fmt"
)

// Resolver errors. All of these fail a run before any database side effect.
var (
	ErrNoRoot        = errors.New("no root unit: every unit declares a parent")
	ErrMultipleRoots = errors.New("multiple root units in set")
)

// BrokenChainError reports a unit whose parent is absent from the set.
type BrokenChainError struct {
	UnitID   string
	ParentID string
}

func (e *BrokenChainError) Error() string {
	return fmt.Sprintf("broken chain: unit %s references missing parent %s", e.UnitID, e.ParentID)
}

// ForkError reports two units claiming the same parent.
type ForkError struct {
	ParentID string
	UnitIDs  [2]string
}

func (e *ForkError) Error() string {
	return fmt.Sprintf("fork: units %s and %s share parent %s", e.UnitIDs[0], e.UnitIDs[1], e.ParentID)
}

// CycleError reports that parent links do not terminate at the root.
type CycleError struct {
	UnitID string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle: unit %s is unreachable from the root", e.UnitID)
}

// UnknownTargetError reports a requested target id absent from the chain.
type UnknownTargetError struct {
	Target string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("unknown target %q", e.Target)
}

// MigrationApplyError wraps the failure of a unit's Up. Units before it in
// the batch remain applied.
type MigrationApplyError struct {
	UnitID string
	Cause  error
}

func (e *MigrationApplyError) Error() string {
	return fmt.Sprintf("apply %s: %v", e.UnitID, e.Cause)
}

func (e *MigrationApplyError) Unwrap() error { return e.Cause }

// MigrationRevertError wraps the failure of a unit's Down. The failing unit
// and its ancestors remain applied.
type MigrationRevertError struct {
	UnitID string
	Cause  error
}

func (e *MigrationRevertError) Error() string {
	return fmt.Sprintf("revert %s: %v", e.UnitID, e.Cause)
}

func (e *MigrationRevertError) Unwrap() error { return e.Cause }

// Ledger consistency violations. These indicate a bug or manual tampering
// with the ledger table and are never retried.

// DuplicateEntryError reports a RecordApplied for an id already present.
type DuplicateEntryError struct {
	UnitID string
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("ledger already records unit %s as applied", e.UnitID)
}

// NotAppliedError reports a RecordReverted for an id with no entry.
type NotAppliedError struct {
	UnitID string
}

func (e *NotAppliedError) Error() string {
	return fmt.Sprintf("ledger has no applied entry for unit %s", e.UnitID)
}

// LedgerDriftError reports ledger contents that are not a prefix of the
// resolved chain.
type LedgerDriftError struct {
	UnitID string
	Reason string
}

func (e *LedgerDriftError) Error() string {
	return fmt.Sprintf("ledger drift at unit %s: %s", e.UnitID, e.Reason)
}
