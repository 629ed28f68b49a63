package domain

import (
	"context"
	"database/sql"
	"time"
)

// Target sentinels accepted by Upgrade and Downgrade in place of a unit id.
const (
	TargetHead = "head"
	TargetNone = "none"
)

// Operation executes one direction of a migration inside tx.
type Operation func(ctx context.Context, tx *sql.Tx) error

// Migration is one immutable schema-change unit. Units link to their
// predecessor through ParentID; the root unit has an empty ParentID.
type Migration struct {
	ID       string
	ParentID string
	Name     string
	Up       Operation
	Down     Operation
}

// IsRoot reports whether the unit starts the chain.
func (m Migration) IsRoot() bool {
	return m.ParentID == ""
}

// LedgerEntry records that a unit's Up has been executed and not yet
// reverted.
type LedgerEntry struct {
	UnitID    string
	AppliedAt time.Time
}

// Result describes the outcome of an upgrade or downgrade run. Applied
// lists the units the run executed, in execution order: applied units on
// upgrade, reverted units on downgrade. Version is the schema version
// after the run, which on partial failure differs from the requested
// target.
type Result struct {
	Applied []string
	Version string
}
