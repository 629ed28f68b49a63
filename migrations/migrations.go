// Package migrations holds the newsletter application's schema-change
// units. Each unit lives in its own file named <id>_<name>.go, registers
// itself in init, and links to its predecessor by id.
//
// The DDL targets SQLite. Statements that may be re-invoked after a prior
// partial failure carry their own existence checks (see helpers.go) rather
// than relying on error-on-duplicate behavior.
package migrations

import "chainmigrator/internal/domain"

var units []domain.Migration

func register(m domain.Migration) {
	units = append(units, m)
}

// Units returns a copy of the registered unit set, in no particular order.
// Chain order is the resolver's job.
func Units() []domain.Migration {
	return append([]domain.Migration(nil), units...)
}
