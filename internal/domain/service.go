package domain

import "context"

// MigrationService is the engine surface consumed by the CLI.
type MigrationService interface {
	Upgrade(ctx context.Context, units []Migration, target string) (Result, error)
	Downgrade(ctx context.Context, units []Migration, target string) (Result, error)
	Current(ctx context.Context, units []Migration) (string, error)
	History(ctx context.Context) ([]LedgerEntry, error)
}
