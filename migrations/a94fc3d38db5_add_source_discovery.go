package migrations

import (
	"context"
	"database/sql"

	"chainmigrator/internal/domain"
)

func init() {
	register(domain.Migration{
		ID:       "a94fc3d38db5",
		ParentID: "530f841606fd",
		Name:     "add_source_discovery",
		Up:       mig_a94fc3d38db5_up,
		Down:     mig_a94fc3d38db5_down,
	})
}

func mig_a94fc3d38db5_up(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`CREATE TABLE tier1_sources (
			id INTEGER PRIMARY KEY,
			source_type TEXT NOT NULL,
			source_key TEXT NOT NULL,
			source_url TEXT,
			description TEXT,
			interests TEXT NOT NULL,
			quality_score REAL NOT NULL,
			discovered_at TEXT NOT NULL,
			discovered_via TEXT NOT NULL,
			last_health_check TEXT,
			is_healthy BOOLEAN DEFAULT 1,
			avg_posts_per_day REAL,
			domain_age_years INTEGER,
			CONSTRAINT uq_tier1_source_type_key UNIQUE (source_type, source_key)
		)`,
		`CREATE INDEX idx_tier1_healthy ON tier1_sources(is_healthy, source_type)`,
		`CREATE INDEX idx_tier1_interests ON tier1_sources(interests)`,

		`CREATE TABLE source_blacklist (
			id INTEGER PRIMARY KEY,
			source_type TEXT NOT NULL,
			source_key TEXT NOT NULL,
			source_url TEXT,
			blacklisted_at TEXT NOT NULL,
			blacklisted_reason TEXT NOT NULL,
			failure_count INTEGER DEFAULT 1,
			last_failure_at TEXT NOT NULL,
			last_attempted_resurrection TEXT,
			CONSTRAINT uq_blacklist_source_type_key UNIQUE (source_type, source_key)
		)`,
		`CREATE INDEX idx_blacklist_type ON source_blacklist(source_type)`,

		`CREATE TABLE discovered_sources (
			id INTEGER PRIMARY KEY,
			source_type TEXT NOT NULL,
			source_key TEXT NOT NULL,
			source_url TEXT,
			discovered_at TEXT NOT NULL,
			discovered_via TEXT NOT NULL,
			discovery_count INTEGER DEFAULT 1,
			quality_score REAL,
			health_check_passed BOOLEAN,
			promoted_to_tier1 BOOLEAN DEFAULT 0,
			interests TEXT NOT NULL,
			source_metadata TEXT,
			CONSTRAINT uq_discovered_source_type_key UNIQUE (source_type, source_key)
		)`,
		`CREATE INDEX idx_discovered_promoted ON discovered_sources(promoted_to_tier1)`,

		`CREATE TABLE source_health (
			id INTEGER PRIMARY KEY,
			source_type TEXT NOT NULL,
			source_key TEXT NOT NULL,
			last_check_at TEXT NOT NULL,
			last_success_at TEXT,
			last_failure_at TEXT,
			consecutive_failures INTEGER DEFAULT 0,
			consecutive_successes INTEGER DEFAULT 0,
			is_healthy BOOLEAN DEFAULT 1,
			failure_reason TEXT,
			response_time_ms INTEGER,
			articles_found INTEGER,
			CONSTRAINT uq_health_source_type_key UNIQUE (source_type, source_key)
		)`,
		`CREATE INDEX idx_health_status ON source_health(is_healthy, consecutive_failures)`,

		`CREATE TABLE source_contributions (
			id INTEGER PRIMARY KEY,
			newsletter_id INTEGER NOT NULL,
			source_type TEXT NOT NULL,
			source_key TEXT NOT NULL,
			articles_collected INTEGER DEFAULT 0,
			articles_included INTEGER DEFAULT 0,
			collected_at TEXT NOT NULL,
			FOREIGN KEY (newsletter_id) REFERENCES newsletters(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX idx_contributions_newsletter ON source_contributions(newsletter_id)`,
		`CREATE INDEX idx_contributions_source ON source_contributions(source_type, source_key)`,
		`CREATE INDEX idx_contributions_date ON source_contributions(collected_at)`,
	)
}

// Dropping a table drops its indexes with it; reverse creation order keeps
// the foreign key from source_contributions valid until it is gone.
func mig_a94fc3d38db5_down(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`DROP TABLE IF EXISTS source_contributions`,
		`DROP TABLE IF EXISTS source_health`,
		`DROP TABLE IF EXISTS discovered_sources`,
		`DROP TABLE IF EXISTS source_blacklist`,
		`DROP TABLE IF EXISTS tier1_sources`,
	)
}
