package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// schema is applied by Migrate. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGSERIAL PRIMARY KEY,
		user_id    TEXT NOT NULL UNIQUE,
		username   TEXT NOT NULL DEFAULT '',
		followers  INTEGER NOT NULL DEFAULT 0,
		is_bot     BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id              BIGSERIAL PRIMARY KEY,
		platform        TEXT NOT NULL,
		user_id         TEXT NOT NULL DEFAULT '',
		user_record_id  BIGINT REFERENCES users(id),
		username        TEXT NOT NULL DEFAULT '',
		content         TEXT NOT NULL,
		language        TEXT NOT NULL DEFAULT '',
		translated_text TEXT NOT NULL DEFAULT '',
		sentiment       TEXT NOT NULL DEFAULT '',
		classification  TEXT NOT NULL DEFAULT '',
		url             TEXT NOT NULL DEFAULT '',
		likes           INTEGER NOT NULL DEFAULT 0,
		shares          INTEGER NOT NULL DEFAULT 0,
		comments        INTEGER NOT NULL DEFAULT 0,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`ALTER TABLE posts ADD COLUMN IF NOT EXISTS user_record_id BIGINT REFERENCES users(id)`,
	`CREATE INDEX IF NOT EXISTS posts_user_record_id_idx ON posts (user_record_id)`,
	`CREATE INDEX IF NOT EXISTS posts_created_at_idx ON posts (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS posts_classification_idx ON posts (classification)`,
	`CREATE TABLE IF NOT EXISTS campaigns (
		id              BIGSERIAL PRIMARY KEY,
		hashtag         TEXT NOT NULL,
		volume          INTEGER NOT NULL DEFAULT 0,
		unique_users    INTEGER NOT NULL DEFAULT 0,
		time_span_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
		risk_score      DOUBLE PRECISION NOT NULL DEFAULT 0,
		risk_level      TEXT NOT NULL DEFAULT 'low',
		indicators      TEXT[] NOT NULL DEFAULT '{}',
		user_network    TEXT[] NOT NULL DEFAULT '{}',
		first_detected  TIMESTAMPTZ,
		last_detected   TIMESTAMPTZ,
		is_active       BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS campaigns_hashtag_key ON campaigns (hashtag)`,
	`CREATE TABLE IF NOT EXISTS alerts (
		id          TEXT PRIMARY KEY,
		type        TEXT NOT NULL,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		severity    TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'active',
		subject     TEXT NOT NULL DEFAULT '',
		metadata    JSONB NOT NULL DEFAULT '{}',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`ALTER TABLE alerts ADD COLUMN IF NOT EXISTS subject TEXT NOT NULL DEFAULT ''`,
	`CREATE INDEX IF NOT EXISTS alerts_created_at_idx ON alerts (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS alerts_active_subject_idx ON alerts (type, subject) WHERE status = 'active'`,
}

// Migrate creates the tables and indexes when they do not exist yet
func (s *Store) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i, err)
		}
	}
	s.logger.Info("database schema applied", zap.Int("statements", len(schema)))
	return nil
}
