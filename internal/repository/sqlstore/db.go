package sqlstore

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects with the given driver ("postgres" or "sqlite") and applies
// any outstanding migrations.
func Open(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s db: %w", driver, err)
	}

	if driver == "sqlite" {
		// A single connection keeps ":memory:" databases alive and
		// serializes writers.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling foreign keys: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s db: %w", driver, err)
	}

	if err := InitializeDatabase(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

type migration struct {
	version    int
	statements []string
}

var migrations = []migration{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS emails (
				id VARCHAR(64) PRIMARY KEY,
				user_id VARCHAR(255) NOT NULL,
				sender_email TEXT NOT NULL,
				subject TEXT NOT NULL,
				body TEXT NOT NULL,
				received_at TIMESTAMP NOT NULL,
				sentiment VARCHAR(16),
				priority VARCHAR(16) NOT NULL DEFAULT 'normal',
				category TEXT NOT NULL DEFAULT '',
				urgency_keywords TEXT NOT NULL DEFAULT '[]',
				extracted_info TEXT NOT NULL DEFAULT '{}',
				processed BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_emails_dedup ON emails (user_id, sender_email, subject)`,
			`CREATE TABLE IF NOT EXISTS responses (
				id VARCHAR(64) PRIMARY KEY,
				email_id VARCHAR(64) NOT NULL REFERENCES emails(id),
				user_id VARCHAR(255) NOT NULL,
				generated_response TEXT NOT NULL,
				edited_response TEXT,
				sent BOOLEAN NOT NULL DEFAULT FALSE,
				sent_at TIMESTAMP,
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_responses_user ON responses (user_id)`,
			`CREATE TABLE IF NOT EXISTS analytics (
				id VARCHAR(64) PRIMARY KEY,
				user_id VARCHAR(255) NOT NULL,
				date VARCHAR(10) NOT NULL,
				total_emails INTEGER NOT NULL DEFAULT 0,
				urgent_emails INTEGER NOT NULL DEFAULT 0,
				resolved_emails INTEGER NOT NULL DEFAULT 0,
				pending_emails INTEGER NOT NULL DEFAULT 0,
				positive_sentiment INTEGER NOT NULL DEFAULT 0,
				negative_sentiment INTEGER NOT NULL DEFAULT 0,
				neutral_sentiment INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL,
				UNIQUE (user_id, date)
			)`,
		},
	},
	{
		version: 2,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS knowledge_base (
				id VARCHAR(64) PRIMARY KEY,
				user_id VARCHAR(255) NOT NULL,
				title TEXT NOT NULL,
				content TEXT NOT NULL,
				keywords TEXT NOT NULL DEFAULT '[]',
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			)`,
		},
	},
	{
		version: 3,
		statements: []string{
			`ALTER TABLE emails ADD COLUMN message_id TEXT NOT NULL DEFAULT ''`,
		},
	},
}

// InitializeDatabase creates the schema_version table and applies every
// migration newer than the recorded version.
func InitializeDatabase(db *sqlx.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var current int
	if err := db.Get(&current, `SELECT COALESCE(MAX(version), 0) FROM schema_version`); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		tx, err := db.Beginx()
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", m.version, err)
		}
		for _, stmt := range m.statements {
			if _, err := tx.Exec(stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d: %w", m.version, err)
			}
		}
		if _, err := tx.Exec(db.Rebind(`INSERT INTO schema_version (version) VALUES (?)`), m.version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", m.version, err)
		}
	}

	return nil
}
