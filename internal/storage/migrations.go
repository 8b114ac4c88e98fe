package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

func execAll(tx *sql.Tx, queries []string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS cards (
					name TEXT PRIMARY KEY,
					scryfall_id TEXT,
					mana_value REAL NOT NULL DEFAULT 0,
					mana_cost TEXT NOT NULL DEFAULT '',
					color_mask INTEGER NOT NULL DEFAULT 0,
					type_line TEXT NOT NULL DEFAULT '',
					oracle_text TEXT NOT NULL DEFAULT '',
					keywords TEXT NOT NULL DEFAULT '[]',
					layout TEXT NOT NULL DEFAULT '',
					categories TEXT NOT NULL DEFAULT '["other"]',
					categories_source TEXT NOT NULL DEFAULT 'rules',
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_cards_source ON cards(categories_source)`,

				`CREATE TABLE IF NOT EXISTS decks (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					source_file TEXT NOT NULL UNIQUE,
					source TEXT NOT NULL DEFAULT 'manual',
					commander_name TEXT NOT NULL,
					commander_raw TEXT NOT NULL,
					commander_resolved INTEGER NOT NULL DEFAULT 0,
					partner_name TEXT,
					partner_raw TEXT,
					partner_resolved INTEGER,
					color_mask INTEGER NOT NULL DEFAULT 0,
					bracket INTEGER NOT NULL DEFAULT 0,
					commander_cmc REAL NOT NULL DEFAULT 0,
					tag TEXT NOT NULL DEFAULT '',
					builder TEXT NOT NULL DEFAULT '',
					date_added DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_decks_color ON decks(color_mask)`,
				`CREATE INDEX idx_decks_bracket ON decks(bracket)`,

				`CREATE TABLE IF NOT EXISTS deck_cards (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					deck_id INTEGER NOT NULL REFERENCES decks(id) ON DELETE CASCADE,
					card_name TEXT NOT NULL,
					raw_name TEXT NOT NULL,
					resolved INTEGER NOT NULL DEFAULT 0,
					quantity INTEGER NOT NULL CHECK (quantity > 0),
					board TEXT NOT NULL DEFAULT 'mainboard',
					line INTEGER NOT NULL DEFAULT 0
				)`,
				`CREATE INDEX idx_deck_cards_deck ON deck_cards(deck_id)`,
				`CREATE INDEX idx_deck_cards_card ON deck_cards(card_name)`,
			})
		},
	},
	{
		Version:     2,
		Description: "Add LLM category cache",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS llm_cache (
					cache_key TEXT PRIMARY KEY,
					categories TEXT NOT NULL,
					model TEXT NOT NULL DEFAULT '',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
			})
		},
	},
	{
		Version:     3,
		Description: "Add import batches and resolution failures",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`ALTER TABLE decks ADD COLUMN import_batch TEXT NOT NULL DEFAULT ''`,
				`CREATE TABLE IF NOT EXISTS import_failures (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					batch_id TEXT NOT NULL,
					deck_name TEXT NOT NULL,
					source_file TEXT NOT NULL,
					raw_name TEXT NOT NULL,
					reason TEXT NOT NULL,
					line INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_import_failures_batch ON import_failures(batch_id)`,
			})
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Debug("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// SchemaVersion reports the current user_version of the database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return v, nil
}
