package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Veraticus/deckstat/internal/model"
)

// SaveImportFailures records unresolved card names for an import batch.
func (s *SQLiteStorage) SaveImportFailures(ctx context.Context, failures []model.ImportFailure) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(failures) == 0 {
		return nil
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return saveImportFailures(ctx, tx, failures)
	})
}

func saveImportFailures(ctx context.Context, q queryable, failures []model.ImportFailure) error {
	for _, f := range failures {
		if err := validateString(f.BatchID, "batchID"); err != nil {
			return err
		}
		created := f.CreatedAt
		if created.IsZero() {
			created = time.Now().UTC()
		}
		_, err := q.ExecContext(ctx, `
			INSERT INTO import_failures (batch_id, deck_name, source_file, raw_name, reason, line, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, f.BatchID, f.DeckName, f.SourceFile, f.RawName, f.Reason, f.Line, created)
		if err != nil {
			return fmt.Errorf("failed to record failure for %q: %w", f.RawName, err)
		}
	}
	return nil
}

// GetImportFailures returns failures for batchID, or for the most recent
// batch when batchID is empty.
func (s *SQLiteStorage) GetImportFailures(ctx context.Context, batchID string) ([]model.ImportFailure, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getImportFailures(ctx, s.db, batchID)
}

func getImportFailures(ctx context.Context, q queryable, batchID string) ([]model.ImportFailure, error) {
	query := `SELECT batch_id, deck_name, source_file, raw_name, reason, line, created_at
		FROM import_failures WHERE batch_id = ?`
	args := []any{batchID}
	if batchID == "" {
		query = `SELECT batch_id, deck_name, source_file, raw_name, reason, line, created_at
			FROM import_failures
			WHERE batch_id = (SELECT batch_id FROM import_failures ORDER BY id DESC LIMIT 1)`
		args = nil
	}
	query += ` ORDER BY id`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query import failures: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.ImportFailure
	for rows.Next() {
		var f model.ImportFailure
		if err := rows.Scan(&f.BatchID, &f.DeckName, &f.SourceFile, &f.RawName, &f.Reason, &f.Line, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import failure: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
