package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/deckstat/internal/model"
	"github.com/Veraticus/deckstat/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// queryable is satisfied by both *sql.DB and *sql.Tx.
type queryable interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't benefit from multiple connections
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new database transaction.
func (s *SQLiteStorage) BeginTx(ctx context.Context) (service.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return &sqliteTransaction{
		tx:      tx,
		storage: s,
	}, nil
}

// withTx runs fn inside a transaction that commits only if fn succeeds.
func (s *SQLiteStorage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// sqliteTransaction wraps sql.Tx to implement service.Transaction.
type sqliteTransaction struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTransaction) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTransaction) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTransaction) Migrate(_ context.Context) error {
	// Migrations should not be run within a transaction
	return fmt.Errorf("migrations cannot be run within a transaction")
}

func (t *sqliteTransaction) BeginTx(_ context.Context) (service.Transaction, error) {
	return nil, fmt.Errorf("nested transactions not supported")
}

func (t *sqliteTransaction) Close() error {
	return fmt.Errorf("cannot close storage from within a transaction")
}

// Transaction methods delegate to the storage helpers with the transaction.
func (t *sqliteTransaction) SaveDeck(ctx context.Context, deck *model.Deck) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateDeck(deck); err != nil {
		return err
	}
	return saveDeckTx(ctx, t.tx, deck)
}

func (t *sqliteTransaction) DeckExists(ctx context.Context, sourceFile string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	return deckExists(ctx, t.tx, sourceFile)
}

func (t *sqliteTransaction) DeleteDeckBySource(ctx context.Context, sourceFile string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return deleteDeckBySource(ctx, t.tx, sourceFile)
}

func (t *sqliteTransaction) GetDeck(ctx context.Context, id int64) (*model.Deck, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getDeck(ctx, t.tx, id)
}

func (t *sqliteTransaction) ListDecks(ctx context.Context, filter model.DeckFilter) ([]model.Deck, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return listDecks(ctx, t.tx, filter)
}

func (t *sqliteTransaction) LoadDecks(ctx context.Context, filter model.DeckFilter) ([]model.Deck, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return loadDecks(ctx, t.tx, filter)
}

func (t *sqliteTransaction) GetSummary(ctx context.Context) (*service.DeckSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getSummary(ctx, t.tx)
}

func (t *sqliteTransaction) UpsertCards(ctx context.Context, cards []model.CardEntry, categories model.CategoryMap) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return upsertCards(ctx, t.tx, cards, categories)
}

func (t *sqliteTransaction) GetCard(ctx context.Context, name string) (*model.CardEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return getCard(ctx, t.tx, name)
}

func (t *sqliteTransaction) GetCategoryMap(ctx context.Context) (model.CategoryMap, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getCategoryMap(ctx, t.tx)
}

func (t *sqliteTransaction) GetCardCategories(ctx context.Context, name string) (*model.CardCategories, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return getCardCategories(ctx, t.tx, name)
}

func (t *sqliteTransaction) SetCardCategories(ctx context.Context, name string, categories []model.Category, source model.CategorySource) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategories(name, categories, source); err != nil {
		return err
	}
	return setCardCategories(ctx, t.tx, name, categories, source)
}

func (t *sqliteTransaction) ListCardCategories(ctx context.Context, source model.CategorySource) ([]model.CardCategories, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return listCardCategories(ctx, t.tx, source)
}

func (t *sqliteTransaction) GetUncategorizedCards(ctx context.Context, limit int) ([]model.CardEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getUncategorizedCards(ctx, t.tx, limit)
}

func (t *sqliteTransaction) GetCachedCategories(ctx context.Context, key string) ([]model.Category, bool, error) {
	if err := validateContext(ctx); err != nil {
		return nil, false, err
	}
	return getCachedCategories(ctx, t.tx, key)
}

func (t *sqliteTransaction) SaveCachedCategories(ctx context.Context, key, modelName string, categories []model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}
	return saveCachedCategories(ctx, t.tx, key, modelName, categories)
}

func (t *sqliteTransaction) SaveImportFailures(ctx context.Context, failures []model.ImportFailure) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return saveImportFailures(ctx, t.tx, failures)
}

func (t *sqliteTransaction) GetImportFailures(ctx context.Context, batchID string) ([]model.ImportFailure, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getImportFailures(ctx, t.tx, batchID)
}
