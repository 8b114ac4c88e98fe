// Package testutil provides shared fixtures for deckstat tests: an
// in-memory database, a small card catalog and a fluent deck builder.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/Veraticus/deckstat/internal/categorize"
	"github.com/Veraticus/deckstat/internal/model"
	"github.com/Veraticus/deckstat/internal/service"
	"github.com/Veraticus/deckstat/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a migrated in-memory database that is closed when
// the test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// SeedDecks stores decks along with their cards, categorized by the
// default rules. Deck IDs are written back into the slice.
func (db *TestDB) SeedDecks(decks ...*model.Deck) {
	db.t.Helper()
	ctx := context.Background()
	rules := categorize.Default()

	for _, d := range decks {
		var cards []model.CardEntry
		seen := make(map[string]bool)
		for _, e := range d.Entries {
			if e.Card != nil && !seen[e.Card.Name] {
				seen[e.Card.Name] = true
				cards = append(cards, *e.Card)
			}
		}
		if err := db.Storage.UpsertCards(ctx, cards, rules.CategorizeAll(cards)); err != nil {
			db.t.Fatalf("failed to seed cards for %q: %v", d.Name, err)
		}
		if err := db.Storage.SaveDeck(ctx, d); err != nil {
			db.t.Fatalf("failed to seed deck %q: %v", d.Name, err)
		}
	}
}

// WithTransaction executes the given function within a database transaction.
// The transaction is automatically rolled back after the function completes.
func (db *TestDB) WithTransaction(fn func(tx service.Transaction) error) error {
	ctx := context.Background()
	tx, err := db.Storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	return fn(tx)
}
