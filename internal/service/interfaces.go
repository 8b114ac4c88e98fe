// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/deckstat/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Deck operations
	SaveDeck(ctx context.Context, deck *model.Deck) error
	DeckExists(ctx context.Context, sourceFile string) (bool, error)
	DeleteDeckBySource(ctx context.Context, sourceFile string) error
	GetDeck(ctx context.Context, id int64) (*model.Deck, error)
	ListDecks(ctx context.Context, filter model.DeckFilter) ([]model.Deck, error)
	LoadDecks(ctx context.Context, filter model.DeckFilter) ([]model.Deck, error)
	GetSummary(ctx context.Context) (*DeckSummary, error)

	// Card operations
	UpsertCards(ctx context.Context, cards []model.CardEntry, categories model.CategoryMap) error
	GetCard(ctx context.Context, name string) (*model.CardEntry, error)
	GetCategoryMap(ctx context.Context) (model.CategoryMap, error)
	GetCardCategories(ctx context.Context, name string) (*model.CardCategories, error)
	SetCardCategories(ctx context.Context, name string, categories []model.Category, source model.CategorySource) error
	ListCardCategories(ctx context.Context, source model.CategorySource) ([]model.CardCategories, error)
	GetUncategorizedCards(ctx context.Context, limit int) ([]model.CardEntry, error)

	// LLM cache operations
	GetCachedCategories(ctx context.Context, key string) ([]model.Category, bool, error)
	SaveCachedCategories(ctx context.Context, key, modelName string, categories []model.Category) error

	// Import failure operations
	SaveImportFailures(ctx context.Context, failures []model.ImportFailure) error
	GetImportFailures(ctx context.Context, batchID string) ([]model.ImportFailure, error)

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// ColorCount is the number of decks sharing one color identity.
type ColorCount struct {
	Name  string
	Key   string
	Count int
}

// DeckSummary aggregates the stored deck collection.
type DeckSummary struct {
	ByBracket       map[int]int
	ByColor         []ColorCount
	TotalDecks      int
	UniqueCards     int
	TotalEntries    int
	UnresolvedCards int
	CachedLLM       int
}
