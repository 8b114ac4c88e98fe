package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/Veraticus/deckstat/internal/model"
)

// Cache persists model answers so a card is only ever sent once per
// oracle text. service.Storage satisfies it.
type Cache interface {
	GetCachedCategories(ctx context.Context, key string) ([]model.Category, bool, error)
	SaveCachedCategories(ctx context.Context, key, modelName string, categories []model.Category) error
}

// CacheKey identifies a card by name and rules text, so errata invalidate
// earlier answers.
func CacheKey(card model.CardEntry) string {
	h := sha256.New()
	h.Write([]byte(card.Name))
	h.Write([]byte{0})
	h.Write([]byte(card.TypeLine))
	h.Write([]byte{0})
	h.Write([]byte(card.OracleText))
	return "v1:" + hex.EncodeToString(h.Sum(nil))
}

// memoryCache is a Cache for dry runs and tests.
type memoryCache struct {
	entries map[string][]model.Category
}

// NewMemoryCache returns an in-process Cache.
func NewMemoryCache() Cache {
	return &memoryCache{entries: make(map[string][]model.Category)}
}

func (c *memoryCache) GetCachedCategories(_ context.Context, key string) ([]model.Category, bool, error) {
	cats, ok := c.entries[key]
	return cats, ok, nil
}

func (c *memoryCache) SaveCachedCategories(_ context.Context, key, _ string, categories []model.Category) error {
	c.entries[key] = categories
	return nil
}
