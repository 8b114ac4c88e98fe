package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Veraticus/deckstat/internal/model"
)

// GetCachedCategories looks up a previous LLM answer.
func (s *SQLiteStorage) GetCachedCategories(ctx context.Context, key string) ([]model.Category, bool, error) {
	if err := validateContext(ctx); err != nil {
		return nil, false, err
	}
	return getCachedCategories(ctx, s.db, key)
}

func getCachedCategories(ctx context.Context, q queryable, key string) ([]model.Category, bool, error) {
	var raw string
	err := q.QueryRowContext(ctx, `SELECT categories FROM llm_cache WHERE cache_key = ?`, key).Scan(&raw)
	if isNoRows(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read llm cache: %w", err)
	}
	cats, err := decodeCategories(raw)
	if err != nil {
		return nil, false, err
	}
	return cats, true, nil
}

// SaveCachedCategories stores an LLM answer under key.
func (s *SQLiteStorage) SaveCachedCategories(ctx context.Context, key, modelName string, categories []model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}
	return saveCachedCategories(ctx, s.db, key, modelName, categories)
}

func saveCachedCategories(ctx context.Context, q queryable, key, modelName string, categories []model.Category) error {
	encoded, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to encode categories: %w", err)
	}
	_, err = q.ExecContext(ctx, `
		INSERT OR REPLACE INTO llm_cache (cache_key, categories, model, created_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	`, key, string(encoded), modelName)
	if err != nil {
		return fmt.Errorf("failed to write llm cache: %w", err)
	}
	return nil
}
