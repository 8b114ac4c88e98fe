package config

import (
	"path/filepath"
	"time"
)

// Defaults for every configuration key. Commands register these with viper.
const (
	DefaultResolverThreshold = 0.90
	DefaultResolverMargin    = 0.02
	DefaultLLMProvider       = "anthropic"
	DefaultLLMBatchSize      = 20
	DefaultLLMConcurrency    = 2
	DefaultLLMRateLimit      = time.Second
	DefaultLLMTimeout        = 60 * time.Second
	DefaultCatalogMaxAge     = 30 * 24 * time.Hour
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "console"
)

// DefaultDatabasePath is where decks are stored.
func DefaultDatabasePath() string {
	return filepath.Join(DataDir(), "decks.db")
}

// DefaultCatalogPath is where the Scryfall bulk snapshot lives.
func DefaultCatalogPath() string {
	return filepath.Join(DataDir(), "oracle-cards.json")
}

// DefaultDecksDir holds deck list text files.
func DefaultDecksDir() string {
	return filepath.Join(DataDir(), "decks")
}

// Values returns key/default pairs for viper.SetDefault.
func Values() map[string]any {
	return map[string]any{
		"database.path":      DefaultDatabasePath(),
		"catalog.path":       DefaultCatalogPath(),
		"catalog.max_age":    DefaultCatalogMaxAge,
		"decks.dir":          DefaultDecksDir(),
		"resolver.threshold": DefaultResolverThreshold,
		"resolver.margin":    DefaultResolverMargin,
		"llm.provider":       DefaultLLMProvider,
		"llm.model":          "",
		"llm.api_key":        "",
		"llm.base_url":       "",
		"llm.timeout":        DefaultLLMTimeout,
		"llm.batch_size":     DefaultLLMBatchSize,
		"llm.concurrency":    DefaultLLMConcurrency,
		"llm.rate_limit":     DefaultLLMRateLimit,
		"packages.stop_list": []string{},
		"logging.level":      DefaultLogLevel,
		"logging.format":     DefaultLogFormat,
	}
}
