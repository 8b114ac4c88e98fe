// Package storage provides the data persistence layer for deckstat.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/deckstat/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidDeck     = errors.New("invalid deck")
	ErrInvalidCategory = errors.New("invalid category")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateDeck checks the fields the schema requires.
func validateDeck(deck *model.Deck) error {
	if deck == nil {
		return fmt.Errorf("%w: deck", ErrNilParameter)
	}
	if strings.TrimSpace(deck.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidDeck)
	}
	if strings.TrimSpace(deck.SourceFile) == "" {
		return fmt.Errorf("%w: missing source file", ErrInvalidDeck)
	}
	if len(deck.Commanders) == 0 || len(deck.Commanders) > 2 {
		return fmt.Errorf("%w: expected one or two commanders, got %d", ErrInvalidDeck, len(deck.Commanders))
	}
	if deck.Bracket != 0 && !model.ValidBracket(deck.Bracket) {
		return fmt.Errorf("%w: bracket %d out of range", ErrInvalidDeck, deck.Bracket)
	}
	for i, e := range deck.Entries {
		if e.Quantity < 1 {
			return fmt.Errorf("%w: entry %d (%s) has quantity %d", ErrInvalidDeck, i, e.RawName, e.Quantity)
		}
		if strings.TrimSpace(e.Name()) == "" {
			return fmt.Errorf("%w: entry %d has no name", ErrInvalidDeck, i)
		}
	}
	return nil
}

// validateCategories checks a category assignment.
func validateCategories(name string, categories []model.Category, source model.CategorySource) error {
	if err := validateString(name, "name"); err != nil {
		return err
	}
	if len(categories) == 0 {
		return fmt.Errorf("%w: no categories for %s", ErrInvalidCategory, name)
	}
	for _, c := range categories {
		if _, ok := model.ParseCategory(string(c)); !ok {
			return fmt.Errorf("%w: %q", ErrInvalidCategory, c)
		}
	}
	switch source {
	case model.CategorySourceRules, model.CategorySourceLLM, model.CategorySourceManual:
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidCategory, source)
	}
	return nil
}
