package llm

import (
	"context"
	"fmt"
	"slices"

	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/model"
	"github.com/Veraticus/deckstat/internal/service"
)

// ApplyReport summarizes one LLM categorization pass over stored cards.
type ApplyReport struct {
	Proposed  model.CategoryMap
	Errors    []error
	Transient int
	Scanned   int
	Cached    int
	Requested int
	Updated   int
}

// Apply sends the cards the rule categorizer left as "other" to the model
// and stores any better answer. Manual labels are never touched. With
// dryRun the answers are returned but not written.
func Apply(ctx context.Context, store service.Storage, c *Categorizer, limit int, dryRun bool) (*ApplyReport, error) {
	cards, err := store.GetUncategorizedCards(ctx, limit)
	if err != nil {
		return nil, err
	}
	report := &ApplyReport{Scanned: len(cards), Proposed: make(model.CategoryMap)}
	if len(cards) == 0 {
		return report, nil
	}

	result, err := c.Categorize(ctx, cards)
	if result != nil {
		report.Cached = result.Cached
		report.Requested = result.Requested
		report.Errors = result.Errors
		report.Transient = result.Transient
	}
	if err != nil {
		return report, err
	}

	for name, cats := range result.Categories {
		if slices.Equal(cats, []model.Category{model.CategoryOther}) {
			continue
		}
		report.Proposed[name] = cats
	}
	if dryRun || len(report.Proposed) == 0 {
		return report, nil
	}

	tx, err := store.BeginTx(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to begin transaction: %w", err)
	}
	for name, cats := range report.Proposed {
		if err := tx.SetCardCategories(ctx, name, cats, model.CategorySourceLLM); err != nil {
			_ = tx.Rollback()
			return report, fmt.Errorf("failed to store categories for %s: %w", name, err)
		}
		report.Updated++
	}
	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("failed to commit categories: %w", err)
	}

	common.LogInfo("Stored LLM categories", common.Fields{
		"updated": report.Updated,
		"failed":  len(report.Errors),
	})
	return report, nil
}
