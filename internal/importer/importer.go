package importer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Veraticus/deckstat/internal/categorize"
	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/deckfile"
	"github.com/Veraticus/deckstat/internal/model"
	"github.com/Veraticus/deckstat/internal/resolve"
	"github.com/Veraticus/deckstat/internal/service"
	"github.com/google/uuid"
)

// Status is the outcome of importing one file.
type Status string

// File outcomes.
const (
	StatusImported Status = "imported"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

// Options configures an import run.
type Options struct {
	// OnFile is called after each file, for progress reporting.
	OnFile func(FileResult)
	Tag    string
	Source model.DeckSource
	// Force re-imports files already in the database, replacing them.
	Force bool
}

// FileResult describes what happened to one file.
type FileResult struct {
	Err       error
	Deck      *model.Deck
	Path      string
	Status    Status
	Warnings  []string
	Malformed []deckfile.LineError
	Failures  []model.ImportFailure
}

// Report summarizes an import run.
type Report struct {
	BatchID  string
	Files    []FileResult
	Imported int
	Skipped  int
	Errors   int
}

// Failures returns every resolution failure of the run, in file order.
func (r *Report) Failures() []model.ImportFailure {
	var out []model.ImportFailure
	for _, f := range r.Files {
		out = append(out, f.Failures...)
	}
	return out
}

// Malformed returns every malformed line of the run, keyed by file path.
func (r *Report) Malformed() map[string][]deckfile.LineError {
	out := make(map[string][]deckfile.LineError)
	for _, f := range r.Files {
		if len(f.Malformed) > 0 {
			out[f.Path] = f.Malformed
		}
	}
	return out
}

// Importer imports deck files into storage.
type Importer struct {
	storage     service.Storage
	resolver    *resolve.Resolver
	categorizer *categorize.Categorizer
	opts        Options
}

// New creates an importer.
func New(storage service.Storage, resolver *resolve.Resolver, categorizer *categorize.Categorizer, opts Options) *Importer {
	if categorizer == nil {
		categorizer = categorize.Default()
	}
	return &Importer{
		storage:     storage,
		resolver:    resolver,
		categorizer: categorizer,
		opts:        opts,
	}
}

// ImportFiles imports paths in order under one batch id. Per-file problems
// are recorded in the report and never stop the run; only context
// cancellation and storage failures outside a file's transaction do.
func (im *Importer) ImportFiles(ctx context.Context, paths []string) (*Report, error) {
	report := &Report{BatchID: uuid.NewString()}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res := im.importFile(ctx, path, report.BatchID)
		if res.Err != nil && errors.Is(res.Err, context.Canceled) {
			return report, res.Err
		}

		switch res.Status {
		case StatusImported:
			report.Imported++
		case StatusSkipped:
			report.Skipped++
		case StatusFailed:
			report.Errors++
			common.LogError(res.Err, "Failed to import deck", common.Fields{"file": path})
		}
		report.Files = append(report.Files, res)
		if im.opts.OnFile != nil {
			im.opts.OnFile(res)
		}
	}

	common.LogInfo("Import finished", common.Fields{
		"batch":    report.BatchID,
		"imported": report.Imported,
		"skipped":  report.Skipped,
		"errors":   report.Errors,
	})
	return report, nil
}

func (im *Importer) importFile(ctx context.Context, path, batch string) FileResult {
	res := FileResult{Path: path}
	failed := func(err error) FileResult {
		res.Status = StatusFailed
		res.Err = err
		return res
	}

	exists, err := im.storage.DeckExists(ctx, filepath.Base(path))
	if err != nil {
		return failed(err)
	}
	if exists && !im.opts.Force {
		res.Status = StatusSkipped
		common.LogDebug("Deck already imported", common.Fields{"file": path})
		return res
	}

	parsed, err := deckfile.ParseFile(path)
	if err != nil {
		return failed(err)
	}
	res.Warnings = parsed.Warnings
	res.Malformed = parsed.Malformed
	for _, w := range parsed.Warnings {
		common.LogWarn(w, common.Fields{"file": path})
	}

	deck, failures := Build(parsed, im.resolver, BuildOptions{
		Tag:    im.opts.Tag,
		Source: im.opts.Source,
		Batch:  batch,
	})
	res.Deck = deck
	res.Failures = failures

	if err := im.save(ctx, deck, failures); err != nil {
		res.Deck = nil
		return failed(err)
	}

	res.Status = StatusImported
	common.LogDebug("Imported deck", common.Fields{
		"file":       path,
		"deck_id":    deck.ID,
		"commander":  deck.CommanderLabel(),
		"colors":     deck.ColorIdentity.String(),
		"unresolved": len(failures),
	})
	return res
}

// save writes the deck, its cards and its failures in one transaction.
func (im *Importer) save(ctx context.Context, deck *model.Deck, failures []model.ImportFailure) (err error) {
	tx, err := im.storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				common.LogError(rbErr, "Failed to rollback import", common.Fields{"deck": deck.Name})
			}
		}
	}()

	cards := referencedCards(deck)
	if err = tx.UpsertCards(ctx, cards, im.categorizer.CategorizeAll(cards)); err != nil {
		return err
	}
	if err = tx.SaveDeck(ctx, deck); err != nil {
		return err
	}
	if len(failures) > 0 {
		if err = tx.SaveImportFailures(ctx, failures); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}
