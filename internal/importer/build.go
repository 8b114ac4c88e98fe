// Package importer turns parsed deck files into stored decks: it resolves
// card names against the catalog, derives commander metadata and records
// resolution failures per import batch.
package importer

import (
	"github.com/Veraticus/deckstat/internal/deckfile"
	"github.com/Veraticus/deckstat/internal/model"
	"github.com/Veraticus/deckstat/internal/resolve"
)

// BuildOptions carries deck fields that do not come from the file.
type BuildOptions struct {
	Tag    string
	Source model.DeckSource
	Batch  string
}

// Build resolves a parsed deck file into a Deck. Color identity is the
// union of the resolved commanders; the commander mana value is the first
// commander's. Unresolved cards stay in the deck with a nil Card and are
// returned as failures.
func Build(f *deckfile.File, r *resolve.Resolver, opts BuildOptions) (*model.Deck, []model.ImportFailure) {
	source := opts.Source
	if source == "" {
		source = model.SourceManual
	}
	deck := &model.Deck{
		Name:        f.Name,
		Tag:         opts.Tag,
		Builder:     f.Builder,
		SourceFile:  f.SourceFile,
		Source:      source,
		Bracket:     f.Bracket,
		ImportBatch: opts.Batch,
	}

	var failures []model.ImportFailure
	fail := func(raw string, line int, err error) {
		failures = append(failures, model.ImportFailure{
			BatchID:    opts.Batch,
			DeckName:   deck.Name,
			SourceFile: deck.SourceFile,
			RawName:    raw,
			Reason:     err.Error(),
			Line:       line,
		})
	}

	commanders := r.ResolveCommanders(f.CommanderLine)
	if len(commanders) > 2 {
		commanders = commanders[:2]
	}
	for i, cm := range commanders {
		deck.Commanders = append(deck.Commanders, cm.Commander)
		if cm.Card == nil {
			continue
		}
		deck.ColorIdentity = deck.ColorIdentity.Union(cm.Card.ColorIdentity)
		if i == 0 {
			deck.CommanderManaValue = cm.Card.ManaValue
		}
	}

	deck.Entries = make([]model.DeckEntry, 0, len(f.Entries))
	for _, e := range f.Entries {
		entry := model.DeckEntry{
			RawName:  e.Name,
			Board:    e.Board,
			Quantity: e.Quantity,
			Line:     e.Line,
		}
		m, err := r.Resolve(e.Name)
		if err != nil {
			fail(e.Name, e.Line, err)
		} else {
			entry.Card = m.Card
		}
		deck.Entries = append(deck.Entries, entry)
	}

	return deck, failures
}

// referencedCards returns each resolved card of the deck once.
func referencedCards(deck *model.Deck) []model.CardEntry {
	seen := make(map[string]bool)
	var cards []model.CardEntry
	for _, e := range deck.Entries {
		if e.Card == nil || seen[e.Card.Name] {
			continue
		}
		seen[e.Card.Name] = true
		cards = append(cards, *e.Card)
	}
	return cards
}
