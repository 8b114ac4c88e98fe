// Package catalog holds the read-only card index built from a Scryfall
// bulk snapshot.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/model"
	"github.com/Veraticus/deckstat/internal/scryfall"
)

const ambiguous = -1

// Candidate is one fuzzy-matchable key.
type Candidate struct {
	Card   *model.CardEntry
	Key    string
	KeyLen int
}

// Catalog indexes cards by normalized name. It is immutable after New and
// safe for concurrent reads.
type Catalog struct {
	exact      map[string]int
	faces      map[string]int
	loose      map[string]int
	cards      []model.CardEntry
	candidates []Candidate
}

// New builds the indices. Duplicate names keep the first entry.
func New(entries []model.CardEntry) *Catalog {
	c := &Catalog{
		exact: make(map[string]int, len(entries)),
		faces: make(map[string]int),
		loose: make(map[string]int, len(entries)),
	}

	for _, e := range entries {
		key := Normalize(e.Name)
		if key == "" {
			continue
		}
		if _, dup := c.exact[key]; dup {
			continue
		}
		c.exact[key] = len(c.cards)
		c.cards = append(c.cards, e)
	}

	for i := range c.cards {
		card := &c.cards[i]
		c.addLoose(LooseKey(card.Name), i)
		c.addCandidate(card.Name, card)

		if !strings.Contains(card.Name, model.DoubleFacedSeparator) {
			continue
		}
		front := Normalize(card.FrontFace())
		if _, taken := c.exact[front]; taken {
			continue
		}
		if prev, seen := c.faces[front]; seen && prev != i {
			c.faces[front] = ambiguous
		} else {
			c.faces[front] = i
		}
		c.addLoose(LooseKey(card.FrontFace()), i)
		c.addCandidate(card.FrontFace(), card)
	}

	sort.Slice(c.candidates, func(a, b int) bool {
		return c.candidates[a].Key < c.candidates[b].Key
	})
	return c
}

func (c *Catalog) addLoose(key string, i int) {
	if key == "" {
		return
	}
	if prev, seen := c.loose[key]; seen && prev != i {
		c.loose[key] = ambiguous
		return
	}
	c.loose[key] = i
}

func (c *Catalog) addCandidate(name string, card *model.CardEntry) {
	key := CompactKey(name)
	if key == "" {
		return
	}
	c.candidates = append(c.candidates, Candidate{Key: key, KeyLen: utf8.RuneCountInString(key), Card: card})
}

// Len is the number of distinct cards.
func (c *Catalog) Len() int {
	return len(c.cards)
}

// Exact looks up a normalized name, falling back to double-faced front faces.
func (c *Catalog) Exact(normalized string) (*model.CardEntry, bool) {
	if i, ok := c.exact[normalized]; ok {
		return &c.cards[i], true
	}
	if i, ok := c.faces[normalized]; ok && i != ambiguous {
		return &c.cards[i], true
	}
	return nil, false
}

// Loose looks up a loose key. Keys shared by different cards never match.
func (c *Catalog) Loose(key string) (*model.CardEntry, bool) {
	if i, ok := c.loose[key]; ok && i != ambiguous {
		return &c.cards[i], true
	}
	return nil, false
}

// Get returns the card with exactly this canonical name.
func (c *Catalog) Get(name string) (*model.CardEntry, bool) {
	i, ok := c.exact[Normalize(name)]
	if !ok || c.cards[i].Name != name {
		return nil, false
	}
	return &c.cards[i], true
}

// Candidates returns every fuzzy key, sorted by key. Callers must not
// modify the slice.
func (c *Catalog) Candidates() []Candidate {
	return c.candidates
}

// Load streams a bulk file into a catalog.
func Load(ctx context.Context, path string) (*Catalog, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, common.NewUserError(
			fmt.Sprintf("card catalog not found at %s; run `deckstat init` to download it", path),
			common.ErrCatalogUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	var entries []model.CardEntry
	n, err := scryfall.StreamCards(f, func(card scryfall.Card) error {
		if len(entries)%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		entries = append(entries, card.ToEntry())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCatalogUnavailable, err)
	}
	if n == 0 {
		return nil, common.NewUserError(
			fmt.Sprintf("card catalog at %s holds no cards; run `deckstat init --force`", path),
			common.ErrCatalogUnavailable)
	}

	cat := New(entries)
	common.LogDebug("Loaded card catalog", common.Fields{"path": path, "cards": cat.Len()})
	return cat, nil
}

// Stale reports whether the catalog file is missing or older than maxAge.
func Stale(path string, maxAge time.Duration) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	return maxAge > 0 && time.Since(info.ModTime()) > maxAge
}
