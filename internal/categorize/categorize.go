// Package categorize assigns functional categories to cards from their
// oracle text, type line and a table of well-known staples.
package categorize

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Veraticus/deckstat/internal/model"
)

// Rule maps an oracle-text pattern to a category.
type Rule struct {
	Category model.Category
	Regex    string
	// Weight is the rule's reliability. Only informational for now.
	Weight float64
}

type compiledRule struct {
	re *regexp.Regexp
	Rule
}

// Categorizer labels cards. It is safe for concurrent use.
type Categorizer struct {
	staples map[string][]model.Category
	rules   []compiledRule
}

// New compiles rules and indexes staples. Patterns are matched
// case-insensitively.
func New(rules []Rule, staples map[model.Category][]string) (*Categorizer, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		expr := r.Regex
		if !strings.HasPrefix(expr, "(?i)") {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s pattern %q: %w", r.Category, r.Regex, err)
		}
		compiled = append(compiled, compiledRule{Rule: r, re: re})
	}

	byName := make(map[string][]model.Category)
	for cat, names := range staples {
		for _, name := range names {
			byName[name] = append(byName[name], cat)
		}
	}
	return &Categorizer{rules: compiled, staples: byName}, nil
}

// Default returns a categorizer over DefaultRules and KnownStaples.
func Default() *Categorizer {
	c, err := New(DefaultRules(), KnownStaples())
	if err != nil {
		panic(err)
	}
	return c
}

// Categorize returns the card's categories in display order. Plain lands
// are only "land"; a card matching nothing is "other".
func (c *Categorizer) Categorize(card model.CardEntry) []model.Category {
	set := make(map[model.Category]bool)
	for _, cat := range c.staples[card.Name] {
		set[cat] = true
	}

	if card.IsLand() {
		if len(set) == 0 {
			return []model.Category{model.CategoryLand}
		}
		set[model.CategoryLand] = true
	}

	for _, r := range c.rules {
		if set[r.Category] {
			continue
		}
		if r.re.MatchString(card.OracleText) {
			set[r.Category] = true
		}
	}

	if len(set) == 0 {
		return []model.Category{model.CategoryOther}
	}
	return ordered(set)
}

// CategorizeAll labels every card, keyed by canonical name.
func (c *Categorizer) CategorizeAll(cards []model.CardEntry) model.CategoryMap {
	out := make(model.CategoryMap, len(cards))
	for _, card := range cards {
		if _, done := out[card.Name]; done {
			continue
		}
		out[card.Name] = c.Categorize(card)
	}
	return out
}

// Sort puts categories in display order and drops duplicates.
func Sort(cats []model.Category) []model.Category {
	set := make(map[model.Category]bool, len(cats))
	for _, cat := range cats {
		set[cat] = true
	}
	return ordered(set)
}

func ordered(set map[model.Category]bool) []model.Category {
	out := make([]model.Category, 0, len(set))
	for cat := range set {
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool {
		if ri, rj := rank(out[i]), rank(out[j]); ri != rj {
			return ri < rj
		}
		return out[i] < out[j]
	})
	return out
}

func rank(c model.Category) int {
	for i, known := range model.Categories {
		if known == c {
			return i
		}
	}
	return len(model.Categories)
}
