// Package analysis computes aggregate statistics over stored decks.
// Every function ignores the commander board and unresolved entries.
package analysis

import (
	"math"
	"sort"

	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/model"
)

// deckProfile holds the per-deck numbers the reports average over.
type deckProfile struct {
	categories   map[model.Category]int
	curve        [model.MaxCurveBucket + 1]int
	lands        int
	nonLands     int
	manaValueSum float64
}

func (p deckProfile) avgManaValue() float64 {
	if p.nonLands == 0 {
		return 0
	}
	return p.manaValueSum / float64(p.nonLands)
}

// labels returns a card's categories, falling back to what the card's type
// alone implies when the map has no entry.
func labels(cats model.CategoryMap, card *model.CardEntry) []model.Category {
	if got := cats[card.Name]; len(got) > 0 {
		return got
	}
	if card.IsLand() {
		return []model.Category{model.CategoryLand}
	}
	return []model.Category{model.CategoryOther}
}

// countable yields the mainboard entries that carry card metadata.
func countable(d model.Deck) []model.DeckEntry {
	out := make([]model.DeckEntry, 0, len(d.Entries))
	for _, e := range d.Entries {
		if e.Board == model.BoardMain && e.Resolved() {
			out = append(out, e)
		}
	}
	return out
}

func profile(d model.Deck, cats model.CategoryMap) deckProfile {
	p := deckProfile{categories: make(map[model.Category]int)}
	for _, e := range countable(d) {
		if e.Card.IsLand() {
			p.lands += e.Quantity
		} else {
			p.nonLands += e.Quantity
			p.manaValueSum += e.Card.ManaValue * float64(e.Quantity)
			p.curve[e.Card.CurveBucket()] += e.Quantity
		}
		for _, c := range labels(cats, e.Card) {
			p.categories[c] += e.Quantity
		}
	}
	return p
}

// deckPresence maps each card name to the number of decks that play it.
func deckPresence(decks []model.Deck, keep func(*model.CardEntry) bool) (map[string]int, map[string]*model.CardEntry) {
	counts := make(map[string]int)
	cards := make(map[string]*model.CardEntry)
	for _, d := range decks {
		seen := make(map[string]bool)
		for _, e := range countable(d) {
			if seen[e.Card.Name] || (keep != nil && !keep(e.Card)) {
				continue
			}
			seen[e.Card.Name] = true
			counts[e.Card.Name]++
			cards[e.Card.Name] = e.Card
		}
	}
	return counts, cards
}

func summarize(values []int) Range {
	if len(values) == 0 {
		return Range{}
	}
	r := Range{Min: values[0], Max: values[0]}
	sum := 0
	for _, v := range values {
		sum += v
		r.Min = min(r.Min, v)
		r.Max = max(r.Max, v)
	}
	r.Avg = round(float64(sum)/float64(len(values)), 1)
	return r
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func percentage(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return round(float64(n)/float64(total)*100, 1)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// topCounts orders counts by decks desc then name and keeps limit entries.
func topCounts(counts map[string]int, total, limit int) []CardCount {
	out := make([]CardCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, CardCount{Name: name, Decks: n, Percentage: percentage(n, total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Decks != out[j].Decks {
			return out[i].Decks > out[j].Decks
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func requireDecks(decks []model.Deck) error {
	if len(decks) == 0 {
		return common.ErrNoDecks
	}
	return nil
}
