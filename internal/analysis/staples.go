package analysis

import (
	"sort"

	"github.com/Veraticus/deckstat/internal/categorize"
	"github.com/Veraticus/deckstat/internal/model"
)

// StapleOptions tunes Staples.
type StapleOptions struct {
	// MinAppearances drops cards played in fewer decks. Defaults to 2.
	MinAppearances int
	// Limit caps the cards listed per category; 0 means no cap.
	Limit int
}

// Staples lists the cards most often played across decks, filed under each
// card's primary category in display order.
func Staples(decks []model.Deck, cats model.CategoryMap, opts StapleOptions) (*StaplesReport, error) {
	if err := requireDecks(decks); err != nil {
		return nil, err
	}
	if opts.MinAppearances <= 0 {
		opts.MinAppearances = 2
	}

	counts, cards := deckPresence(decks, nil)
	grouped := make(map[model.Category][]StapleCard)
	for name, n := range counts {
		if n < opts.MinAppearances {
			continue
		}
		card := cards[name]
		labels := labels(cats, card)
		grouped[labels[0]] = append(grouped[labels[0]], StapleCard{
			Name:        name,
			TypeLine:    card.TypeLine,
			Categories:  labels,
			Appearances: n,
			Percentage:  percentage(n, len(decks)),
			ManaValue:   card.ManaValue,
		})
	}

	present := make([]model.Category, 0, len(grouped))
	for c := range grouped {
		present = append(present, c)
	}

	report := &StaplesReport{DeckCount: len(decks)}
	for _, c := range categorize.Sort(present) {
		list := grouped[c]
		sort.Slice(list, func(i, j int) bool {
			if list[i].Appearances != list[j].Appearances {
				return list[i].Appearances > list[j].Appearances
			}
			return list[i].Name < list[j].Name
		})
		if opts.Limit > 0 && len(list) > opts.Limit {
			list = list[:opts.Limit]
		}
		report.Groups = append(report.Groups, CategoryStaples{Category: c, Cards: list})
	}
	return report, nil
}
