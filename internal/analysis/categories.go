package analysis

import (
	"github.com/Veraticus/deckstat/internal/categorize"
	"github.com/Veraticus/deckstat/internal/model"
)

// Categories reports how many slots decks give each category. A card with
// several labels counts toward each of them. Min, Max and Avg are taken over
// the decks that play at least one card of the category.
func Categories(decks []model.Deck, cats model.CategoryMap) (*CategoryReport, error) {
	if err := requireDecks(decks); err != nil {
		return nil, err
	}

	values := make(map[model.Category][]int)
	for _, d := range decks {
		for c, n := range profile(d, cats).categories {
			values[c] = append(values[c], n)
		}
	}

	present := make([]model.Category, 0, len(values))
	for c := range values {
		present = append(present, c)
	}

	report := &CategoryReport{DeckCount: len(decks)}
	for _, c := range categorize.Sort(present) {
		report.Stats = append(report.Stats, CategoryStat{
			Category:  c,
			Slots:     summarize(values[c]),
			DecksWith: len(values[c]),
		})
	}
	return report, nil
}
