package analysis

import (
	"github.com/Veraticus/deckstat/internal/model"
)

const rampTopCards = 20

// Ramp profiles how decks accelerate their mana: the usual caller passes
// every deck whose commander shares one mana value.
func Ramp(decks []model.Deck, cats model.CategoryMap) (*RampReport, error) {
	if err := requireDecks(decks); err != nil {
		return nil, err
	}

	ramp := make([]int, 0, len(decks))
	lands := make([]float64, 0, len(decks))
	for _, d := range decks {
		p := profile(d, cats)
		ramp = append(ramp, p.categories[model.CategoryRamp])
		lands = append(lands, float64(p.lands))
	}

	counts, _ := deckPresence(decks, func(c *model.CardEntry) bool {
		return cats.Has(c.Name, model.CategoryRamp)
	})

	return &RampReport{
		DeckCount: len(decks),
		Ramp:      summarize(ramp),
		AvgLands:  round(mean(lands), 1),
		TopCards:  topCounts(counts, len(decks), rampTopCards),
	}, nil
}
