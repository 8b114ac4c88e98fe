package analysis

import (
	"github.com/Veraticus/deckstat/internal/model"
)

// Curve profiles the non-land mana curve, weighted by quantity.
func Curve(decks []model.Deck) (*CurveReport, error) {
	if err := requireDecks(decks); err != nil {
		return nil, err
	}

	var perBucket [model.MaxCurveBucket + 1][]int
	avgs := make([]float64, 0, len(decks))
	for _, d := range decks {
		p := profile(d, nil)
		for b, n := range p.curve {
			perBucket[b] = append(perBucket[b], n)
		}
		avgs = append(avgs, p.avgManaValue())
	}

	report := &CurveReport{DeckCount: len(decks), AvgManaValue: round(mean(avgs), 2)}
	for b, values := range perBucket {
		report.Buckets[b] = summarize(values)
	}
	return report, nil
}
