package analysis

import (
	"sort"

	"github.com/Veraticus/deckstat/internal/model"
)

// DefaultTopSpells is how many spells CommanderCurve lists per bucket.
const DefaultTopSpells = 8

// CommanderCurve groups decks by their commander's mana value and compares
// the curves, ramp and draw counts, and the spells played at each bucket.
func CommanderCurve(decks []model.Deck, cats model.CategoryMap, topN int) (*CommanderCurveReport, error) {
	if err := requireDecks(decks); err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = DefaultTopSpells
	}

	groups := make(map[int][]model.Deck)
	for _, d := range decks {
		mv := int(d.CommanderManaValue)
		groups[mv] = append(groups[mv], d)
	}
	keys := make([]int, 0, len(groups))
	for mv := range groups {
		keys = append(keys, mv)
	}
	sort.Ints(keys)

	report := &CommanderCurveReport{DeckCount: len(decks)}
	for _, mv := range keys {
		report.Groups = append(report.Groups, commanderGroup(mv, groups[mv], cats, topN))
	}
	return report, nil
}

func commanderGroup(mv int, decks []model.Deck, cats model.CategoryMap, topN int) CommanderCurveGroup {
	g := CommanderCurveGroup{ManaValue: mv, DeckCount: len(decks)}

	var (
		curveSums  [model.MaxCurveBucket + 1]int
		avgs       []float64
		ramp, draw []float64
		lands      []float64
		commanders = make(map[string]bool)
	)
	for _, d := range decks {
		p := profile(d, cats)
		for b, n := range p.curve {
			curveSums[b] += n
		}
		avgs = append(avgs, p.avgManaValue())
		ramp = append(ramp, float64(p.categories[model.CategoryRamp]))
		draw = append(draw, float64(p.categories[model.CategoryDraw]))
		lands = append(lands, float64(p.lands))
		commanders[d.CommanderLabel()] = true
	}

	for b, sum := range curveSums {
		g.AvgCurve[b] = round(float64(sum)/float64(len(decks)), 1)
	}
	g.AvgManaValue = round(mean(avgs), 2)
	g.AvgRamp = round(mean(ramp), 1)
	g.AvgDraw = round(mean(draw), 1)
	g.AvgLands = round(mean(lands), 1)

	for name := range commanders {
		g.Commanders = append(g.Commanders, name)
	}
	sort.Strings(g.Commanders)

	for b := range g.TopSpells {
		counts, _ := deckPresence(decks, func(c *model.CardEntry) bool {
			return !c.IsLand() && c.CurveBucket() == b
		})
		g.TopSpells[b] = topCounts(counts, len(decks), topN)
	}
	return g
}
