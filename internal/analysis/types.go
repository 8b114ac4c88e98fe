package analysis

import (
	"github.com/Veraticus/deckstat/internal/model"
)

// Range summarizes one per-deck quantity across a set of decks.
type Range struct {
	Avg float64
	Min int
	Max int
}

// StapleCard is one card and how many decks play it.
type StapleCard struct {
	Name        string
	TypeLine    string
	Categories  []model.Category
	Appearances int
	Percentage  float64
	ManaValue   float64
}

// CategoryStaples groups staples under a primary category.
type CategoryStaples struct {
	Category model.Category
	Cards    []StapleCard
}

// StaplesReport is the result of Staples.
type StaplesReport struct {
	Groups    []CategoryStaples
	DeckCount int
}

// CurveReport is the mana curve profile of a set of decks. Buckets are
// indexed by mana value; the last bucket holds 6 and above.
type CurveReport struct {
	Buckets      [model.MaxCurveBucket + 1]Range
	DeckCount    int
	AvgManaValue float64
}

// CategoryStat is the slot count for one category.
type CategoryStat struct {
	Category  model.Category
	Slots     Range
	DecksWith int
}

// CategoryReport is the result of Categories.
type CategoryReport struct {
	Stats     []CategoryStat
	DeckCount int
}

// CardShift is a card whose play rate differs between two brackets.
type CardShift struct {
	Name string
	// RateA and RateB are fractions of decks in 0..1.
	RateA float64
	RateB float64
}

// Diff is RateB minus RateA.
func (s CardShift) Diff() float64 {
	return s.RateB - s.RateA
}

// CompareReport is the result of CompareBrackets.
type CompareReport struct {
	MoreInA  []CardShift
	MoreInB  []CardShift
	BracketA int
	BracketB int
	DecksA   int
	DecksB   int
}

// CardCount is a card and the number of decks that play it.
type CardCount struct {
	Name       string
	Decks      int
	Percentage float64
}

// RampReport is the result of Ramp.
type RampReport struct {
	TopCards  []CardCount
	Ramp      Range
	DeckCount int
	AvgLands  float64
}

// CommanderCurveGroup aggregates decks whose commander shares a mana value.
type CommanderCurveGroup struct {
	Commanders   []string
	TopSpells    [model.MaxCurveBucket + 1][]CardCount
	AvgCurve     [model.MaxCurveBucket + 1]float64
	ManaValue    int
	DeckCount    int
	AvgManaValue float64
	AvgRamp      float64
	AvgDraw      float64
	AvgLands     float64
}

// CommanderCurveReport is the result of CommanderCurve.
type CommanderCurveReport struct {
	Groups    []CommanderCurveGroup
	DeckCount int
}
