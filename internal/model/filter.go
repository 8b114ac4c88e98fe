package model

// DeckFilter selects the decks an analysis runs over.
type DeckFilter struct {
	Colors             *ColorIdentity
	CommanderManaValue *int
	ColorMode          ColorMode
	Commander          string
	Tag                string
	BracketMin         int
	BracketMax         int
	Limit              int
}

// Matches applies the filter to a deck in memory.
func (f DeckFilter) Matches(d Deck) bool {
	if f.Colors != nil {
		mode := f.ColorMode
		if mode == "" {
			mode = ColorModeExact
		}
		if !mode.Matches(d.ColorIdentity, *f.Colors) {
			return false
		}
	}
	if f.BracketMin > 0 && d.Bracket < f.BracketMin {
		return false
	}
	if f.BracketMax > 0 && d.Bracket > f.BracketMax {
		return false
	}
	if f.CommanderManaValue != nil && int(d.CommanderManaValue) != *f.CommanderManaValue {
		return false
	}
	if f.Commander != "" && !d.HasCommander(f.Commander) {
		return false
	}
	if f.Tag != "" && d.Tag != f.Tag {
		return false
	}
	return true
}
