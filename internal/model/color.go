package model

import (
	"fmt"
	"strings"
)

// ColorIdentity is a set of the five mana colors stored as a bitmask.
type ColorIdentity uint8

// Mana colors in WUBRG order.
const (
	White ColorIdentity = 1 << iota
	Blue
	Black
	Red
	Green
)

// Colorless is the empty identity.
const Colorless ColorIdentity = 0

// AllColors is the five-color identity.
const AllColors = White | Blue | Black | Red | Green

var colorOrder = []struct {
	color  ColorIdentity
	symbol byte
}{
	{White, 'W'},
	{Blue, 'U'},
	{Black, 'B'},
	{Red, 'R'},
	{Green, 'G'},
}

// ParseColorIdentity parses symbols like "urg" or "WUBRG" in any order.
// "C" and the empty string both mean colorless.
func ParseColorIdentity(s string) (ColorIdentity, error) {
	var ci ColorIdentity
	for _, r := range strings.ToUpper(strings.TrimSpace(s)) {
		switch r {
		case 'W':
			ci |= White
		case 'U':
			ci |= Blue
		case 'B':
			ci |= Black
		case 'R':
			ci |= Red
		case 'G':
			ci |= Green
		case 'C', ' ', ',':
		default:
			return 0, fmt.Errorf("invalid color symbol %q in %q", r, s)
		}
	}
	return ci, nil
}

// ColorIdentityFromSymbols builds an identity from Scryfall-style symbol
// lists such as ["U", "R"]. Unknown symbols are ignored.
func ColorIdentityFromSymbols(symbols []string) ColorIdentity {
	var ci ColorIdentity
	for _, s := range symbols {
		if parsed, err := ParseColorIdentity(s); err == nil {
			ci |= parsed
		}
	}
	return ci
}

// String returns the WUBRG-ordered symbol key, "" for colorless.
func (c ColorIdentity) String() string {
	var b strings.Builder
	for _, o := range colorOrder {
		if c&o.color != 0 {
			b.WriteByte(o.symbol)
		}
	}
	return b.String()
}

// Symbols returns the identity as a list of single-letter symbols.
func (c ColorIdentity) Symbols() []string {
	key := c.String()
	out := make([]string, 0, len(key))
	for i := 0; i < len(key); i++ {
		out = append(out, key[i:i+1])
	}
	return out
}

// Union returns the combined identity.
func (c ColorIdentity) Union(other ColorIdentity) ColorIdentity {
	return c | other
}

// Contains reports whether every color of other is in c.
func (c ColorIdentity) Contains(other ColorIdentity) bool {
	return c&other == other
}

// SubsetOf reports whether every color of c is in other.
func (c ColorIdentity) SubsetOf(other ColorIdentity) bool {
	return c&^other == 0
}

// Count returns the number of colors.
func (c ColorIdentity) Count() int {
	n := 0
	for _, o := range colorOrder {
		if c&o.color != 0 {
			n++
		}
	}
	return n
}

var colorNames = map[ColorIdentity]string{
	Colorless:                          "Colorless",
	White:                              "White",
	Blue:                               "Blue",
	Black:                              "Black",
	Red:                                "Red",
	Green:                              "Green",
	White | Blue:                       "Azorius",
	Blue | Black:                       "Dimir",
	Black | Red:                        "Rakdos",
	Red | Green:                        "Gruul",
	Green | White:                      "Selesnya",
	White | Black:                      "Orzhov",
	Blue | Red:                         "Izzet",
	Black | Green:                      "Golgari",
	Red | White:                        "Boros",
	Green | Blue:                       "Simic",
	White | Blue | Black:               "Esper",
	Blue | Black | Red:                 "Grixis",
	Black | Red | Green:                "Jund",
	Red | Green | White:                "Naya",
	Green | White | Blue:               "Bant",
	White | Black | Green:              "Abzan",
	Blue | Red | White:                 "Jeskai",
	Black | Green | Blue:               "Sultai",
	Red | White | Black:                "Mardu",
	Green | Blue | Red:                 "Temur",
	Blue | Black | Red | Green:         "Glint-Eye",
	White | Black | Red | Green:        "Dune",
	White | Blue | Black | Green:       "Witch",
	White | Blue | Red | Green:         "Ink",
	White | Blue | Black | Red:         "Yore",
	White | Blue | Black | Red | Green: "Five-Color",
}

// Name returns the common guild/shard/wedge name for the identity.
func (c ColorIdentity) Name() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return c.String()
}

// ColorMode selects how a deck's identity is compared against a filter.
type ColorMode string

const (
	// ColorModeExact matches decks with exactly the filter colors.
	ColorModeExact ColorMode = "exact"
	// ColorModeContains matches decks containing all filter colors.
	ColorModeContains ColorMode = "contains"
	// ColorModeSubset matches decks using only filter colors.
	ColorModeSubset ColorMode = "subset"
)

// Matches reports whether a deck identity satisfies the filter identity.
func (m ColorMode) Matches(deck, filter ColorIdentity) bool {
	switch m {
	case ColorModeContains:
		return deck.Contains(filter)
	case ColorModeSubset:
		return deck.SubsetOf(filter)
	default:
		return deck == filter
	}
}
