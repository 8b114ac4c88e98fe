package model

import "strings"

// DoubleFacedSeparator joins the face names of multi-faced cards.
const DoubleFacedSeparator = " // "

// CardEntry is the canonical identity of a card as loaded from the catalog.
// Values are never mutated after the catalog is built.
type CardEntry struct {
	ID            string
	Name          string
	ManaCost      string
	TypeLine      string
	OracleText    string
	Layout        string
	Keywords      []string
	ManaValue     float64
	ColorIdentity ColorIdentity
}

// FrontFace returns the name of the first face, or the full name for
// single-faced cards.
func (c CardEntry) FrontFace() string {
	if i := strings.Index(c.Name, DoubleFacedSeparator); i >= 0 {
		return c.Name[:i]
	}
	return c.Name
}

// PrimaryType returns the type line of the front face.
func (c CardEntry) PrimaryType() string {
	if i := strings.Index(c.TypeLine, "//"); i >= 0 {
		return strings.TrimSpace(c.TypeLine[:i])
	}
	return c.TypeLine
}

// IsLand reports whether the front face is a land.
func (c CardEntry) IsLand() bool {
	return strings.Contains(c.PrimaryType(), "Land")
}

// IsCreature reports whether any face is a creature.
func (c CardEntry) IsCreature() bool {
	return strings.Contains(c.TypeLine, "Creature")
}

// IsInstantOrSorcery reports whether any face is an instant or sorcery.
func (c CardEntry) IsInstantOrSorcery() bool {
	return strings.Contains(c.TypeLine, "Instant") || strings.Contains(c.TypeLine, "Sorcery")
}

// CurveBucket returns the mana curve slot 0..6 where 6 means "6+".
func (c CardEntry) CurveBucket() int {
	b := int(c.ManaValue)
	if b > MaxCurveBucket {
		return MaxCurveBucket
	}
	if b < 0 {
		return 0
	}
	return b
}

// MaxCurveBucket is the last curve slot, holding everything at 6 or more.
const MaxCurveBucket = 6
