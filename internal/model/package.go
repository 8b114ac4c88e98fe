package model

// Package is a set of cards that co-occur across decks. Packages are
// computed per query and never stored.
type Package struct {
	Members      []string
	MemberCounts []int
	Universal    []string
	Support      int
	Union        int
	Confidence   float64
}

// Size returns the number of member cards.
func (p Package) Size() int {
	return len(p.Members)
}
