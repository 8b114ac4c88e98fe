package cooccur

import (
	"sort"
	"strconv"
	"strings"
)

// index is the presence index: card id -> ascending deck positions. Card
// ids follow name order so every traversal is deterministic.
type index struct {
	ids       map[string]int
	names     []string
	presence  [][]int
	deckCards [][]int
	decks     int
}

// buildIndex indexes decks holding at least two cards; the rest contribute
// nothing.
func buildIndex(sets [][]string) *index {
	var all []string
	seen := make(map[string]bool)
	for _, set := range sets {
		if len(set) < 2 {
			continue
		}
		for _, name := range set {
			if !seen[name] {
				seen[name] = true
				all = append(all, name)
			}
		}
	}
	sort.Strings(all)

	idx := &index{
		ids:      make(map[string]int, len(all)),
		names:    all,
		presence: make([][]int, len(all)),
	}
	for i, name := range all {
		idx.ids[name] = i
	}

	for _, set := range sets {
		if len(set) < 2 {
			continue
		}
		pos := idx.decks
		idx.decks++
		cards := make([]int, 0, len(set))
		for _, name := range set {
			id := idx.ids[name]
			idx.presence[id] = append(idx.presence[id], pos)
			cards = append(cards, id)
		}
		// Names are sorted, so ids are ascending.
		idx.deckCards = append(idx.deckCards, cards)
	}
	return idx
}

// universal returns cards present in every contributing deck.
func (idx *index) universal() []string {
	if idx.decks == 0 {
		return nil
	}
	var out []string
	for id, decks := range idx.presence {
		if len(decks) == idx.decks {
			out = append(out, idx.names[id])
		}
	}
	return out
}

// rarest is the smallest deck count among members.
func (idx *index) rarest(members []int) int {
	m := 0
	for i, id := range members {
		if c := len(idx.presence[id]); i == 0 || c < m {
			m = c
		}
	}
	return m
}

func intersect(a, b []int) []int {
	out := make([]int, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

func unionSize(lists [][]int) int {
	seen := make(map[int]bool)
	for _, l := range lists {
		for _, d := range l {
			seen[d] = true
		}
	}
	return len(seen)
}

func key(members []int) string {
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = strconv.Itoa(m)
	}
	return strings.Join(parts, ",")
}

func samePrefix(prefix, members []int) bool {
	for i, p := range prefix {
		if members[i] != p {
			return false
		}
	}
	return true
}

// allSubsetsKnown checks every subset missing one member, skipping the two
// that produced the join.
func allSubsetsKnown(members []int, known map[string]bool) bool {
	if len(members) <= 2 {
		return true
	}
	sub := make([]int, 0, len(members)-1)
	for skip := 0; skip < len(members)-2; skip++ {
		sub = sub[:0]
		for i, m := range members {
			if i != skip {
				sub = append(sub, m)
			}
		}
		if !known[key(sub)] {
			return false
		}
	}
	return true
}

func sortItemsets(sets []itemset) {
	sort.Slice(sets, func(i, j int) bool {
		a, b := sets[i].members, sets[j].members
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})
}
