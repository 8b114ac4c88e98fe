// Package cooccur finds packages: sets of cards that recur together across
// a filtered set of decks.
//
// Confidence of a set is the number of decks holding every member divided
// by the deck count of its rarest member. A pair qualifies when its
// confidence reaches the threshold and its support reaches MinSupport.
// Larger sets are grown level by level from qualifying sets only: a k-set
// is a candidate when all of its (k-1)-subsets qualify, and qualifies when
// its own confidence and support clear the same bars.
package cooccur

import (
	"math"
	"sort"
	"strings"

	"github.com/Veraticus/deckstat/internal/model"
)

const epsilon = 1e-9

// UniversalPolicy controls cards present in every contributing deck.
type UniversalPolicy string

const (
	// UniversalFlag keeps universal cards and lists them on each package.
	UniversalFlag UniversalPolicy = "flag"
	// UniversalExclude drops universal cards before counting.
	UniversalExclude UniversalPolicy = "exclude"
	// UniversalInclude keeps them without flagging.
	UniversalInclude UniversalPolicy = "include"
)

// AutoIncludes are staples nearly every Commander deck runs.
var AutoIncludes = []string{"Sol Ring", "Command Tower", "Arcane Signet"}

// Options configures Detect.
type Options struct {
	Universal    UniversalPolicy
	StopList     []string
	Threshold    float64
	MinFrequency float64
	Size         int
	MinSupport   int
	Limit        int
}

// Result is the outcome of a detection run.
type Result struct {
	Packages []model.Package
	// Universal lists cards found in every contributing deck.
	Universal []string
	// Decks is the number of decks that contributed at least two cards.
	Decks int
	// Candidates is the number of distinct cards considered for pairing.
	Candidates int
}

func (o Options) withDefaults() Options {
	if o.Size == 0 {
		o.Size = 2
	}
	if o.MinSupport <= 0 {
		o.MinSupport = 2
	}
	if o.Universal == "" {
		o.Universal = UniversalFlag
	}
	return o
}

// Detect runs package detection. Invalid thresholds, sizes below two and
// fewer than two contributing decks yield an empty result.
func Detect(decks []model.Deck, opts Options) Result {
	opts = opts.withDefaults()
	if opts.Threshold <= 0 || opts.Threshold > 1 || opts.Size < 2 || len(decks) < 2 {
		return Result{}
	}

	stop := make(map[string]bool, len(opts.StopList))
	for _, name := range opts.StopList {
		stop[strings.ToLower(strings.TrimSpace(name))] = true
	}

	sets := qualifyingSets(decks, stop)
	idx := buildIndex(sets)
	universal := idx.universal()

	if opts.Universal == UniversalExclude && len(universal) > 0 {
		drop := make(map[string]bool, len(universal))
		for _, name := range universal {
			drop[name] = true
		}
		for i, set := range sets {
			sets[i] = without(set, drop)
		}
		idx = buildIndex(sets)
	}

	result := Result{Universal: universal, Decks: idx.decks}
	if idx.decks < 2 {
		return result
	}

	minCount := opts.MinSupport
	if opts.MinFrequency > 0 {
		byFreq := int(math.Ceil(opts.MinFrequency*float64(idx.decks) - epsilon))
		minCount = max(minCount, byFreq)
	}

	d := &detector{idx: idx, opts: opts, minCount: minCount}
	level := d.pairs()
	for k := 3; k <= opts.Size && len(level) > 0; k++ {
		level = d.extend(level)
	}
	result.Candidates = d.candidates

	flag := map[int]bool{}
	if opts.Universal == UniversalFlag {
		for _, name := range universal {
			if id, ok := idx.ids[name]; ok {
				flag[id] = true
			}
		}
	}

	result.Packages = make([]model.Package, 0, len(level))
	for _, set := range level {
		result.Packages = append(result.Packages, d.toPackage(set, flag))
	}
	sortPackages(result.Packages)
	if opts.Limit > 0 && len(result.Packages) > opts.Limit {
		result.Packages = result.Packages[:opts.Limit]
	}
	return result
}

// qualifyingSets returns, per deck, the sorted distinct resolved mainboard
// card names that are not stop-listed.
func qualifyingSets(decks []model.Deck, stop map[string]bool) [][]string {
	sets := make([][]string, 0, len(decks))
	for _, deck := range decks {
		seen := make(map[string]bool)
		var names []string
		for _, e := range deck.Entries {
			if e.Board != model.BoardMain || e.Card == nil {
				continue
			}
			name := e.Card.Name
			if seen[name] || stop[strings.ToLower(name)] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
		sort.Strings(names)
		sets = append(sets, names)
	}
	return sets
}

func without(names []string, drop map[string]bool) []string {
	out := names[:0:0]
	for _, n := range names {
		if !drop[n] {
			out = append(out, n)
		}
	}
	return out
}

type itemset struct {
	members []int // ascending card ids
	decks   []int // ascending deck positions holding every member
}

type detector struct {
	idx        *index
	opts       Options
	minCount   int
	candidates int
}

// qualifies applies the support and confidence bars.
func (d *detector) qualifies(members []int, support int) bool {
	if support < d.opts.MinSupport {
		return false
	}
	rarest := d.idx.rarest(members)
	return float64(support) >= d.opts.Threshold*float64(rarest)-epsilon
}

// pairs counts co-occurrences deck by deck, so only pairs that share at
// least one deck are ever materialized.
func (d *detector) pairs() []itemset {
	var active []int
	for id, decks := range d.idx.presence {
		if len(decks) >= d.minCount {
			active = append(active, id)
		}
	}
	d.candidates = len(active)
	keep := make(map[int]bool, len(active))
	for _, id := range active {
		keep[id] = true
	}

	counts := make(map[[2]int]int)
	for _, cards := range d.idx.deckCards {
		var ids []int
		for _, id := range cards {
			if keep[id] {
				ids = append(ids, id)
			}
		}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				counts[[2]int{ids[i], ids[j]}]++
			}
		}
	}

	var out []itemset
	for pair, support := range counts {
		members := []int{pair[0], pair[1]}
		if !d.qualifies(members, support) {
			continue
		}
		out = append(out, itemset{
			members: members,
			decks:   intersect(d.idx.presence[pair[0]], d.idx.presence[pair[1]]),
		})
	}
	sortItemsets(out)
	return out
}

// extend joins qualifying (k-1)-sets that share a (k-2)-prefix, prunes
// candidates with a non-qualifying subset, and keeps the qualifying k-sets.
func (d *detector) extend(level []itemset) []itemset {
	known := make(map[string]bool, len(level))
	for _, s := range level {
		known[key(s.members)] = true
	}

	var out []itemset
	for i := 0; i < len(level); i++ {
		a := level[i]
		prefix := a.members[:len(a.members)-1]
		for j := i + 1; j < len(level); j++ {
			b := level[j]
			if !samePrefix(prefix, b.members) {
				break
			}
			last := b.members[len(b.members)-1]
			members := append(append([]int(nil), a.members...), last)
			if !allSubsetsKnown(members, known) {
				continue
			}
			decks := intersect(a.decks, d.idx.presence[last])
			if !d.qualifies(members, len(decks)) {
				continue
			}
			out = append(out, itemset{members: members, decks: decks})
		}
	}
	sortItemsets(out)
	return out
}

func (d *detector) toPackage(s itemset, flag map[int]bool) model.Package {
	p := model.Package{
		Members:      make([]string, len(s.members)),
		MemberCounts: make([]int, len(s.members)),
		Support:      len(s.decks),
	}

	names := make([]string, len(s.members))
	for i, id := range s.members {
		names[i] = d.idx.names[id]
	}
	order := make([]int, len(s.members))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return names[order[a]] < names[order[b]] })

	lists := make([][]int, 0, len(s.members))
	for i, k := range order {
		id := s.members[k]
		p.Members[i] = names[k]
		p.MemberCounts[i] = len(d.idx.presence[id])
		lists = append(lists, d.idx.presence[id])
		if flag[id] {
			p.Universal = append(p.Universal, names[k])
		}
	}
	p.Union = unionSize(lists)
	p.Confidence = float64(p.Support) / float64(d.idx.rarest(s.members))
	return p
}

func sortPackages(pkgs []model.Package) {
	sort.SliceStable(pkgs, func(i, j int) bool {
		a, b := pkgs[i], pkgs[j]
		// Compare support/rarest exactly by cross-multiplying.
		ra, rb := a.Support*rarestOf(b), b.Support*rarestOf(a)
		if ra != rb {
			return ra > rb
		}
		if a.Support != b.Support {
			return a.Support > b.Support
		}
		return lessNames(a.Members, b.Members)
	})
}

func rarestOf(p model.Package) int {
	m := 0
	for i, c := range p.MemberCounts {
		if i == 0 || c < m {
			m = c
		}
	}
	return m
}

func lessNames(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
