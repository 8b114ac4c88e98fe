package cooccur

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/Veraticus/deckstat/internal/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deck(names ...string) model.Deck {
	d := model.Deck{Commanders: []model.Commander{{Name: "Commander", Resolved: true}}}
	for _, n := range names {
		d.Entries = append(d.Entries, model.DeckEntry{
			Card:     &model.CardEntry{Name: n},
			RawName:  n,
			Board:    model.BoardMain,
			Quantity: 1,
		})
	}
	return d
}

// signetDecks: Sol Ring in 5 decks, Arcane Signet in 3, both together in 2.
func signetDecks() []model.Deck {
	return []model.Deck{
		deck("Sol Ring", "Arcane Signet", "X1"),
		deck("Sol Ring", "Arcane Signet", "X2"),
		deck("Sol Ring", "A3"),
		deck("Sol Ring", "A4"),
		deck("Sol Ring", "A5"),
		deck("Arcane Signet", "A6"),
	}
}

func TestDetectPairThreshold(t *testing.T) {
	res := Detect(signetDecks(), Options{Threshold: 0.6})
	require.Len(t, res.Packages, 1)
	p := res.Packages[0]
	assert.Equal(t, []string{"Arcane Signet", "Sol Ring"}, p.Members)
	assert.Equal(t, []int{3, 5}, p.MemberCounts)
	assert.Equal(t, 2, p.Support)
	assert.Equal(t, 6, p.Union)
	assert.InDelta(t, 2.0/3.0, p.Confidence, 1e-9)

	res = Detect(signetDecks(), Options{Threshold: 0.7})
	assert.Empty(t, res.Packages)
}

func TestDetectThresholdIsInclusive(t *testing.T) {
	res := Detect(signetDecks(), Options{Threshold: 2.0 / 3.0})
	assert.Len(t, res.Packages, 1)
}

func TestDetectIsSymmetricAndOrderIndependent(t *testing.T) {
	decks := signetDecks()
	reversed := make([]model.Deck, 0, len(decks))
	for i := len(decks) - 1; i >= 0; i-- {
		d := decks[i]
		entries := append([]model.DeckEntry(nil), d.Entries...)
		sort.Slice(entries, func(a, b int) bool { return entries[a].RawName > entries[b].RawName })
		d.Entries = entries
		reversed = append(reversed, d)
	}

	a := Detect(decks, Options{Threshold: 0.5})
	b := Detect(reversed, Options{Threshold: 0.5})
	if diff := cmp.Diff(a.Packages, b.Packages); diff != "" {
		t.Errorf("input order changed packages (-want +got):\n%s", diff)
	}
}

func TestDetectDegenerateInputs(t *testing.T) {
	tests := []struct {
		name  string
		decks []model.Deck
		opts  Options
	}{
		{"zero threshold", signetDecks(), Options{Threshold: 0}},
		{"negative threshold", signetDecks(), Options{Threshold: -0.5}},
		{"threshold above one", signetDecks(), Options{Threshold: 1.01}},
		{"size one", signetDecks(), Options{Threshold: 0.5, Size: 1}},
		{"no decks", nil, Options{Threshold: 0.5}},
		{"one deck", signetDecks()[:1], Options{Threshold: 0.5}},
		{"decks too small to contribute", []model.Deck{deck("A"), deck("A"), deck("A", "B")}, Options{Threshold: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, Detect(tt.decks, tt.opts).Packages)
		})
	}
}

func TestDetectIgnoresQuantitySideboardAndUnresolved(t *testing.T) {
	decks := []model.Deck{deck("A", "B"), deck("A", "B"), deck("A", "C")}
	decks[0].Entries[0].Quantity = 7
	decks[2].Entries = append(decks[2].Entries,
		model.DeckEntry{Card: &model.CardEntry{Name: "B"}, RawName: "B", Board: model.BoardSide, Quantity: 1},
		model.DeckEntry{RawName: "B", Board: model.BoardMain, Quantity: 1},
	)

	res := Detect(decks, Options{Threshold: 1, Universal: UniversalInclude})
	require.Len(t, res.Packages, 1)
	assert.Equal(t, []string{"A", "B"}, res.Packages[0].Members)
	assert.Equal(t, []int{3, 2}, res.Packages[0].MemberCounts)
	assert.Equal(t, 2, res.Packages[0].Support)
}

func TestDetectUniversalPolicy(t *testing.T) {
	decks := []model.Deck{
		deck("Command Tower", "Rhystic Study", "Mystic Remora"),
		deck("Command Tower", "Rhystic Study", "Mystic Remora"),
		deck("Command Tower", "Rhystic Study", "Cultivate"),
		deck("Command Tower", "Cultivate", "Kodama's Reach"),
	}

	flagged := Detect(decks, Options{Threshold: 1})
	assert.Equal(t, []string{"Command Tower"}, flagged.Universal)
	var sawFlag bool
	for _, p := range flagged.Packages {
		for _, m := range p.Members {
			if m == "Command Tower" {
				sawFlag = true
				assert.Equal(t, []string{"Command Tower"}, p.Universal)
				assert.InDelta(t, 1.0, p.Confidence, 1e-9, "universal card pairs always score 1")
			}
		}
	}
	assert.True(t, sawFlag)

	excluded := Detect(decks, Options{Threshold: 1, Universal: UniversalExclude})
	assert.Equal(t, []string{"Command Tower"}, excluded.Universal)
	for _, p := range excluded.Packages {
		assert.NotContains(t, p.Members, "Command Tower")
		assert.Empty(t, p.Universal)
	}
	require.NotEmpty(t, excluded.Packages)
	assert.Equal(t, []string{"Mystic Remora", "Rhystic Study"}, excluded.Packages[0].Members)

	stopped := Detect(decks, Options{Threshold: 1, StopList: []string{"command tower"}})
	for _, p := range stopped.Packages {
		assert.NotContains(t, p.Members, "Command Tower")
	}
	assert.Empty(t, stopped.Universal)
}

func TestDetectOrdering(t *testing.T) {
	decks := []model.Deck{
		deck("A", "B", "C", "D"),
		deck("A", "B", "C", "D"),
		deck("A", "B", "C"),
		deck("C", "D", "E"),
		deck("E", "F"),
		deck("E", "F"),
	}
	res := Detect(decks, Options{Threshold: 0.5})
	require.NotEmpty(t, res.Packages)

	for i := 1; i < len(res.Packages); i++ {
		prev, cur := res.Packages[i-1], res.Packages[i]
		if prev.Confidence != cur.Confidence {
			assert.Greater(t, prev.Confidence, cur.Confidence)
			continue
		}
		if prev.Support != cur.Support {
			assert.Greater(t, prev.Support, cur.Support)
			continue
		}
		assert.True(t, lessNames(prev.Members, cur.Members))
	}

	again := Detect(decks, Options{Threshold: 0.5})
	if diff := cmp.Diff(res, again); diff != "" {
		t.Errorf("repeated run differs:\n%s", diff)
	}

	limited := Detect(decks, Options{Threshold: 0.5, Limit: 2})
	assert.Len(t, limited.Packages, 2)
	assert.Equal(t, res.Packages[:2], limited.Packages)
}

func TestDetectMinFrequency(t *testing.T) {
	decks := []model.Deck{
		deck("A", "B", "C", "D"),
		deck("A", "B", "C", "D"),
		deck("A", "B"),
		deck("A", "B"),
	}
	res := Detect(decks, Options{Threshold: 1, MinFrequency: 0.75, Universal: UniversalInclude})
	require.Len(t, res.Packages, 1)
	assert.Equal(t, []string{"A", "B"}, res.Packages[0].Members)
	assert.Equal(t, 2, res.Candidates)
}

func TestDetectTriples(t *testing.T) {
	decks := []model.Deck{
		deck("Thassa's Oracle", "Demonic Consultation", "Tainted Pact"),
		deck("Thassa's Oracle", "Demonic Consultation", "Tainted Pact"),
		deck("Thassa's Oracle", "Demonic Consultation", "Filler"),
		deck("Filler", "Other"),
	}
	res := Detect(decks, Options{Threshold: 0.6, Size: 3, Universal: UniversalInclude})
	require.Len(t, res.Packages, 1)
	p := res.Packages[0]
	assert.Equal(t, []string{"Demonic Consultation", "Tainted Pact", "Thassa's Oracle"}, p.Members)
	assert.Equal(t, 2, p.Support)
	assert.Equal(t, 3, p.Size())
	assert.InDelta(t, 1.0, p.Confidence, 1e-9)
}

func TestDetectTripleNeedsQualifyingPairs(t *testing.T) {
	// A and B: 10 decks each, 3 together. C: 2 decks, both with A and B.
	var decks []model.Deck
	for range 2 {
		decks = append(decks, deck("A", "B", "C"))
	}
	decks = append(decks, deck("A", "B"))
	for range 7 {
		decks = append(decks, deck("A"), deck("B"))
	}

	pairs := Detect(decks, Options{Threshold: 0.9, Universal: UniversalInclude})
	got := make([][]string, 0, len(pairs.Packages))
	for _, p := range pairs.Packages {
		got = append(got, p.Members)
	}
	assert.ElementsMatch(t, [][]string{{"A", "C"}, {"B", "C"}}, got)

	triples := Detect(decks, Options{Threshold: 0.9, Size: 3, Universal: UniversalInclude})
	assert.Empty(t, triples.Packages, "ABC scores 1.0 on its own but AB does not qualify")
}

// bruteForce enumerates every k-set of cards and applies the qualification
// rule directly: own support and confidence, plus every (k-1)-subset
// qualifying.
func bruteForce(decks []model.Deck, opts Options) []model.Package {
	opts = opts.withDefaults()
	idx := buildIndex(qualifyingSets(decks, map[string]bool{}))
	n := len(idx.names)

	support := func(members []int) []int {
		out := idx.presence[members[0]]
		for _, m := range members[1:] {
			out = intersect(out, idx.presence[m])
		}
		return out
	}
	own := func(members []int) bool {
		s := len(support(members))
		return s >= opts.MinSupport && float64(s) >= opts.Threshold*float64(idx.rarest(members))-epsilon
	}

	qualified := map[string]bool{}
	var level [][]int
	var combos func(start int, cur []int, k int)
	combos = func(start int, cur []int, k int) {
		if len(cur) == k {
			level = append(level, append([]int(nil), cur...))
			return
		}
		for i := start; i < n; i++ {
			combos(i+1, append(cur, i), k)
		}
	}

	var final [][]int
	for k := 2; k <= opts.Size; k++ {
		level = nil
		combos(0, nil, k)
		var keep [][]int
		for _, set := range level {
			if !own(set) {
				continue
			}
			ok := true
			if k > 2 {
				for skip := range set {
					sub := append(append([]int(nil), set[:skip]...), set[skip+1:]...)
					if !qualified[key(sub)] {
						ok = false
						break
					}
				}
			}
			if ok {
				keep = append(keep, set)
			}
		}
		for _, set := range keep {
			qualified[key(set)] = true
		}
		final = keep
	}

	d := &detector{idx: idx, opts: opts}
	out := make([]model.Package, 0, len(final))
	for _, set := range final {
		out = append(out, d.toPackage(itemset{members: set, decks: support(set)}, nil))
	}
	sortPackages(out)
	return out
}

func TestDetectMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pool := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}

	for trial := 0; trial < 20; trial++ {
		var decks []model.Deck
		for i := 0; i < 12; i++ {
			var names []string
			for _, n := range pool {
				if rng.Float64() < 0.45 {
					names = append(names, n)
				}
			}
			decks = append(decks, deck(names...))
		}

		for _, size := range []int{2, 3, 4} {
			for _, tau := range []float64{0.5, 0.75, 1} {
				opts := Options{Threshold: tau, Size: size, Universal: UniversalInclude}
				got := Detect(decks, opts).Packages
				want := bruteForce(decks, opts)
				if diff := cmp.Diff(want, got); diff != "" {
					t.Fatalf("trial %d size %d tau %.2f (-want +got):\n%s", trial, size, tau, diff)
				}
			}
		}
	}
}
