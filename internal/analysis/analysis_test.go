package analysis

import (
	"testing"

	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/model"
	"github.com/Veraticus/deckstat/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDecks returns two Kinnan decks (brackets 2 and 3) and one Krenko deck
// (bracket 3).
func testDecks(t *testing.T) []model.Deck {
	t.Helper()
	kinnanA := testutil.NewDeck(t, "kinnan-a").
		WithCommander("Kinnan, Bonder Prodigy").
		WithBracket(2).
		WithCards("Sol Ring", "Arcane Signet", "Llanowar Elves", "Cultivate", "Rhystic Study", "Grizzly Bears").
		WithCard("Forest", 10).
		WithCard("Island", 5).
		WithUnresolved("Mystery Card").
		WithSideboard("Counterspell").
		Build()
	kinnanB := testutil.NewDeck(t, "kinnan-b").
		WithCommander("Kinnan, Bonder Prodigy").
		WithBracket(3).
		WithCards("Sol Ring", "Llanowar Elves", "Counterspell", "Craterhoof Behemoth").
		WithCard("Forest", 12).
		Build()
	krenko := testutil.NewDeck(t, "krenko").
		WithCommander("Krenko, Mob Boss").
		WithBracket(3).
		WithCards("Sol Ring", "Lightning Bolt", "Goblin Matron").
		WithCard("Mountain", 20).
		Build()
	return []model.Deck{*kinnanA, *kinnanB, *krenko}
}

func testCategories() model.CategoryMap {
	return model.CategoryMap{
		"Sol Ring":            {model.CategoryRamp},
		"Arcane Signet":       {model.CategoryRamp},
		"Llanowar Elves":      {model.CategoryRamp},
		"Cultivate":           {model.CategoryRamp},
		"Rhystic Study":       {model.CategoryDraw},
		"Counterspell":        {model.CategoryCounterspell},
		"Craterhoof Behemoth": {model.CategoryOther},
		"Grizzly Bears":       {model.CategoryOther},
		"Lightning Bolt":      {model.CategoryRemoval},
		"Goblin Matron":       {model.CategoryTutor},
		"Forest":              {model.CategoryLand},
		"Island":              {model.CategoryLand},
		"Mountain":            {model.CategoryLand},
	}
}

func TestEmptyInputReturnsErrNoDecks(t *testing.T) {
	cats := testCategories()
	_, err := Staples(nil, cats, StapleOptions{})
	require.ErrorIs(t, err, common.ErrNoDecks)
	_, err = Curve(nil)
	require.ErrorIs(t, err, common.ErrNoDecks)
	_, err = Categories(nil, cats)
	require.ErrorIs(t, err, common.ErrNoDecks)
	_, err = Ramp(nil, cats)
	require.ErrorIs(t, err, common.ErrNoDecks)
	_, err = CommanderCurve(nil, cats, 0)
	require.ErrorIs(t, err, common.ErrNoDecks)
	_, err = CompareBrackets(testDecks(t), nil, CompareOptions{BracketA: 2, BracketB: 4})
	require.ErrorIs(t, err, common.ErrNoDecks)
	assert.ErrorContains(t, err, "bracket 4: 0")
}

func TestStaples(t *testing.T) {
	report, err := Staples(testDecks(t), testCategories(), StapleOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, report.DeckCount)

	type row struct {
		Name        string
		Appearances int
		Percentage  float64
	}
	got := make(map[model.Category][]row)
	var order []model.Category
	for _, g := range report.Groups {
		order = append(order, g.Category)
		for _, c := range g.Cards {
			got[g.Category] = append(got[g.Category], row{c.Name, c.Appearances, c.Percentage})
		}
	}

	assert.Equal(t, []model.Category{model.CategoryRamp, model.CategoryLand}, order)
	want := map[model.Category][]row{
		model.CategoryRamp: {
			{"Sol Ring", 3, 100},
			{"Llanowar Elves", 2, 66.7},
		},
		model.CategoryLand: {
			{"Forest", 2, 66.7},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Staples() mismatch (-want +got):\n%s", diff)
	}
}

func TestStaplesLimitAndThreshold(t *testing.T) {
	report, err := Staples(testDecks(t), testCategories(), StapleOptions{MinAppearances: 3, Limit: 1})
	require.NoError(t, err)
	require.Len(t, report.Groups, 1)
	require.Len(t, report.Groups[0].Cards, 1)
	assert.Equal(t, "Sol Ring", report.Groups[0].Cards[0].Name)

	report, err = Staples(testDecks(t), testCategories(), StapleOptions{MinAppearances: 1, Limit: 2})
	require.NoError(t, err)
	for _, g := range report.Groups {
		assert.LessOrEqual(t, len(g.Cards), 2, "category %s", g.Category)
	}
}

func TestStaplesFallsBackForUnknownCards(t *testing.T) {
	report, err := Staples(testDecks(t), model.CategoryMap{}, StapleOptions{})
	require.NoError(t, err)

	groups := make(map[model.Category]int)
	for _, g := range report.Groups {
		groups[g.Category] = len(g.Cards)
	}
	assert.Equal(t, map[model.Category]int{model.CategoryOther: 2, model.CategoryLand: 1}, groups)
}

func TestCurve(t *testing.T) {
	report, err := Curve(testDecks(t))
	require.NoError(t, err)

	want := &CurveReport{
		DeckCount:    3,
		AvgManaValue: 2.22,
		Buckets: [7]Range{
			{},
			{Avg: 2, Min: 2, Max: 2},
			{Avg: 1, Min: 0, Max: 2},
			{Avg: 1, Min: 0, Max: 2},
			{},
			{},
			{Avg: 0.3, Min: 0, Max: 1},
		},
	}
	if diff := cmp.Diff(want, report); diff != "" {
		t.Errorf("Curve() mismatch (-want +got):\n%s", diff)
	}
}

func TestCategories(t *testing.T) {
	report, err := Categories(testDecks(t), testCategories())
	require.NoError(t, err)

	want := &CategoryReport{
		DeckCount: 3,
		Stats: []CategoryStat{
			{Category: model.CategoryRamp, Slots: Range{Avg: 2.3, Min: 1, Max: 4}, DecksWith: 3},
			{Category: model.CategoryDraw, Slots: Range{Avg: 1, Min: 1, Max: 1}, DecksWith: 1},
			{Category: model.CategoryRemoval, Slots: Range{Avg: 1, Min: 1, Max: 1}, DecksWith: 1},
			{Category: model.CategoryCounterspell, Slots: Range{Avg: 1, Min: 1, Max: 1}, DecksWith: 1},
			{Category: model.CategoryTutor, Slots: Range{Avg: 1, Min: 1, Max: 1}, DecksWith: 1},
			{Category: model.CategoryOther, Slots: Range{Avg: 1, Min: 1, Max: 1}, DecksWith: 2},
			{Category: model.CategoryLand, Slots: Range{Avg: 15.7, Min: 12, Max: 20}, DecksWith: 3},
		},
	}
	if diff := cmp.Diff(want, report); diff != "" {
		t.Errorf("Categories() mismatch (-want +got):\n%s", diff)
	}
}

func TestCategoriesCountsEveryLabel(t *testing.T) {
	deck := testutil.NewDeck(t, "multi").
		WithCommander("Krenko, Mob Boss").
		WithCard("Goblin Matron", 2).
		Build()
	cats := model.CategoryMap{"Goblin Matron": {model.CategoryTutor, model.CategoryOther}}

	report, err := Categories([]model.Deck{*deck}, cats)
	require.NoError(t, err)
	require.Len(t, report.Stats, 2)
	assert.Equal(t, 2, report.Stats[0].Slots.Max)
	assert.Equal(t, 2, report.Stats[1].Slots.Max)
}

func TestCompareBrackets(t *testing.T) {
	decks := testDecks(t)
	report, err := CompareBrackets(decks[:1], decks[1:], CompareOptions{BracketA: 2, BracketB: 3})
	require.NoError(t, err)

	names := func(shifts []CardShift) []string {
		out := make([]string, 0, len(shifts))
		for _, s := range shifts {
			out = append(out, s.Name)
		}
		return out
	}

	assert.Equal(t, 1, report.DecksA)
	assert.Equal(t, 2, report.DecksB)
	assert.Equal(t, []string{
		"Arcane Signet", "Cultivate", "Grizzly Bears", "Island", "Rhystic Study",
		"Forest", "Llanowar Elves",
	}, names(report.MoreInA))
	assert.Equal(t, []string{
		"Counterspell", "Craterhoof Behemoth", "Goblin Matron", "Lightning Bolt", "Mountain",
	}, names(report.MoreInB))
	assert.InDelta(t, -0.5, report.MoreInA[5].Diff(), 1e-9)

	limited, err := CompareBrackets(decks[:1], decks[1:], CompareOptions{BracketA: 2, BracketB: 3, Limit: 3, MinDiff: 0.6})
	require.NoError(t, err)
	assert.Equal(t, []string{"Arcane Signet", "Cultivate", "Grizzly Bears"}, names(limited.MoreInA))
	assert.Empty(t, limited.MoreInB)
}

func TestRamp(t *testing.T) {
	report, err := Ramp(testDecks(t), testCategories())
	require.NoError(t, err)

	want := &RampReport{
		DeckCount: 3,
		Ramp:      Range{Avg: 2.3, Min: 1, Max: 4},
		AvgLands:  15.7,
		TopCards: []CardCount{
			{Name: "Sol Ring", Decks: 3, Percentage: 100},
			{Name: "Llanowar Elves", Decks: 2, Percentage: 66.7},
			{Name: "Arcane Signet", Decks: 1, Percentage: 33.3},
			{Name: "Cultivate", Decks: 1, Percentage: 33.3},
		},
	}
	if diff := cmp.Diff(want, report); diff != "" {
		t.Errorf("Ramp() mismatch (-want +got):\n%s", diff)
	}
}

func TestCommanderCurve(t *testing.T) {
	report, err := CommanderCurve(testDecks(t), testCategories(), 2)
	require.NoError(t, err)
	require.Len(t, report.Groups, 2)

	two := report.Groups[0]
	assert.Equal(t, 2, two.ManaValue)
	assert.Equal(t, 2, two.DeckCount)
	assert.Equal(t, []string{"Kinnan, Bonder Prodigy"}, two.Commanders)
	assert.Equal(t, [7]float64{0, 2, 1.5, 1, 0, 0, 0.5}, two.AvgCurve)
	assert.InDelta(t, 2.5, two.AvgManaValue, 1e-9)
	assert.InDelta(t, 3, two.AvgRamp, 1e-9)
	assert.InDelta(t, 0.5, two.AvgDraw, 1e-9)
	assert.InDelta(t, 13.5, two.AvgLands, 1e-9)
	assert.Empty(t, two.TopSpells[0], "lands are not spells")
	assert.Equal(t, []CardCount{
		{Name: "Llanowar Elves", Decks: 2, Percentage: 100},
		{Name: "Sol Ring", Decks: 2, Percentage: 100},
	}, two.TopSpells[1])
	assert.Equal(t, []CardCount{
		{Name: "Arcane Signet", Decks: 1, Percentage: 50},
		{Name: "Counterspell", Decks: 1, Percentage: 50},
	}, two.TopSpells[2])

	four := report.Groups[1]
	assert.Equal(t, 4, four.ManaValue)
	assert.Equal(t, []string{"Krenko, Mob Boss"}, four.Commanders)
	assert.InDelta(t, 1.67, four.AvgManaValue, 1e-9)
	assert.InDelta(t, 20, four.AvgLands, 1e-9)
}

func TestCommanderBoardIsExcluded(t *testing.T) {
	deck := testutil.NewDeck(t, "only-commander").
		WithCommander("Atraxa, Praetors' Voice").
		WithCard("Forest", 1).
		Build()

	curve, err := Curve([]model.Deck{*deck})
	require.NoError(t, err)
	assert.Zero(t, curve.Buckets[4].Max)

	staples, err := Staples([]model.Deck{*deck, *deck}, model.CategoryMap{}, StapleOptions{})
	require.NoError(t, err)
	require.Len(t, staples.Groups, 1)
	assert.Equal(t, "Forest", staples.Groups[0].Cards[0].Name)
}
