package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func testCard(name string, mv float64, colors model.ColorIdentity, typeLine string) model.CardEntry {
	return model.CardEntry{
		ID:            "id-" + name,
		Name:          name,
		ManaValue:     mv,
		ColorIdentity: colors,
		TypeLine:      typeLine,
		OracleText:    "text of " + name,
	}
}

func testDeck(source string, colors model.ColorIdentity, bracket int, commander string, cards ...model.CardEntry) *model.Deck {
	d := &model.Deck{
		Name:               source + " deck",
		SourceFile:         source,
		Bracket:            bracket,
		ColorIdentity:      colors,
		CommanderManaValue: 3,
		Commanders:         []model.Commander{{Name: commander, RawName: commander, Resolved: true}},
	}
	for i := range cards {
		c := cards[i]
		d.Entries = append(d.Entries, model.DeckEntry{Card: &c, RawName: c.Name, Board: model.BoardMain, Quantity: 1, Line: i + 1})
	}
	return d
}

func TestMigrateReachesExpectedVersion(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	v, err := store.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, v)

	// Running again is a no-op.
	require.NoError(t, store.Migrate(context.Background()))
}

func TestSaveAndLoadDeck(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	solRing := testCard("Sol Ring", 1, model.Colorless, "Artifact")
	island := testCard("Island", 0, model.Colorless, "Basic Land — Island")
	require.NoError(t, store.UpsertCards(ctx, []model.CardEntry{solRing, island}, nil))

	deck := testDeck("a.txt", model.Blue|model.Red, 2, "Niv-Mizzet, Parun", solRing, island)
	deck.Commanders = append(deck.Commanders, model.Commander{Name: "Mystery", RawName: "Mystery", Resolved: false})
	deck.Entries = append(deck.Entries, model.DeckEntry{RawName: "Not A Card", Board: model.BoardMain, Quantity: 2, Line: 9})
	require.NoError(t, store.SaveDeck(ctx, deck))
	require.NotZero(t, deck.ID)

	got, err := store.GetDeck(ctx, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.txt deck", got.Name)
	assert.Equal(t, model.Blue|model.Red, got.ColorIdentity)
	require.Len(t, got.Commanders, 2)
	assert.True(t, got.Commanders[0].Resolved)
	assert.False(t, got.Commanders[1].Resolved)
	require.Len(t, got.Entries, 3)
	require.NotNil(t, got.Entries[0].Card)
	assert.Equal(t, "Sol Ring", got.Entries[0].Card.Name)
	assert.InDelta(t, 1.0, got.Entries[0].Card.ManaValue, 1e-9)
	assert.Nil(t, got.Entries[2].Card)
	assert.Equal(t, "Not A Card", got.Entries[2].RawName)
	assert.Equal(t, 2, got.Entries[2].Quantity)
}

func TestLoadDecksSharesCardEntries(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	solRing := testCard("Sol Ring", 1, model.Colorless, "Artifact")
	require.NoError(t, store.UpsertCards(ctx, []model.CardEntry{solRing}, nil))
	require.NoError(t, store.SaveDeck(ctx, testDeck("a.txt", model.Red, 2, "A", solRing)))
	require.NoError(t, store.SaveDeck(ctx, testDeck("b.txt", model.Red, 2, "B", solRing)))

	decks, err := store.LoadDecks(ctx, model.DeckFilter{})
	require.NoError(t, err)
	require.Len(t, decks, 2)
	assert.Same(t, decks[0].Entries[0].Card, decks[1].Entries[0].Card)
}

func TestSaveDeckReplacesSameSource(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SaveDeck(ctx, testDeck("a.txt", model.Red, 2, "A", testCard("Shock", 1, model.Red, "Instant"))))
	exists, err := store.DeckExists(ctx, "a.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	replacement := testDeck("a.txt", model.Green, 3, "B")
	require.NoError(t, store.SaveDeck(ctx, replacement))

	decks, err := store.LoadDecks(ctx, model.DeckFilter{})
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, model.Green, decks[0].ColorIdentity)
	assert.Empty(t, decks[0].Entries)

	require.NoError(t, store.DeleteDeckBySource(ctx, "a.txt"))
	exists, err = store.DeckExists(ctx, "a.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListDecksFilters(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	ur := model.Blue | model.Red
	urg := model.Blue | model.Red | model.Green
	mono := model.Red

	d1 := testDeck("izzet.txt", ur, 2, "Niv-Mizzet, Parun")
	d2 := testDeck("temur.txt", urg, 3, "Maelstrom Wanderer")
	d2.CommanderManaValue = 8
	d2.Tag = "cedh"
	d3 := testDeck("red.txt", mono, 4, "Krenko, Mob Boss")
	d3.CommanderManaValue = 4
	for _, d := range []*model.Deck{d1, d2, d3} {
		require.NoError(t, store.SaveDeck(ctx, d))
	}

	intPtr := func(i int) *int { return &i }

	tests := []struct {
		name   string
		filter model.DeckFilter
		want   []string
	}{
		{"all", model.DeckFilter{}, []string{"izzet.txt", "temur.txt", "red.txt"}},
		{"exact colors", model.DeckFilter{Colors: &ur}, []string{"izzet.txt"}},
		{"contains colors", model.DeckFilter{Colors: &ur, ColorMode: model.ColorModeContains}, []string{"izzet.txt", "temur.txt"}},
		{"subset colors", model.DeckFilter{Colors: &ur, ColorMode: model.ColorModeSubset}, []string{"izzet.txt", "red.txt"}},
		{"bracket range", model.DeckFilter{BracketMin: 3, BracketMax: 4}, []string{"temur.txt", "red.txt"}},
		{"commander case-insensitive", model.DeckFilter{Commander: "krenko, mob boss"}, []string{"red.txt"}},
		{"commander mana value", model.DeckFilter{CommanderManaValue: intPtr(8)}, []string{"temur.txt"}},
		{"tag", model.DeckFilter{Tag: "cedh"}, []string{"temur.txt"}},
		{"limit", model.DeckFilter{Limit: 1}, []string{"izzet.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decks, err := store.ListDecks(ctx, tt.filter)
			require.NoError(t, err)
			var got []string
			for _, d := range decks {
				got = append(got, d.SourceFile)
				assert.True(t, tt.filter.Matches(d), "in-memory filter disagrees for %s", d.SourceFile)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSaveDeckValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		name string
		deck *model.Deck
	}{
		{"nil deck", nil},
		{"no commanders", &model.Deck{Name: "x", SourceFile: "x.txt"}},
		{"bad bracket", &model.Deck{Name: "x", SourceFile: "x.txt", Bracket: 7, Commanders: []model.Commander{{Name: "A"}}}},
		{"zero quantity", &model.Deck{Name: "x", SourceFile: "x.txt", Commanders: []model.Commander{{Name: "A"}},
			Entries: []model.DeckEntry{{RawName: "Sol Ring", Quantity: 0}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, store.SaveDeck(ctx, tt.deck))
		})
	}
}

func TestTransactionRollback(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.SaveDeck(ctx, testDeck("a.txt", model.Red, 1, "A")))
	exists, err := tx.DeckExists(ctx, "a.txt")
	require.NoError(t, err)
	assert.True(t, exists)
	require.NoError(t, tx.Rollback())

	exists, err = store.DeckExists(ctx, "a.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCardCategories(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	cards := []model.CardEntry{
		testCard("Cultivate", 3, model.Green, "Sorcery"),
		testCard("Odd Card", 2, model.Blue, "Enchantment"),
		testCard("Pet Card", 2, model.Blue, "Creature"),
	}
	rules := model.CategoryMap{"Cultivate": {model.CategoryRamp}}
	require.NoError(t, store.UpsertCards(ctx, cards, rules))

	cc, err := store.GetCardCategories(ctx, "Cultivate")
	require.NoError(t, err)
	assert.Equal(t, []model.Category{model.CategoryRamp}, cc.Categories)
	assert.Equal(t, model.CategorySourceRules, cc.Source)

	cc, err = store.GetCardCategories(ctx, "Odd Card")
	require.NoError(t, err)
	assert.Equal(t, []model.Category{model.CategoryOther}, cc.Categories)

	uncategorized, err := store.GetUncategorizedCards(ctx, 0)
	require.NoError(t, err)
	require.Len(t, uncategorized, 2)
	assert.Equal(t, "Odd Card", uncategorized[0].Name)

	// Manual tags survive LLM writes and rule re-imports.
	require.NoError(t, store.SetCardCategories(ctx, "Pet Card", []model.Category{model.CategoryProtection}, model.CategorySourceManual))
	require.NoError(t, store.SetCardCategories(ctx, "Pet Card", []model.Category{model.CategoryDraw}, model.CategorySourceLLM))
	require.NoError(t, store.UpsertCards(ctx, cards[2:], model.CategoryMap{"Pet Card": {model.CategoryRemoval}}))

	cc, err = store.GetCardCategories(ctx, "Pet Card")
	require.NoError(t, err)
	assert.Equal(t, []model.Category{model.CategoryProtection}, cc.Categories)
	assert.Equal(t, model.CategorySourceManual, cc.Source)

	// LLM labels are kept when rules run again.
	require.NoError(t, store.SetCardCategories(ctx, "Odd Card", []model.Category{model.CategoryDraw}, model.CategorySourceLLM))
	require.NoError(t, store.UpsertCards(ctx, cards[1:2], model.CategoryMap{"Odd Card": {model.CategoryOther}}))
	cats, err := store.GetCategoryMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Category{model.CategoryDraw}, cats["Odd Card"])

	manual, err := store.ListCardCategories(ctx, model.CategorySourceManual)
	require.NoError(t, err)
	require.Len(t, manual, 1)
	assert.Equal(t, "Pet Card", manual[0].Name)

	err = store.SetCardCategories(ctx, "Missing", []model.Category{model.CategoryDraw}, model.CategorySourceManual)
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = store.SetCardCategories(ctx, "Odd Card", []model.Category{"bogus"}, model.CategorySourceManual)
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestLLMCache(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, ok, err := store.GetCachedCategories(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SaveCachedCategories(ctx, "k1", "test-model", []model.Category{model.CategoryTutor}))
	cats, ok, err := store.GetCachedCategories(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []model.Category{model.CategoryTutor}, cats)
}

func TestImportFailuresLatestBatch(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SaveImportFailures(ctx, []model.ImportFailure{
		{BatchID: "b1", DeckName: "D", SourceFile: "d.txt", RawName: "Foo", Reason: "not_found", Line: 3},
	}))
	require.NoError(t, store.SaveImportFailures(ctx, []model.ImportFailure{
		{BatchID: "b2", DeckName: "E", SourceFile: "e.txt", RawName: "Bar", Reason: "ambiguous", Line: 4},
		{BatchID: "b2", DeckName: "E", SourceFile: "e.txt", RawName: "Baz", Reason: "not_found", Line: 5},
	}))

	latest, err := store.GetImportFailures(ctx, "")
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "Bar", latest[0].RawName)

	first, err := store.GetImportFailures(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 3, first[0].Line)
}

func TestGetSummary(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	bolt := testCard("Lightning Bolt", 1, model.Red, "Instant")
	require.NoError(t, store.UpsertCards(ctx, []model.CardEntry{bolt}, nil))
	require.NoError(t, store.SaveDeck(ctx, testDeck("a.txt", model.Red, 2, "A", bolt)))
	require.NoError(t, store.SaveDeck(ctx, testDeck("b.txt", model.Red, 3, "B", bolt)))
	d := testDeck("c.txt", model.Blue|model.Red, 3, "C")
	d.Entries = []model.DeckEntry{{RawName: "Typo", Board: model.BoardMain, Quantity: 1}}
	require.NoError(t, store.SaveDeck(ctx, d))

	summary, err := store.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalDecks)
	assert.Equal(t, 1, summary.UniqueCards)
	assert.Equal(t, 1, summary.UnresolvedCards)
	assert.Equal(t, map[int]int{2: 1, 3: 2}, summary.ByBracket)
	require.Len(t, summary.ByColor, 2)
	assert.Equal(t, "R", summary.ByColor[0].Key)
	assert.Equal(t, 2, summary.ByColor[0].Count)
	assert.Equal(t, "Izzet", summary.ByColor[1].Name)
}
