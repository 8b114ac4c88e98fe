package testutil

import (
	"sort"
	"testing"

	"github.com/Veraticus/deckstat/internal/catalog"
	"github.com/Veraticus/deckstat/internal/categorize"
	"github.com/Veraticus/deckstat/internal/model"
	"github.com/Veraticus/deckstat/internal/resolve"
)

func card(name string, mv float64, colors, typeLine, oracle string) model.CardEntry {
	ci, err := model.ParseColorIdentity(colors)
	if err != nil {
		panic(err)
	}
	return model.CardEntry{
		ID:            "test-" + name,
		Name:          name,
		ManaValue:     mv,
		ColorIdentity: ci,
		TypeLine:      typeLine,
		OracleText:    oracle,
		Layout:        "normal",
	}
}

var fixtureCards = []model.CardEntry{
	// Commanders
	card("Atraxa, Praetors' Voice", 4, "WUBG", "Legendary Creature — Phyrexian Angel Horror", "Flying, vigilance, deathtouch, lifelink\nAt the beginning of your end step, proliferate."),
	card("Kinnan, Bonder Prodigy", 2, "UG", "Legendary Creature — Human Druid", "Whenever you tap a nonland permanent for mana, add one additional mana of any type that permanent produced."),
	card("Thrasios, Triton Hero", 2, "UG", "Legendary Creature — Merfolk Wizard", "{4}: Scry 1, then reveal the top card of your library. If it's a land card, put it onto the battlefield tapped. Otherwise, draw a card.\nPartner"),
	card("Tymna the Weaver", 3, "WB", "Legendary Creature — Human Cleric", "Lifelink\nAt the beginning of your postcombat main phase, you may pay X life, where X is the number of opponents that were dealt combat damage this turn. If you do, draw X cards.\nPartner"),
	card("Krenko, Mob Boss", 4, "R", "Legendary Creature — Goblin Warrior", "{T}: Create X 1/1 red Goblin creature tokens, where X is the number of Goblins you control."),
	card("Niv-Mizzet, Parun", 6, "UR", "Legendary Creature — Dragon Wizard", "This spell can't be countered.\nFlying\nWhenever you draw a card, Niv-Mizzet, Parun deals 1 damage to any target."),

	// Lands
	card("Command Tower", 0, "", "Land", "{T}: Add one mana of any color in your commander's color identity."),
	card("Forest", 0, "", "Basic Land — Forest", "({T}: Add {G}.)"),
	card("Island", 0, "", "Basic Land — Island", "({T}: Add {U}.)"),
	card("Mountain", 0, "", "Basic Land — Mountain", "({T}: Add {R}.)"),

	// Spells
	card("Sol Ring", 1, "", "Artifact", "{T}: Add {C}{C}."),
	card("Arcane Signet", 2, "", "Artifact", "{T}: Add one mana of any color in your commander's color identity."),
	card("Llanowar Elves", 1, "G", "Creature — Elf Druid", "{T}: Add {G}."),
	card("Cultivate", 3, "G", "Sorcery", "Search your library for up to two basic land cards, reveal those cards, put one onto the battlefield tapped and the other into your hand, then shuffle."),
	card("Rhystic Study", 3, "U", "Enchantment", "Whenever an opponent casts a spell, you may draw a card unless that player pays {1}."),
	card("Counterspell", 2, "U", "Instant", "Counter target spell."),
	card("Swords to Plowshares", 1, "W", "Instant", "Exile target creature. Its controller gains life equal to its power."),
	card("Wrath of God", 4, "W", "Sorcery", "Destroy all creatures. They can't be regenerated."),
	card("Demonic Tutor", 2, "B", "Sorcery", "Search your library for a card, put that card into your hand, then shuffle."),
	card("Lightning Greaves", 2, "", "Artifact — Equipment", "Equipped creature has haste and shroud.\nEquip {0}"),
	card("Eternal Witness", 3, "G", "Creature — Human Shaman", "When Eternal Witness enters, return target card from your graveyard to your hand."),
	card("Lightning Bolt", 1, "R", "Instant", "Lightning Bolt deals 3 damage to any target."),
	card("Grizzly Bears", 2, "G", "Creature — Bear", ""),
	card("Goblin Matron", 3, "R", "Creature — Goblin", "When Goblin Matron enters, you may search your library for a Goblin card, reveal that card, put it into your hand, then shuffle."),
	card("Craterhoof Behemoth", 8, "G", "Creature — Beast", "Haste\nWhen Craterhoof Behemoth enters, creatures you control gain trample and get +X/+X until end of turn, where X is the number of creatures you control."),
	card("Delver of Secrets // Insectile Aberration", 1, "U", "Creature — Human Wizard // Creature — Human Insect", "At the beginning of your upkeep, look at the top card of your library.\n//\nFlying"),
}

// Cards returns a copy of the fixture card pool.
func Cards() []model.CardEntry {
	out := make([]model.CardEntry, len(fixtureCards))
	copy(out, fixtureCards)
	return out
}

// CardNames returns the fixture card names, sorted.
func CardNames() []string {
	names := make([]string, 0, len(fixtureCards))
	for _, c := range fixtureCards {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// Catalog builds a catalog over the fixture cards.
func Catalog() *catalog.Catalog {
	return catalog.New(Cards())
}

// Resolver returns a resolver with default options over Catalog.
func Resolver() *resolve.Resolver {
	return resolve.New(Catalog(), resolve.Options{})
}

// Categories returns the rule-based categories of every fixture card.
func Categories() model.CategoryMap {
	return categorize.Default().CategorizeAll(fixtureCards)
}

// DeckBuilder assembles decks from fixture cards.
type DeckBuilder struct {
	t     *testing.T
	cards map[string]*model.CardEntry
	deck  model.Deck
}

// NewDeck starts a deck whose source file and name derive from id.
func NewDeck(t *testing.T, id string) *DeckBuilder {
	t.Helper()
	cards := make(map[string]*model.CardEntry, len(fixtureCards))
	for i := range fixtureCards {
		c := fixtureCards[i]
		cards[c.Name] = &c
	}
	return &DeckBuilder{
		t:     t,
		cards: cards,
		deck: model.Deck{
			Name:       id,
			SourceFile: id + ".txt",
			Source:     model.SourceManual,
		},
	}
}

func (b *DeckBuilder) lookup(name string) *model.CardEntry {
	b.t.Helper()
	c, ok := b.cards[name]
	if !ok {
		b.t.Fatalf("unknown fixture card %q", name)
	}
	return c
}

// WithCommander adds a resolved commander. The deck's color identity and
// (for the first commander) mana value follow.
func (b *DeckBuilder) WithCommander(name string) *DeckBuilder {
	b.t.Helper()
	c := b.lookup(name)
	if len(b.deck.Commanders) == 0 {
		b.deck.CommanderManaValue = c.ManaValue
	}
	b.deck.Commanders = append(b.deck.Commanders, model.Commander{Name: c.Name, RawName: c.Name, Resolved: true})
	b.deck.ColorIdentity = b.deck.ColorIdentity.Union(c.ColorIdentity)
	b.deck.Entries = append(b.deck.Entries, model.DeckEntry{Card: c, RawName: c.Name, Board: model.BoardCommander, Quantity: 1})
	return b
}

// WithBracket sets the bracket.
func (b *DeckBuilder) WithBracket(bracket int) *DeckBuilder {
	b.deck.Bracket = bracket
	return b
}

// WithTag sets the tag.
func (b *DeckBuilder) WithTag(tag string) *DeckBuilder {
	b.deck.Tag = tag
	return b
}

// WithCard adds qty copies of a fixture card to the mainboard.
func (b *DeckBuilder) WithCard(name string, qty int) *DeckBuilder {
	b.t.Helper()
	c := b.lookup(name)
	b.deck.Entries = append(b.deck.Entries, model.DeckEntry{
		Card: c, RawName: c.Name, Board: model.BoardMain, Quantity: qty, Line: len(b.deck.Entries) + 1,
	})
	return b
}

// WithCards adds one copy of each named card to the mainboard.
func (b *DeckBuilder) WithCards(names ...string) *DeckBuilder {
	b.t.Helper()
	for _, n := range names {
		b.WithCard(n, 1)
	}
	return b
}

// WithSideboard adds a card to the sideboard.
func (b *DeckBuilder) WithSideboard(name string) *DeckBuilder {
	b.t.Helper()
	c := b.lookup(name)
	b.deck.Entries = append(b.deck.Entries, model.DeckEntry{
		Card: c, RawName: c.Name, Board: model.BoardSide, Quantity: 1, Line: len(b.deck.Entries) + 1,
	})
	return b
}

// WithUnresolved adds a mainboard line that did not resolve.
func (b *DeckBuilder) WithUnresolved(raw string) *DeckBuilder {
	b.deck.Entries = append(b.deck.Entries, model.DeckEntry{
		RawName: raw, Board: model.BoardMain, Quantity: 1, Line: len(b.deck.Entries) + 1,
	})
	return b
}

// Build returns the deck.
func (b *DeckBuilder) Build() *model.Deck {
	d := b.deck
	d.Entries = append([]model.DeckEntry(nil), b.deck.Entries...)
	d.Commanders = append([]model.Commander(nil), b.deck.Commanders...)
	return &d
}
