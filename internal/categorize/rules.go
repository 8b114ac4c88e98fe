package categorize

import "github.com/Veraticus/deckstat/internal/model"

// DefaultRules returns the oracle-text patterns used to label cards.
func DefaultRules() []Rule {
	return []Rule{
		// Ramp
		{Category: model.CategoryRamp, Regex: `add\b.{0,30}\bmana\b`, Weight: 1.0},
		{Category: model.CategoryRamp, Regex: `search your library for.{0,30}\bland\b.{0,30}\bonto the battlefield\b`, Weight: 1.0},
		{Category: model.CategoryRamp, Regex: `put.{0,30}\bland.{0,30}\bonto the battlefield\b`, Weight: 1.0},
		{Category: model.CategoryRamp, Regex: `add \{[WUBRGC]\}`, Weight: 0.9},
		{Category: model.CategoryRamp, Regex: `add .{0,15}one mana of any`, Weight: 1.0},
		{Category: model.CategoryRamp, Regex: `mana of any color`, Weight: 0.7},
		{Category: model.CategoryRamp, Regex: `treasure token`, Weight: 0.6},

		// Card draw and selection
		{Category: model.CategoryDraw, Regex: `draw.{0,15}\bcards?\b`, Weight: 1.0},
		{Category: model.CategoryDraw, Regex: `\bdraw a card\b`, Weight: 1.0},
		{Category: model.CategoryDraw, Regex: `\bscry \d`, Weight: 0.5},
		{Category: model.CategoryDraw, Regex: `look at the top.{0,20}cards? of your library`, Weight: 0.6},
		{Category: model.CategoryDraw, Regex: `whenever.{0,40}draw`, Weight: 0.8},
		{Category: model.CategoryDraw, Regex: `exile the top.{0,30}you may (play|cast)`, Weight: 0.8},

		// Spot removal
		{Category: model.CategoryRemoval, Regex: `destroy target.{0,30}(creature|artifact|enchantment|planeswalker|permanent|nonland)`, Weight: 1.0},
		{Category: model.CategoryRemoval, Regex: `exile target.{0,30}(creature|artifact|enchantment|planeswalker|permanent|nonland)`, Weight: 1.0},
		{Category: model.CategoryRemoval, Regex: `target.{0,20}gets? -\d+/-\d+`, Weight: 0.9},
		{Category: model.CategoryRemoval, Regex: `deals? \d+ damage to (target|any target)`, Weight: 0.7},
		{Category: model.CategoryRemoval, Regex: `return target.{0,20}to (its owner's hand|the top)`, Weight: 0.7},
		{Category: model.CategoryRemoval, Regex: `sacrifice.{0,15}(creature|permanent)`, Weight: 0.6},
		{Category: model.CategoryRemoval, Regex: `\bfights?\b`, Weight: 0.5},

		// Mass removal
		{Category: model.CategoryBoardWipe, Regex: `destroy all.{0,20}(creature|nonland|permanent|artifact|enchantment)`, Weight: 1.0},
		{Category: model.CategoryBoardWipe, Regex: `exile all.{0,20}(creature|nonland|permanent|artifact|enchantment)`, Weight: 1.0},
		{Category: model.CategoryBoardWipe, Regex: `all creatures get -\d+/-\d+`, Weight: 1.0},
		{Category: model.CategoryBoardWipe, Regex: `each (creature|player).{0,20}sacrifice`, Weight: 0.7},
		{Category: model.CategoryBoardWipe, Regex: `deals? \d+ damage to each creature`, Weight: 0.8},

		{Category: model.CategoryCounterspell, Regex: `counter target spell`, Weight: 1.0},
		{Category: model.CategoryCounterspell, Regex: `counter target.{0,30}(instant|sorcery|creature|artifact|enchantment|activated)`, Weight: 0.9},
		{Category: model.CategoryCounterspell, Regex: `counter it\b`, Weight: 0.8},

		{Category: model.CategoryTutor, Regex: `search your library for.{0,30}(card|creature|instant|sorcery|artifact|enchantment)`, Weight: 1.0},
		{Category: model.CategoryTutor, Regex: `search your library.{0,40}(put it|reveal)`, Weight: 1.0},

		{Category: model.CategoryProtection, Regex: `\b(hexproof|shroud|indestructible|ward)\b`, Weight: 0.8},
		{Category: model.CategoryProtection, Regex: `(gain|have|gets?) protection from`, Weight: 0.8},
		{Category: model.CategoryProtection, Regex: `can't be (countered|the target)`, Weight: 0.7},
		{Category: model.CategoryProtection, Regex: `phase out`, Weight: 0.6},

		{Category: model.CategoryRecursion, Regex: `return.{0,30}from.{0,15}graveyard.{0,20}(to|onto)`, Weight: 1.0},
		{Category: model.CategoryRecursion, Regex: `put.{0,30}from.{0,15}graveyard.{0,20}(onto|into your hand)`, Weight: 1.0},
		{Category: model.CategoryRecursion, Regex: `cast.{0,20}from.{0,10}graveyard`, Weight: 0.9},
		{Category: model.CategoryRecursion, Regex: `reanimate`, Weight: 0.9},
		{Category: model.CategoryRecursion, Regex: `flashback`, Weight: 0.7},
	}
}

// KnownStaples are cards whose role is settled regardless of oracle text.
func KnownStaples() map[model.Category][]string {
	return map[model.Category][]string{
		model.CategoryRamp: {
			"Sol Ring", "Arcane Signet", "Commander's Sphere", "Mind Stone",
			"Fellwar Stone", "Thought Vessel", "Wayfarer's Bauble",
			"Burnished Hart", "Solemn Simulacrum",
			"Azorius Signet", "Dimir Signet", "Rakdos Signet", "Gruul Signet",
			"Selesnya Signet", "Orzhov Signet", "Izzet Signet", "Golgari Signet",
			"Boros Signet", "Simic Signet",
			"Talisman of Progress", "Talisman of Dominance", "Talisman of Indulgence",
			"Talisman of Impulse", "Talisman of Unity", "Talisman of Hierarchy",
			"Talisman of Creativity", "Talisman of Resilience", "Talisman of Conviction",
			"Talisman of Curiosity",
			"Rampant Growth", "Cultivate", "Kodama's Reach", "Farseek",
			"Nature's Lore", "Three Visits", "Sakura-Tribe Elder",
			"Birds of Paradise", "Llanowar Elves", "Elvish Mystic",
		},
		model.CategoryDraw: {
			"Rhystic Study", "Mystic Remora", "Sylvan Library",
			"Brainstorm", "Ponder", "Preordain", "Phyrexian Arena",
			"Beast Whisperer", "Harmonize", "Night's Whisper", "Sign in Blood",
			"Read the Bones", "Painful Truths",
		},
		model.CategoryRemoval: {
			"Swords to Plowshares", "Path to Exile", "Generous Gift",
			"Beast Within", "Chaos Warp", "Reality Shift",
			"Abrupt Decay", "Assassin's Trophy", "Anguished Unmaking",
			"Despark", "Vindicate", "Cyclonic Rift",
			"Feed the Swarm", "Ravenform",
		},
		model.CategoryBoardWipe: {
			"Wrath of God", "Damnation", "Supreme Verdict",
			"Blasphemous Act", "Vanquish the Horde", "Farewell",
			"Toxic Deluge", "Austere Command", "Merciless Eviction",
			"Cyclonic Rift",
		},
		model.CategoryCounterspell: {
			"Counterspell", "Swan Song", "Negate", "Arcane Denial",
			"Dovin's Veto", "Fierce Guardianship", "Force of Will",
			"Force of Negation", "Mana Drain", "An Offer You Can't Refuse",
		},
		model.CategoryTutor: {
			"Demonic Tutor", "Vampiric Tutor", "Enlightened Tutor",
			"Mystical Tutor", "Worldly Tutor", "Gamble",
			"Diabolic Intent", "Imperial Seal",
		},
	}
}
