package model

// Category is a functional card label used by the statistics engine.
type Category string

// Known categories, in display order.
const (
	CategoryRamp         Category = "ramp"
	CategoryDraw         Category = "draw"
	CategoryRemoval      Category = "removal"
	CategoryBoardWipe    Category = "board_wipe"
	CategoryCounterspell Category = "counterspell"
	CategoryTutor        Category = "tutor"
	CategoryProtection   Category = "protection"
	CategoryRecursion    Category = "recursion"
	CategoryOther        Category = "other"
	CategoryLand         Category = "land"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryRamp,
	CategoryDraw,
	CategoryRemoval,
	CategoryBoardWipe,
	CategoryCounterspell,
	CategoryTutor,
	CategoryProtection,
	CategoryRecursion,
	CategoryOther,
	CategoryLand,
}

// ParseCategory returns the category for s if it is known.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// CategorySource records who assigned a card's categories.
type CategorySource string

const (
	// CategorySourceRules is the oracle-text pattern categorizer.
	CategorySourceRules CategorySource = "rules"
	// CategorySourceLLM is the optional language model categorizer.
	CategorySourceLLM CategorySource = "llm"
	// CategorySourceManual is a user override; never replaced automatically.
	CategorySourceManual CategorySource = "manual"
)

// CategoryMap maps card names to their category labels.
type CategoryMap map[string][]Category

// Primary returns the first category of a card, or "other".
func (m CategoryMap) Primary(name string) Category {
	if cats := m[name]; len(cats) > 0 {
		return cats[0]
	}
	return CategoryOther
}

// Has reports whether a card carries the category.
func (m CategoryMap) Has(name string, c Category) bool {
	for _, got := range m[name] {
		if got == c {
			return true
		}
	}
	return false
}
