package model

import "time"

// ImportFailure records a card line that could not be resolved during an
// import batch. Failures never abort the import of the deck that holds them.
type ImportFailure struct {
	CreatedAt  time.Time
	BatchID    string
	DeckName   string
	SourceFile string
	RawName    string
	Reason     string
	Line       int
}

// CardCategories pairs a card with its stored labels and their origin.
type CardCategories struct {
	Name       string
	Source     CategorySource
	Categories []Category
}
