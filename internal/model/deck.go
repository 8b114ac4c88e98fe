package model

import (
	"strings"
	"time"
)

// Board identifies which part of a deck list an entry belongs to.
type Board string

const (
	// BoardCommander holds the commander(s).
	BoardCommander Board = "commander"
	// BoardMain is the 99.
	BoardMain Board = "mainboard"
	// BoardSide holds sideboard and companion entries.
	BoardSide Board = "sideboard"
)

// DeckSource records where a deck came from.
type DeckSource string

const (
	// SourceManual marks decks imported from local text files.
	SourceManual DeckSource = "manual"
	// SourceMoxfield marks decks normalized from a Moxfield export.
	SourceMoxfield DeckSource = "moxfield"
)

// DeckEntry is one card slot in a deck.
type DeckEntry struct {
	Card     *CardEntry // nil when RawName could not be resolved
	RawName  string
	Board    Board
	Quantity int
	Line     int
}

// Resolved reports whether the entry points at a catalog card.
func (e DeckEntry) Resolved() bool {
	return e.Card != nil
}

// Name returns the canonical name when resolved, the raw name otherwise.
func (e DeckEntry) Name() string {
	if e.Card != nil {
		return e.Card.Name
	}
	return e.RawName
}

// Commander is one of the (at most two) commanders of a deck.
type Commander struct {
	Name     string
	RawName  string
	Resolved bool
}

// Deck is a stored Commander deck. Its color identity is derived from the
// commanders at import and never recomputed from the card list.
type Deck struct {
	AddedAt            time.Time
	Name               string
	Tag                string
	Builder            string
	SourceFile         string
	Source             DeckSource
	ImportBatch        string
	Commanders         []Commander
	Entries            []DeckEntry
	ID                 int64
	CommanderManaValue float64
	Bracket            int
	ColorIdentity      ColorIdentity
}

// CommanderLabel joins the commander names for display.
func (d Deck) CommanderLabel() string {
	names := make([]string, 0, len(d.Commanders))
	for _, c := range d.Commanders {
		names = append(names, c.Name)
	}
	return strings.Join(names, " + ")
}

// HasCommander reports whether name is one of the deck's commanders.
func (d Deck) HasCommander(name string) bool {
	for _, c := range d.Commanders {
		if strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

// Mainboard returns the mainboard entries.
func (d Deck) Mainboard() []DeckEntry {
	out := make([]DeckEntry, 0, len(d.Entries))
	for _, e := range d.Entries {
		if e.Board == BoardMain {
			out = append(out, e)
		}
	}
	return out
}

// CardCount returns the number of mainboard cards including duplicates.
func (d Deck) CardCount() int {
	n := 0
	for _, e := range d.Entries {
		if e.Board == BoardMain {
			n += e.Quantity
		}
	}
	return n
}

// ValidBracket reports whether b is a known power bracket.
func ValidBracket(b int) bool {
	return b >= 1 && b <= 4
}
