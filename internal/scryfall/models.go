package scryfall

import (
	"strings"
	"time"

	"github.com/Veraticus/deckstat/internal/model"
)

// Card is the subset of a Scryfall oracle card object deckstat reads.
type Card struct {
	ID            string     `json:"id"`
	OracleID      string     `json:"oracle_id"`
	Name          string     `json:"name"`
	Layout        string     `json:"layout"`
	ManaCost      string     `json:"mana_cost,omitempty"`
	TypeLine      string     `json:"type_line"`
	OracleText    string     `json:"oracle_text,omitempty"`
	ColorIdentity []string   `json:"color_identity"`
	Keywords      []string   `json:"keywords,omitempty"`
	CardFaces     []CardFace `json:"card_faces,omitempty"`
	CMC           float64    `json:"cmc"`
}

// CardFace is one face of a multi-faced card.
type CardFace struct {
	Name       string `json:"name"`
	ManaCost   string `json:"mana_cost"`
	TypeLine   string `json:"type_line"`
	OracleText string `json:"oracle_text,omitempty"`
}

// BulkData describes a downloadable bulk file.
type BulkData struct {
	UpdatedAt       time.Time `json:"updated_at"`
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Name            string    `json:"name"`
	DownloadURI     string    `json:"download_uri"`
	ContentType     string    `json:"content_type"`
	ContentEncoding string    `json:"content_encoding"`
	Size            int64     `json:"size"`
}

// APIError is an error object returned by the Scryfall API.
type APIError struct {
	Object  string `json:"object"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Status  int    `json:"status"`
}

func (e *APIError) Error() string {
	return "scryfall: " + e.Code + ": " + e.Details
}

// skippedLayouts are bulk entries that are not deck-legal cards.
var skippedLayouts = map[string]bool{
	"token":              true,
	"double_faced_token": true,
	"emblem":             true,
	"art_series":         true,
}

// Playable reports whether the card belongs in the catalog.
func (c Card) Playable() bool {
	return c.Name != "" && !skippedLayouts[c.Layout]
}

// ToEntry converts the card to the catalog representation. Multi-faced
// cards without top-level text get their faces joined with " // ".
func (c Card) ToEntry() model.CardEntry {
	typeLine := c.TypeLine
	oracle := c.OracleText
	manaCost := c.ManaCost

	if len(c.CardFaces) > 0 {
		var types, texts, costs []string
		for _, f := range c.CardFaces {
			types = append(types, f.TypeLine)
			texts = append(texts, f.OracleText)
			costs = append(costs, f.ManaCost)
		}
		if oracle == "" {
			oracle = strings.Join(texts, "\n//\n")
		}
		if typeLine == "" {
			typeLine = strings.Join(types, " // ")
		}
		if manaCost == "" {
			manaCost = costs[0]
		}
	}

	return model.CardEntry{
		ID:            c.ID,
		Name:          c.Name,
		ManaValue:     c.CMC,
		ManaCost:      manaCost,
		ColorIdentity: model.ColorIdentityFromSymbols(c.ColorIdentity),
		TypeLine:      typeLine,
		OracleText:    oracle,
		Keywords:      c.Keywords,
		Layout:        c.Layout,
	}
}
