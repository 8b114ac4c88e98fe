package scryfall

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// StreamCards decodes a bulk file (one JSON array) card by card and calls
// fn for every playable card. Memory stays bounded by one card object.
func StreamCards(r io.Reader, fn func(Card) error) (int, error) {
	dec := json.NewDecoder(bufio.NewReaderSize(r, 1<<20))

	tok, err := dec.Token()
	if err != nil {
		return 0, fmt.Errorf("failed to read bulk file: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return 0, fmt.Errorf("bulk file must be a JSON array, got %v", tok)
	}

	count := 0
	for dec.More() {
		var card Card
		if err := dec.Decode(&card); err != nil {
			return count, fmt.Errorf("failed to decode card %d: %w", count+1, err)
		}
		if !card.Playable() {
			continue
		}
		if err := fn(card); err != nil {
			return count, err
		}
		count++
	}

	if _, err := dec.Token(); err != nil {
		return count, fmt.Errorf("failed to read end of bulk file: %w", err)
	}
	return count, nil
}
