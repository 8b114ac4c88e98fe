// Package deckfile reads deck list text files. Deck metadata lives in the
// file name, `Commander[+Partner]--Bracket--Deck Name[--Builder].txt`, and
// the body is one card per line.
package deckfile

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/model"
)

const (
	fieldSeparator   = "--"
	partnerSeparator = "+"
	fileExtension    = ".txt"
)

// Metadata is what a deck file name encodes.
type Metadata struct {
	SourceFile string
	Name       string
	Builder    string
	// Commanders holds the raw commander line split on the first "+".
	Commanders []string
	// CommanderLine is the unsplit commander field, used for partner
	// resolution when a single card name itself contains "+".
	CommanderLine string
	Bracket       int
}

// ParseFilename extracts deck metadata from a file path. A bracket that is
// not an integer in 1-4 is reported as a warning and left as 0.
func ParseFilename(path string) (Metadata, []string, error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	parts := strings.Split(stem, fieldSeparator)
	if len(parts) < 2 {
		return Metadata{}, nil, fmt.Errorf("%w: %q does not match Commander--Bracket--Deck Name.txt",
			common.ErrInvalidDeckFile, base)
	}

	meta := Metadata{
		SourceFile:    base,
		CommanderLine: strings.TrimSpace(parts[0]),
	}
	if meta.CommanderLine == "" {
		return Metadata{}, nil, fmt.Errorf("%w: %q has no commander", common.ErrInvalidDeckFile, base)
	}
	meta.Commanders = splitCommanders(meta.CommanderLine)

	var warnings []string
	bracketRaw := strings.TrimSpace(parts[1])
	if bracketRaw != "" {
		bracket, err := strconv.Atoi(bracketRaw)
		switch {
		case err != nil:
			warnings = append(warnings, fmt.Sprintf("could not parse bracket from %q", bracketRaw))
		case !model.ValidBracket(bracket):
			warnings = append(warnings, fmt.Sprintf("bracket %d outside expected range 1-4", bracket))
		default:
			meta.Bracket = bracket
		}
	}

	if len(parts) > 2 {
		meta.Name = strings.TrimSpace(parts[2])
	}
	if meta.Name == "" {
		meta.Name = meta.Commanders[0] + " Deck"
	}
	if len(parts) > 3 {
		meta.Builder = strings.TrimSpace(strings.Join(parts[3:], fieldSeparator))
	}
	return meta, warnings, nil
}

func splitCommanders(line string) []string {
	first, second, found := strings.Cut(line, partnerSeparator)
	first = strings.TrimSpace(first)
	second = strings.TrimSpace(second)
	if !found || second == "" {
		return []string{strings.TrimSpace(line)}
	}
	if first == "" {
		return []string{second}
	}
	return []string{first, second}
}

// Filename builds the canonical file name for a deck. Characters that are
// unsafe in file names are replaced; commas are dropped.
func Filename(commander, partner string, bracket int, name, builder string) string {
	head := sanitize(commander)
	if partner != "" {
		head += partnerSeparator + sanitize(partner)
	}
	parts := []string{head, strconv.Itoa(bracket)}
	if name = sanitize(name); name == "" {
		name = "Deck"
	}
	parts = append(parts, name)
	if builder = sanitize(builder); builder != "" {
		parts = append(parts, builder)
	}
	return strings.Join(parts, fieldSeparator) + fileExtension
}

var filenameReplacer = strings.NewReplacer(
	",", "",
	"/", "-",
	`\`, "-",
	":", " -",
	`"`, "'",
	"<", "",
	">", "",
	"|", "",
	"?", "",
	"*", "",
)

func sanitize(s string) string {
	s = filenameReplacer.Replace(s)
	for strings.Contains(s, fieldSeparator) {
		s = strings.ReplaceAll(s, fieldSeparator, "-")
	}
	return strings.Join(strings.Fields(s), " ")
}
