package deckfile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoCommander is returned when an export names no commander and none was
// given explicitly.
var ErrNoCommander = errors.New("could not detect commander")

type section int

const (
	sectionNone section = iota
	sectionCommander
	sectionMain
	sectionSkip
)

var sectionHeaders = map[string]section{
	"COMMANDER":    sectionCommander,
	"COMMANDERS":   sectionCommander,
	"COMMANDER(S)": sectionCommander,
	"MAINBOARD":    sectionMain,
	"DECK":         sectionMain,
	"COMPANION":    sectionMain,
	"SIDEBOARD":    sectionMain,
	"MAYBEBOARD":   sectionSkip,
	"CONSIDERING":  sectionSkip,
}

func headerOf(line string) (section, bool) {
	upper := strings.ToUpper(strings.TrimSpace(line))
	upper = strings.TrimSpace(strings.TrimPrefix(upper, "//"))
	s, ok := sectionHeaders[upper]
	return s, ok
}

// Export is a deck list copied out of Moxfield (or any MTGO-style text
// export), normalized into the deck file body format.
type Export struct {
	Commander string
	Partner   string
	// Lines are the card lines with section headers and maybeboard
	// entries removed.
	Lines []string
}

// NormalizeExport detects the commander(s) of an export and strips section
// headers. Commanders come from a commander section when one exists;
// otherwise the first card line is taken.
func NormalizeExport(text string) (Export, error) {
	var (
		exp        Export
		commanders []string
		firstCard  string
		current    = sectionNone
	)

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if s, ok := headerOf(line); ok {
			current = s
			continue
		}
		if line == "" || current == sectionSkip {
			continue
		}
		if strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
			continue
		}

		exp.Lines = append(exp.Lines, line)
		name := cleanName(quantityStrip.ReplaceAllString(line, ""))
		if name == "" {
			continue
		}
		if current == sectionCommander {
			commanders = append(commanders, name)
		}
		if firstCard == "" {
			firstCard = name
		}
	}
	if err := scanner.Err(); err != nil {
		return Export{}, fmt.Errorf("failed to read export: %w", err)
	}

	switch {
	case len(commanders) > 0:
		exp.Commander = commanders[0]
		if len(commanders) > 1 {
			exp.Partner = commanders[1]
		}
	case firstCard != "":
		exp.Commander = firstCard
	}
	return exp, nil
}

// SaveOptions names the deck being saved. Commander and Partner override
// the detected ones when set.
type SaveOptions struct {
	Commander string
	Partner   string
	Name      string
	Builder   string
	Bracket   int
}

// Save writes an export into dir under its canonical file name, never
// overwriting an existing file: a " (2)", " (3)"... suffix is added
// instead. It returns the written path.
func Save(dir string, exp Export, opts SaveOptions) (string, error) {
	commander, partner := exp.Commander, exp.Partner
	if opts.Commander != "" {
		commander, partner = opts.Commander, opts.Partner
	}
	if commander == "" {
		return "", ErrNoCommander
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create deck directory: %w", err)
	}

	name := Filename(commander, partner, opts.Bracket, opts.Name, opts.Builder)
	stem := strings.TrimSuffix(name, fileExtension)
	body := []byte(strings.Join(exp.Lines, "\n") + "\n")

	for i := 1; ; i++ {
		candidate := name
		if i > 1 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, fileExtension)
		}
		path := filepath.Join(dir, candidate)
		fh, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create deck file: %w", err)
		}
		if _, err := fh.Write(body); err != nil {
			_ = fh.Close()
			return "", fmt.Errorf("failed to write deck file: %w", err)
		}
		if err := fh.Close(); err != nil {
			return "", fmt.Errorf("failed to write deck file: %w", err)
		}
		return path, nil
	}
}
