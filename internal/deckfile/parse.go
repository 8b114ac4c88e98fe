package deckfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/Veraticus/deckstat/internal/catalog"
	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/model"
)

var (
	quantityLine  = regexp.MustCompile(`^(\d+)x?\s+(.+)$`)
	quantityOnly  = regexp.MustCompile(`^\d+x?$`)
	quantityStrip = regexp.MustCompile(`^\d+x?\s+`)
	printingInfo  = regexp.MustCompile(`\s*[(\[][A-Z0-9]{2,5}[)\]].*$`)
	collectorNum  = regexp.MustCompile(`\s+\d+\s*$`)
)

// Entry is one parsed card line.
type Entry struct {
	Name     string
	Board    model.Board
	Quantity int
	// Line is the 1-based source line, 0 for commanders taken from the
	// file name.
	Line int
}

// LineError describes a card line that could not be parsed.
type LineError struct {
	Text   string
	Reason string
	Line   int
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// List is the parsed body of a deck file.
type List struct {
	Entries   []Entry
	Malformed []LineError
	// Commander is the name from a "COMMANDER:" line, if any.
	Commander string
}

// File is a fully parsed deck file.
type File struct {
	Metadata
	List
	Warnings []string
}

// ParseList reads card lines. Malformed lines are collected and skipped.
func ParseList(r io.Reader) (List, error) {
	var list List
	board := model.BoardMain

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "---") {
			continue
		}

		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "COMMANDER:"):
			name := prefixedName(line)
			if name == "" {
				list.Malformed = append(list.Malformed, LineError{Line: lineNo, Text: line, Reason: "missing card name"})
				continue
			}
			if list.Commander == "" {
				list.Commander = name
			}
			list.Entries = append(list.Entries, Entry{Name: name, Quantity: 1, Board: model.BoardCommander, Line: lineNo})
			continue
		case strings.HasPrefix(upper, "COMPANION:"):
			if name := prefixedName(line); name != "" {
				list.Entries = append(list.Entries, Entry{Name: name, Quantity: 1, Board: model.BoardSide, Line: lineNo})
			}
			continue
		case upper == "SIDEBOARD" || strings.HasPrefix(upper, "SIDEBOARD:"):
			board = model.BoardSide
			continue
		}

		entry, lerr := parseCardLine(line)
		if lerr != "" {
			list.Malformed = append(list.Malformed, LineError{Line: lineNo, Text: line, Reason: lerr})
			continue
		}
		if entry.Name == "" {
			continue
		}
		entry.Board = board
		entry.Line = lineNo
		list.Entries = append(list.Entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return List{}, fmt.Errorf("failed to read deck list: %w", err)
	}
	return list, nil
}

func prefixedName(line string) string {
	_, name, _ := strings.Cut(line, ":")
	name = quantityStrip.ReplaceAllString(strings.TrimSpace(name), "")
	return cleanName(name)
}

// parseCardLine returns a failure reason instead of an error so the caller
// can attach the line number.
func parseCardLine(line string) (Entry, string) {
	if i := strings.Index(line, " #"); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	if quantityOnly.MatchString(line) {
		return Entry{}, "missing card name"
	}

	entry := Entry{Quantity: 1, Name: line}
	if m := quantityLine.FindStringSubmatch(line); m != nil {
		qty, err := strconv.Atoi(m[1])
		if err != nil {
			return Entry{}, "quantity out of range"
		}
		if qty < 1 {
			return Entry{}, "quantity must be at least 1"
		}
		entry.Quantity = qty
		entry.Name = m[2]
	}
	entry.Name = cleanName(entry.Name)
	return entry, ""
}

// cleanName strips printing info such as "(SET) 123" or "[SET]" and a
// trailing collector number.
func cleanName(name string) string {
	name = printingInfo.ReplaceAllString(name, "")
	name = collectorNum.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// Parse reads a deck file from r, taking metadata from the file name. The
// commanders named in the file name are moved to the commander board, or
// added when the list does not mention them.
func Parse(path string, r io.Reader) (*File, error) {
	meta, warnings, err := ParseFilename(path)
	if err != nil {
		return nil, err
	}
	list, err := ParseList(r)
	if err != nil {
		return nil, err
	}

	f := &File{Metadata: meta, List: list, Warnings: warnings}
	if list.Commander != "" && !containsFold(meta.Commanders, list.Commander) {
		f.Warnings = append(f.Warnings, fmt.Sprintf(
			"commander %q in list differs from file name; using %q", list.Commander, meta.Commanders[0]))
	}
	f.placeCommanders()
	return f, nil
}

// ParseFile opens and parses the deck file at path.
func ParseFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidDeckFile, err)
	}
	defer func() { _ = fh.Close() }()
	return Parse(path, fh)
}

func (f *File) placeCommanders() {
	for _, name := range f.Commanders {
		if f.hasOnBoard(name, model.BoardCommander) {
			continue
		}
		moved := false
		for i := range f.Entries {
			e := &f.Entries[i]
			if e.Board == model.BoardMain && sameCard(e.Name, name) {
				e.Board = model.BoardCommander
				moved = true
				break
			}
		}
		if !moved {
			f.Entries = append(f.Entries, Entry{Name: name, Quantity: 1, Board: model.BoardCommander})
		}
	}
}

func (f *File) hasOnBoard(name string, board model.Board) bool {
	for _, e := range f.Entries {
		if e.Board == board && sameCard(e.Name, name) {
			return true
		}
	}
	return false
}

func containsFold(names []string, name string) bool {
	for _, n := range names {
		if sameCard(n, name) {
			return true
		}
	}
	return false
}

// sameCard compares names the way file names mangle them: commas dropped,
// case ignored.
func sameCard(a, b string) bool {
	return catalog.LooseKey(a) == catalog.LooseKey(b)
}
