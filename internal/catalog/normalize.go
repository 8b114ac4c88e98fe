package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var quoteReplacer = strings.NewReplacer(
	"’", "'", // right single quote
	"‘", "'", // left single quote
	"ʼ", "'", // modifier apostrophe
	"“", `"`,
	"”", `"`,
)

// Normalize is the exact-match key: trimmed, unquoted, lowercased, curly
// apostrophes folded and inner whitespace collapsed.
func Normalize(name string) string {
	s := quoteReplacer.Replace(strings.TrimSpace(name))
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			s = strings.TrimSpace(s[1 : len(s)-1])
			continue
		}
		break
	}
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// LooseKey drops accents and all punctuation from the normalized name, so
// "Niv-Mizzet Parun" and "Niv-Mizzet, Parun" share a key.
func LooseKey(name string) string {
	folded := foldAccents(Normalize(name))
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// CompactKey is the loose key without spaces; the fuzzy matcher compares
// these so that spacing typos cost nothing.
func CompactKey(name string) string {
	return strings.ReplaceAll(LooseKey(name), " ", "")
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return strings.ReplaceAll(strings.ReplaceAll(out, "æ", "ae"), "Æ", "ae")
}
