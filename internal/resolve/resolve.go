// Package resolve maps raw deck-list card names onto catalog entries.
//
// Resolution is a pure function of the raw string and the catalog: exact
// normalized lookup, then a punctuation-insensitive lookup, then the front
// face of a double-faced name, and finally a fuzzy match that must clear a
// high threshold without a close runner-up.
package resolve

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/deckstat/internal/catalog"
	"github.com/Veraticus/deckstat/internal/fuzzy"
	"github.com/Veraticus/deckstat/internal/model"
)

// Defaults for Options.
const (
	DefaultThreshold = 0.90
	DefaultMargin    = 0.02

	// suggestionFloor is the lowest score still offered as a hint on failure.
	suggestionFloor = 0.75
	maxSuggestions  = 3
	epsilon         = 1e-9
)

// Sentinel errors matched by errors.Is on *Error.
var (
	ErrNotFound  = errors.New("card not found")
	ErrAmbiguous = errors.New("ambiguous card name")
)

// Method records which step produced a match.
type Method string

// Resolution methods in the order they are tried.
const (
	MethodExact     Method = "exact"
	MethodLoose     Method = "loose"
	MethodFrontFace Method = "front_face"
	MethodFuzzy     Method = "fuzzy"
)

// Reason classifies a failure.
type Reason string

// Failure reasons.
const (
	ReasonNotFound  Reason = "not_found"
	ReasonAmbiguous Reason = "ambiguous"
)

// Error is a resolution failure. Candidates lists near misses (not found)
// or the competing cards (ambiguous).
type Error struct {
	Raw        string
	Reason     Reason
	Candidates []string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %q", e.Reason, e.Raw)
	if len(e.Candidates) > 0 {
		msg += " (did you mean " + strings.Join(e.Candidates, ", ") + "?)"
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e.Reason == ReasonAmbiguous {
		return ErrAmbiguous
	}
	return ErrNotFound
}

// Match is a successful resolution.
type Match struct {
	Card   *model.CardEntry
	Raw    string
	Method Method
	Score  float64
}

// Options tunes fuzzy acceptance.
type Options struct {
	Threshold float64
	Margin    float64
}

// Resolver resolves names against one catalog snapshot.
type Resolver struct {
	catalog *catalog.Catalog
	opts    Options
}

// New creates a resolver. Zero options take the defaults.
func New(cat *catalog.Catalog, opts Options) *Resolver {
	if opts.Threshold <= 0 || opts.Threshold > 1 {
		opts.Threshold = DefaultThreshold
	}
	if opts.Margin <= 0 {
		opts.Margin = DefaultMargin
	}
	return &Resolver{catalog: cat, opts: opts}
}

// Options returns the effective options.
func (r *Resolver) Options() Options {
	return r.opts
}

// Resolve maps a raw name onto a catalog card.
func (r *Resolver) Resolve(raw string) (Match, error) {
	normalized := catalog.Normalize(raw)
	if normalized == "" {
		return Match{}, &Error{Raw: raw, Reason: ReasonNotFound}
	}

	if m, ok := r.lookup(raw, normalized); ok {
		return m, nil
	}

	if i := strings.Index(normalized, "//"); i > 0 {
		front := strings.TrimSpace(normalized[:i])
		if m, ok := r.lookup(raw, front); ok {
			m.Method = MethodFrontFace
			return m, nil
		}
	}

	return r.fuzzyMatch(raw)
}

func (r *Resolver) lookup(raw, normalized string) (Match, bool) {
	if card, ok := r.catalog.Exact(normalized); ok {
		return Match{Card: card, Raw: raw, Method: MethodExact, Score: 1}, true
	}
	if card, ok := r.catalog.Loose(catalog.LooseKey(normalized)); ok {
		return Match{Card: card, Raw: raw, Method: MethodLoose, Score: 1}, true
	}
	return Match{}, false
}

type scored struct {
	card  *model.CardEntry
	score float64
}

func (r *Resolver) fuzzyMatch(raw string) (Match, error) {
	query := catalog.CompactKey(raw)
	if query == "" {
		return Match{}, &Error{Raw: raw, Reason: ReasonNotFound}
	}
	queryLen := utf8.RuneCountInString(query)

	floor := min(suggestionFloor, r.opts.Threshold-r.opts.Margin)
	best := make(map[*model.CardEntry]float64)
	for _, cand := range r.catalog.Candidates() {
		if fuzzy.UpperBound(queryLen, cand.KeyLen) < floor-epsilon {
			continue
		}
		score := fuzzy.Similarity(query, cand.Key)
		if score < floor-epsilon {
			continue
		}
		if score > best[cand.Card] {
			best[cand.Card] = score
		}
	}

	ranked := make([]scored, 0, len(best))
	for card, score := range best {
		ranked = append(ranked, scored{card: card, score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].card.Name < ranked[j].card.Name
	})

	if len(ranked) == 0 || ranked[0].score < r.opts.Threshold-epsilon {
		return Match{}, &Error{Raw: raw, Reason: ReasonNotFound, Candidates: names(ranked, maxSuggestions)}
	}

	top := ranked[0]
	rivals := 1
	for _, s := range ranked[1:] {
		if s.score >= top.score-r.opts.Margin-epsilon {
			rivals++
		}
	}
	if rivals > 1 {
		return Match{}, &Error{Raw: raw, Reason: ReasonAmbiguous, Candidates: names(ranked, rivals)}
	}

	return Match{Card: top.card, Raw: raw, Method: MethodFuzzy, Score: top.score}, nil
}

func names(ranked []scored, limit int) []string {
	if limit > len(ranked) {
		limit = len(ranked)
	}
	out := make([]string, 0, limit)
	for _, s := range ranked[:limit] {
		out = append(out, s.card.Name)
	}
	return out
}

// CommanderMatch is the outcome for one half of a commander line.
type CommanderMatch struct {
	Card      *model.CardEntry
	Err       error
	Commander model.Commander
}

// ResolveCommanders resolves a commander line that may name a partner
// pair joined by "+". Each half resolves independently; failures keep the
// raw name with Resolved=false. A line that resolves whole is one commander.
func (r *Resolver) ResolveCommanders(raw string) []CommanderMatch {
	if m, err := r.Resolve(raw); err == nil && m.Method != MethodFuzzy {
		return []CommanderMatch{commanderFromMatch(m)}
	}

	var parts []string
	if i := strings.Index(raw, "+"); i >= 0 {
		parts = []string{raw[:i], raw[i+1:]}
	} else {
		parts = []string{raw}
	}

	out := make([]CommanderMatch, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		m, err := r.Resolve(p)
		if err != nil {
			out = append(out, CommanderMatch{
				Err:       err,
				Commander: model.Commander{Name: p, RawName: p},
			})
			continue
		}
		out = append(out, commanderFromMatch(m))
	}
	return out
}

func commanderFromMatch(m Match) CommanderMatch {
	return CommanderMatch{
		Card: m.Card,
		Commander: model.Commander{
			Name:     m.Card.Name,
			RawName:  strings.TrimSpace(m.Raw),
			Resolved: true,
		},
	}
}
