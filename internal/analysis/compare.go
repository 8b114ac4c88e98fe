package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/model"
)

// CompareOptions tunes CompareBrackets.
type CompareOptions struct {
	// MinDiff is the smallest play-rate gap reported, as a fraction.
	// Defaults to 0.2.
	MinDiff float64
	// Limit caps each side of the report. Defaults to 20.
	Limit    int
	BracketA int
	BracketB int
}

// CompareBrackets finds the cards whose play rate differs most between two
// sets of decks, usually the same colors at two brackets.
func CompareBrackets(a, b []model.Deck, opts CompareOptions) (*CompareReport, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, fmt.Errorf("%w: need decks in both brackets (bracket %d: %d, bracket %d: %d)",
			common.ErrNoDecks, opts.BracketA, len(a), opts.BracketB, len(b))
	}
	if opts.MinDiff <= 0 {
		opts.MinDiff = 0.2
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}

	countsA, _ := deckPresence(a, nil)
	countsB, _ := deckPresence(b, nil)

	names := make(map[string]bool, len(countsA)+len(countsB))
	for n := range countsA {
		names[n] = true
	}
	for n := range countsB {
		names[n] = true
	}

	report := &CompareReport{
		BracketA: opts.BracketA,
		BracketB: opts.BracketB,
		DecksA:   len(a),
		DecksB:   len(b),
	}
	for name := range names {
		shift := CardShift{
			Name:  name,
			RateA: float64(countsA[name]) / float64(len(a)),
			RateB: float64(countsB[name]) / float64(len(b)),
		}
		diff := shift.Diff()
		if math.Abs(diff) <= opts.MinDiff {
			continue
		}
		if diff > 0 {
			report.MoreInB = append(report.MoreInB, shift)
		} else {
			report.MoreInA = append(report.MoreInA, shift)
		}
	}

	report.MoreInA = rankShifts(report.MoreInA, opts.Limit)
	report.MoreInB = rankShifts(report.MoreInB, opts.Limit)
	return report, nil
}

func rankShifts(shifts []CardShift, limit int) []CardShift {
	sort.Slice(shifts, func(i, j int) bool {
		di, dj := math.Abs(shifts[i].Diff()), math.Abs(shifts[j].Diff())
		if di != dj {
			return di > dj
		}
		return shifts[i].Name < shifts[j].Name
	})
	if len(shifts) > limit {
		shifts = shifts[:limit]
	}
	return shifts
}
