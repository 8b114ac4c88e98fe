package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/deckstat/internal/analysis"
	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/cooccur"
	"github.com/Veraticus/deckstat/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBracketRange(t *testing.T) {
	tests := []struct {
		in      string
		lo, hi  int
		wantErr bool
	}{
		{in: "3", lo: 3, hi: 3},
		{in: "2-4", lo: 2, hi: 4},
		{in: " 1 - 2 ", lo: 1, hi: 2},
		{in: "0", wantErr: true},
		{in: "5", wantErr: true},
		{in: "4-2", wantErr: true},
		{in: "2-", wantErr: true},
		{in: "high", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			lo, hi, err := parseBracketRange(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

func TestFilterFlagsBuild(t *testing.T) {
	ug, err := model.ParseColorIdentity("UG")
	require.NoError(t, err)

	tests := []struct {
		name    string
		flags   filterFlags
		want    model.DeckFilter
		scope   string
		wantErr bool
	}{
		{
			name:  "empty",
			scope: "All decks",
		},
		{
			name:  "exact colors",
			flags: filterFlags{colors: "gu"},
			want:  model.DeckFilter{Colors: &ug, ColorMode: model.ColorModeExact},
			scope: "Simic",
		},
		{
			name:  "superset with bracket range",
			flags: filterFlags{colors: "UG", include: true, bracket: "2-3"},
			want:  model.DeckFilter{Colors: &ug, ColorMode: model.ColorModeContains, BracketMin: 2, BracketMax: 3},
			scope: "with Simic, bracket 2-3",
		},
		{
			name:  "subset, tag and commander",
			flags: filterFlags{colors: "UG", subset: true, tag: "cube", commander: "Kinnan, Bonder Prodigy"},
			want: model.DeckFilter{
				Colors: &ug, ColorMode: model.ColorModeSubset,
				Tag: "cube", Commander: "Kinnan, Bonder Prodigy",
			},
			scope: "within Simic, Kinnan, Bonder Prodigy, tag cube",
		},
		{
			name:    "bad colors",
			flags:   filterFlags{colors: "UGX"},
			wantErr: true,
		},
		{
			name:    "bad bracket",
			flags:   filterFlags{bracket: "7"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.flags.build()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.scope, tt.flags.scope())
		})
	}
}

func TestPackageOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cmd := packagesCmd()
		opts, err := packageOptions(cmd)
		require.NoError(t, err)
		assert.InDelta(t, 0.7, opts.Threshold, 1e-9)
		assert.Equal(t, 2, opts.Size)
		assert.Equal(t, 2, opts.MinSupport)
		assert.Equal(t, cooccur.UniversalFlag, opts.Universal)
	})

	t.Run("skip staples extends the stop list", func(t *testing.T) {
		cmd := packagesCmd()
		require.NoError(t, cmd.Flags().Parse([]string{
			"--stop-list", "Swords to Plowshares", "--skip-staples", "--universal", "exclude", "--size", "3",
		}))
		opts, err := packageOptions(cmd)
		require.NoError(t, err)
		assert.Equal(t, append([]string{"Swords to Plowshares"}, cooccur.AutoIncludes...), opts.StopList)
		assert.Equal(t, cooccur.UniversalExclude, opts.Universal)
		assert.Equal(t, 3, opts.Size)
	})

	t.Run("out of range values pass through", func(t *testing.T) {
		cmd := packagesCmd()
		require.NoError(t, cmd.Flags().Parse([]string{"--threshold", "1.5", "--size", "1"}))
		opts, err := packageOptions(cmd)
		require.NoError(t, err)
		assert.InDelta(t, 1.5, opts.Threshold, 1e-9)
		assert.Equal(t, 1, opts.Size)
	})

	t.Run("unknown universal", func(t *testing.T) {
		cmd := packagesCmd()
		require.NoError(t, cmd.Flags().Parse([]string{"--universal", "hide"}))
		_, err := packageOptions(cmd)
		require.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}

func TestCapStaples(t *testing.T) {
	cards := func(names ...string) []analysis.StapleCard {
		out := make([]analysis.StapleCard, len(names))
		for i, n := range names {
			out[i] = analysis.StapleCard{Name: n}
		}
		return out
	}
	report := &analysis.StaplesReport{Groups: []analysis.CategoryStaples{
		{Category: model.CategoryRamp, Cards: cards("Sol Ring", "Arcane Signet")},
		{Category: model.CategoryDraw, Cards: cards("Rhystic Study", "Mystic Remora")},
		{Category: model.CategoryRemoval, Cards: cards("Swords to Plowshares")},
	}}

	capStaples(report, 3)
	require.Len(t, report.Groups, 2)
	assert.Len(t, report.Groups[0].Cards, 2)
	assert.Equal(t, cards("Rhystic Study"), report.Groups[1].Cards)

	capStaples(report, 0)
	assert.Len(t, report.Groups, 2)
}

func TestImportPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b--2--B.txt", "a--1--A.txt", "notes.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	got, err := importPaths(nil, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a--1--A.txt"), filepath.Join(dir, "b--2--B.txt")}, got)

	got, err = importPaths([]string{"explicit.txt"}, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"explicit.txt"}, got)

	_, err = importPaths(nil, filepath.Join(dir, "missing"))
	require.Error(t, err)
}
