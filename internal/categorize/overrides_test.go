package categorize

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Veraticus/deckstat/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLabels(t *testing.T) {
	tests := []struct {
		name    string
		labels  []string
		want    []model.Category
		wantErr bool
	}{
		{
			name:   "display order and dedupe",
			labels: []string{"draw", "Ramp", " draw "},
			want:   []model.Category{model.CategoryRamp, model.CategoryDraw},
		},
		{
			name:    "unknown label",
			labels:  []string{"ramp", "card_advantage"},
			wantErr: true,
		},
		{
			name:    "empty",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLabels(tt.labels)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOverridesRoundTrip(t *testing.T) {
	cards := []model.CardCategories{
		{Name: "Sol Ring", Categories: []model.Category{model.CategoryRamp}, Source: model.CategorySourceManual},
		{Name: "Fact or Fiction", Categories: []model.Category{model.CategoryDraw}, Source: model.CategorySourceManual},
		{Name: "Kaya's Guile", Categories: []model.Category{model.CategoryRemoval, model.CategoryProtection}, Source: model.CategorySourceManual},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteOverrides(&buf, cards))
	assert.True(t, strings.HasPrefix(buf.String(), "Fact or Fiction: [draw]\n"), buf.String())
	assert.Contains(t, buf.String(), "Kaya's Guile: [removal, protection]")

	got, err := ReadOverrides(&buf)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryMap{
		"Sol Ring":        {model.CategoryRamp},
		"Fact or Fiction": {model.CategoryDraw},
		"Kaya's Guile":    {model.CategoryRemoval, model.CategoryProtection},
	}, got)
}

func TestReadOverrides(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		got, err := ReadOverrides(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("block lists", func(t *testing.T) {
		got, err := ReadOverrides(strings.NewReader("Swords to Plowshares:\n  - removal\n"))
		require.NoError(t, err)
		assert.Equal(t, model.CategoryMap{"Swords to Plowshares": {model.CategoryRemoval}}, got)
	})

	t.Run("unknown category names the card", func(t *testing.T) {
		_, err := ReadOverrides(strings.NewReader("Sol Ring: [mana]\n"))
		require.ErrorIs(t, err, ErrUnknownCategory)
		assert.Contains(t, err.Error(), "Sol Ring")
	})

	t.Run("not a mapping", func(t *testing.T) {
		_, err := ReadOverrides(strings.NewReader("- ramp\n"))
		require.Error(t, err)
	})
}
