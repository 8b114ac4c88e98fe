package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Sol Ring ", "sol ring"},
		{`"Sol Ring"`, "sol ring"},
		{"“Sol Ring”", "sol ring"},
		{"Urza’s Saga", "urza's saga"},
		{"Lightning    Bolt", "lightning bolt"},
		{"'Sol Ring'", "sol ring"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestLooseAndCompactKeys(t *testing.T) {
	assert.Equal(t, "nivmizzet parun", LooseKey("Niv-Mizzet, Parun"))
	assert.Equal(t, LooseKey("Niv-Mizzet, Parun"), LooseKey("Niv-Mizzet Parun"))
	assert.Equal(t, "urzas saga", LooseKey("Urza's Saga"))
	assert.Equal(t, "jotun grunt", LooseKey("Jötun Grunt"))
	assert.Equal(t, "aetherflux reservoir", LooseKey("Ætherflux Reservoir"))
	assert.Equal(t, "solring", CompactKey("Sol Ring"))
}

func fixture() *Catalog {
	return New([]model.CardEntry{
		{Name: "Sol Ring", ManaValue: 1},
		{Name: "Delver of Secrets // Insectile Aberration", ManaValue: 1},
		{Name: "Fire // Ice", ManaValue: 4},
		{Name: "Fire", ManaValue: 1},
		{Name: "Sol Ring", ManaValue: 99},
		{Name: "Ab-C", ManaValue: 2},
		{Name: "A.bC", ManaValue: 3},
	})
}

func TestCatalogLookups(t *testing.T) {
	c := fixture()
	assert.Equal(t, 6, c.Len())

	card, ok := c.Exact("sol ring")
	require.True(t, ok)
	assert.InDelta(t, 1.0, card.ManaValue, 1e-9, "first duplicate wins")

	card, ok = c.Exact("delver of secrets")
	require.True(t, ok)
	assert.Equal(t, "Delver of Secrets // Insectile Aberration", card.Name)

	card, ok = c.Exact("fire")
	require.True(t, ok)
	assert.Equal(t, "Fire", card.Name, "a real card beats a front face")

	_, ok = c.Loose("abc")
	assert.False(t, ok, "loose key shared by two cards is ambiguous")

	card, ok = c.Loose("sol ring")
	require.True(t, ok)
	assert.Equal(t, "Sol Ring", card.Name)

	_, ok = c.Get("sol ring")
	assert.False(t, ok)
	card, ok = c.Get("Sol Ring")
	require.True(t, ok)
	assert.Equal(t, "Sol Ring", card.Name)
}

func TestCatalogCandidatesSorted(t *testing.T) {
	c := fixture()
	cands := c.Candidates()
	require.NotEmpty(t, cands)
	for i := 1; i < len(cands); i++ {
		assert.LessOrEqual(t, cands[i-1].Key, cands[i].Key)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oracle.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id":"a","name":"Sol Ring","layout":"normal","cmc":1,"type_line":"Artifact","color_identity":[]},
		{"id":"b","name":"Goblin","layout":"token","type_line":"Token Creature","color_identity":["R"]}
	]`), 0o600))

	c, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = Load(context.Background(), filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrCatalogUnavailable)
	assert.Contains(t, err.Error(), "deckstat init")
}

func TestStale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oracle.json")
	assert.True(t, Stale(path, time.Hour))

	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o600))
	assert.False(t, Stale(path, time.Hour))

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))
	assert.True(t, Stale(path, time.Hour))
	assert.False(t, Stale(path, 0))
}
