package llm

import (
	"testing"

	"github.com/Veraticus/deckstat/internal/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanMarkdownWrapper(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: ` {"a":1} `, want: `{"a":1}`},
		{name: "json fence", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", input: "```\n{\"a\":1}\n```", want: `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanMarkdownWrapper(tt.input))
		})
	}
}

func TestParseCategories(t *testing.T) {
	content := "Here you go:\n" + `{
		"Sol Ring": ["Ramp"],
		"Swords to Plowshares": "removal",
		"Mystic Remora": ["draw", "synergy"],
		"Grizzly Bears": ["vanilla"],
		"Cyclonic Rift": ["board_wipe", "removal"]
	}`

	got, err := parseCategories(content)
	require.NoError(t, err)

	want := map[string][]model.Category{
		"Sol Ring":             {model.CategoryRamp},
		"Swords to Plowshares": {model.CategoryRemoval},
		"Mystic Remora":        {model.CategoryDraw},
		"Cyclonic Rift":        {model.CategoryRemoval, model.CategoryBoardWipe},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseCategories() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCategoriesInvalid(t *testing.T) {
	_, err := parseCategories("I cannot help with that.")
	assert.ErrorContains(t, err, "failed to parse JSON response")
}
