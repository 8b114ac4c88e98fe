package deckfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		want         Metadata
		wantWarnings int
		wantErr      bool
	}{
		{
			name: "full",
			path: "/decks/Kinnan, Bonder Prodigy--4--Blue Farm--Alice.txt",
			want: Metadata{
				SourceFile:    "Kinnan, Bonder Prodigy--4--Blue Farm--Alice.txt",
				CommanderLine: "Kinnan, Bonder Prodigy",
				Commanders:    []string{"Kinnan, Bonder Prodigy"},
				Bracket:       4,
				Name:          "Blue Farm",
				Builder:       "Alice",
			},
		},
		{
			name: "partners without deck name",
			path: "Thrasios, Triton Hero+Tymna the Weaver--3.txt",
			want: Metadata{
				SourceFile:    "Thrasios, Triton Hero+Tymna the Weaver--3.txt",
				CommanderLine: "Thrasios, Triton Hero+Tymna the Weaver",
				Commanders:    []string{"Thrasios, Triton Hero", "Tymna the Weaver"},
				Bracket:       3,
				Name:          "Thrasios, Triton Hero Deck",
			},
		},
		{
			name: "bracket out of range",
			path: "Atraxa--7--Counters.txt",
			want: Metadata{
				SourceFile:    "Atraxa--7--Counters.txt",
				CommanderLine: "Atraxa",
				Commanders:    []string{"Atraxa"},
				Name:          "Counters",
			},
			wantWarnings: 1,
		},
		{
			name: "bracket not a number",
			path: "Atraxa--high--Counters.txt",
			want: Metadata{
				SourceFile:    "Atraxa--high--Counters.txt",
				CommanderLine: "Atraxa",
				Commanders:    []string{"Atraxa"},
				Name:          "Counters",
			},
			wantWarnings: 1,
		},
		{name: "no separator", path: "Atraxa Counters.txt", wantErr: true},
		{name: "empty commander", path: "--2--Counters.txt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warnings, err := ParseFilename(tt.path)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrInvalidDeckFile)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, warnings, tt.wantWarnings)
		})
	}
}

func TestParseList(t *testing.T) {
	text := strings.Join([]string{
		"// Ramp",
		"# Creatures",
		"---",
		"COMMANDER: 1 Atraxa, Praetors' Voice",
		"1 Sol Ring",
		"1x Arcane Signet (M21) 123",
		"Command Tower",
		"10 Forest # basics",
		"1 Swords to Plowshares [STA]",
		"1 Llanowar Elves 195",
		"0 Island",
		"99999999999999999999999 Plains",
		"4x",
		"",
		"COMPANION: Lurrus of the Dream-Den",
		"SIDEBOARD:",
		"1 Pithing Needle",
	}, "\n")

	list, err := ParseList(strings.NewReader(text))
	require.NoError(t, err)

	assert.Equal(t, "Atraxa, Praetors' Voice", list.Commander)
	assert.Equal(t, []Entry{
		{Name: "Atraxa, Praetors' Voice", Quantity: 1, Board: model.BoardCommander, Line: 4},
		{Name: "Sol Ring", Quantity: 1, Board: model.BoardMain, Line: 5},
		{Name: "Arcane Signet", Quantity: 1, Board: model.BoardMain, Line: 6},
		{Name: "Command Tower", Quantity: 1, Board: model.BoardMain, Line: 7},
		{Name: "Forest", Quantity: 10, Board: model.BoardMain, Line: 8},
		{Name: "Swords to Plowshares", Quantity: 1, Board: model.BoardMain, Line: 9},
		{Name: "Llanowar Elves", Quantity: 1, Board: model.BoardMain, Line: 10},
		{Name: "Lurrus of the Dream-Den", Quantity: 1, Board: model.BoardSide, Line: 15},
		{Name: "Pithing Needle", Quantity: 1, Board: model.BoardSide, Line: 17},
	}, list.Entries)

	require.Len(t, list.Malformed, 3)
	assert.Equal(t, 11, list.Malformed[0].Line)
	assert.Equal(t, 12, list.Malformed[1].Line)
	assert.Equal(t, 13, list.Malformed[2].Line)
	assert.Contains(t, list.Malformed[0].Error(), "line 11")
}

func TestParsePlacesCommanders(t *testing.T) {
	body := "1 Sol Ring\n1 tymna the weaver\n1 Command Tower\n"
	f, err := Parse("Thrasios, Triton Hero+Tymna the Weaver--3--Pod.txt", strings.NewReader(body))
	require.NoError(t, err)

	var commanders []Entry
	mainboard := 0
	for _, e := range f.Entries {
		if e.Board == model.BoardCommander {
			commanders = append(commanders, e)
		} else {
			mainboard++
		}
	}
	require.Len(t, commanders, 2)
	assert.Equal(t, "tymna the weaver", commanders[0].Name)
	assert.Equal(t, 2, commanders[0].Line)
	assert.Equal(t, "Thrasios, Triton Hero", commanders[1].Name)
	assert.Zero(t, commanders[1].Line)
	assert.Equal(t, 2, mainboard)
	assert.Empty(t, f.Warnings)
}

func TestParseWarnsOnCommanderMismatch(t *testing.T) {
	f, err := Parse("Atraxa--2--Counters.txt", strings.NewReader("COMMANDER: Ezuri\n1 Sol Ring\n"))
	require.NoError(t, err)
	require.Len(t, f.Warnings, 1)
	assert.Contains(t, f.Warnings[0], "Ezuri")
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Atraxa--2--Counters.txt")
	require.NoError(t, os.WriteFile(path, []byte("1 Sol Ring\n"), 0o600))

	f, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Counters", f.Name)
	assert.Len(t, f.Entries, 2)

	_, err = ParseFile(filepath.Join(dir, "Missing--2--Deck.txt"))
	require.ErrorIs(t, err, common.ErrInvalidDeckFile)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Kinnan Bonder Prodigy--4--Blue Farm--Alice.txt",
		Filename("Kinnan, Bonder Prodigy", "", 4, "Blue Farm", "Alice"))
	assert.Equal(t, "Thrasios Triton Hero+Tymna the Weaver--0--Deck.txt",
		Filename("Thrasios, Triton Hero", "Tymna the Weaver", 0, "", ""))
	assert.Equal(t, "Atraxa--2--Counters - v2-Final--Bob.txt",
		Filename("Atraxa", "", 2, "Counters: v2--Final", "Bob?"))

	meta, _, err := ParseFilename(Filename("Atraxa", "", 2, "Counters: v2--Final", "Bob"))
	require.NoError(t, err)
	assert.Equal(t, "Counters - v2-Final", meta.Name)
	assert.Equal(t, "Bob", meta.Builder)
}

func TestNormalizeExport(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		commander string
		partner   string
		lines     []string
	}{
		{
			name:      "commander header",
			text:      "COMMANDER\n1 Kinnan, Bonder Prodigy (IKO) 192\n\nMAINBOARD\n1 Sol Ring\n1 Island\n\nMAYBEBOARD\n1 Mana Crypt\n",
			commander: "Kinnan, Bonder Prodigy",
			lines:     []string{"1 Kinnan, Bonder Prodigy (IKO) 192", "1 Sol Ring", "1 Island"},
		},
		{
			name:      "comment headers with partners",
			text:      "// Commander\n1 Thrasios, Triton Hero\n1 Tymna the Weaver\n\n// Mainboard\n1 Sol Ring\n// Considering\n1 Mana Vault\n",
			commander: "Thrasios, Triton Hero",
			partner:   "Tymna the Weaver",
			lines:     []string{"1 Thrasios, Triton Hero", "1 Tymna the Weaver", "1 Sol Ring"},
		},
		{
			name:      "plain list uses first card",
			text:      "1 Atraxa, Praetors' Voice\n\n1 Sol Ring\n",
			commander: "Atraxa, Praetors' Voice",
			lines:     []string{"1 Atraxa, Praetors' Voice", "1 Sol Ring"},
		},
		{name: "empty", text: "\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, err := NormalizeExport(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.commander, exp.Commander)
			assert.Equal(t, tt.partner, exp.Partner)
			assert.Equal(t, tt.lines, exp.Lines)
		})
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	exp, err := NormalizeExport("COMMANDER\n1 Kinnan, Bonder Prodigy\n\nDECK\n1 Sol Ring\n")
	require.NoError(t, err)

	first, err := Save(dir, exp, SaveOptions{Bracket: 4, Name: "Farm"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Kinnan Bonder Prodigy--4--Farm.txt"), first)

	second, err := Save(dir, exp, SaveOptions{Bracket: 4, Name: "Farm"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Kinnan Bonder Prodigy--4--Farm (2).txt"), second)

	f, err := ParseFile(first)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kinnan Bonder Prodigy"}, f.Commanders)
	require.Len(t, f.Entries, 2)
	assert.Equal(t, "Kinnan, Bonder Prodigy", f.Entries[0].Name)
	assert.Equal(t, model.BoardCommander, f.Entries[0].Board)
	assert.Equal(t, model.BoardMain, f.Entries[1].Board)

	_, err = Save(dir, Export{}, SaveOptions{})
	require.ErrorIs(t, err, ErrNoCommander)
}
