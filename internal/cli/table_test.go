package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	tbl := NewTable("Card", "Decks").AlignRight(1)
	assert.Equal(t, 0, tbl.Len())

	tbl.Row("Sol Ring", "12")
	tbl.Row("Rhystic Study", "7")
	assert.Equal(t, 2, tbl.Len())

	out := tbl.String()
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 4)
	assert.Contains(t, out, "Card")
	assert.Contains(t, out, "Rhystic Study")

	var solLine string
	for _, l := range lines {
		if strings.Contains(l, "Sol Ring") {
			solLine = l
		}
	}
	require.NotEmpty(t, solLine)
	assert.Contains(t, solLine, " 12 ", "numeric column is right aligned")
}

func TestFormatHelpers(t *testing.T) {
	assert.Contains(t, FormatSuccess("done"), "done")
	assert.Contains(t, FormatError("broken"), "broken")
	assert.Contains(t, FormatWarning("careful"), "careful")
	assert.Contains(t, FormatTitle("Decks"), DeckIcon+" Decks")

	box := RenderBox("Import complete", "Imported: 2")
	assert.Contains(t, box, "Import complete")
	assert.Contains(t, box, "Imported: 2")
}

func TestCountBar(t *testing.T) {
	var buf bytes.Buffer
	bar := NewCountBar(&buf, 2, "Importing decks")
	Advance(bar)
	Advance(bar)
	Advance(nil)

	assert.True(t, bar.IsFinished())
	assert.Contains(t, buf.String(), "Importing decks")
}

func TestManaPips(t *testing.T) {
	assert.Contains(t, ManaPips(""), "C")

	pips := ManaPips("UG")
	assert.Contains(t, pips, "U")
	assert.Contains(t, pips, "G")
	assert.Less(t, strings.Index(pips, "U"), strings.Index(pips, "G"))
}
