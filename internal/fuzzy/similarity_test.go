package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"solring", "solring", 0},
		{"lightningbolt", "lightnigbolt", 1},
		{"æther", "aether", 2},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
			assert.Equal(t, tt.want, Distance(tt.b, tt.a))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 1.0, Similarity("solring", "solring"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
	assert.InDelta(t, 12.0/13.0, Similarity("lightningbolt", "lightnigbolt"), 1e-9)
}

func TestUpperBound(t *testing.T) {
	assert.InDelta(t, 1.0, UpperBound(0, 0), 1e-9)
	assert.InDelta(t, 0.5, UpperBound(5, 10), 1e-9)
	assert.InDelta(t, 0.5, UpperBound(10, 5), 1e-9)

	// The bound never underestimates the real score.
	for _, pair := range [][2]string{{"sol", "solring"}, {"counterspell", "counterspel"}, {"a", "b"}} {
		la, lb := len(pair[0]), len(pair[1])
		assert.GreaterOrEqual(t, UpperBound(la, lb)+1e-12, Similarity(pair[0], pair[1]))
	}
}
