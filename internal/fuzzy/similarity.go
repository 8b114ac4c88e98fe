// Package fuzzy scores how closely two card names match.
package fuzzy

import "unicode/utf8"

// Similarity returns 1 - distance/maxLen over runes, in [0, 1].
// Two empty strings are identical.
func Similarity(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(Distance(a, b))/float64(maxLen)
}

// UpperBound is the best Similarity two strings of these rune lengths
// could reach. Used to skip candidates before computing a distance.
func UpperBound(la, lb int) float64 {
	maxLen, minLen := la, lb
	if lb > la {
		maxLen, minLen = lb, la
	}
	if maxLen == 0 {
		return 1
	}
	return float64(minLen) / float64(maxLen)
}

// Distance calculates the Levenshtein distance between two strings: the
// minimum number of single-rune insertions, deletions or substitutions
// needed to turn one into the other.
func Distance(a, b string) int {
	s1, s2 := []rune(a), []rune(b)
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}
