package similarity

import (
	"math"
	"strings"
)

// TokenOverlap computes the Jaccard similarity between the whitespace-delimited
// lowercase token sets of a and b, as an integer percentage 0-100.
//
// Used for precedent matching, where word overlap matters more than exact
// phrasing. Returns 100 when both token sets are empty (two blank strings are
// the same blank string) and 0 when exactly one is empty.
func TokenOverlap(a, b string) int {
	setA := tokenize(a)
	setB := tokenize(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 100
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for token := range setA {
		if setB[token] {
			intersection++
		}
	}

	// |union| = |A| + |B| - |intersection|
	union := len(setA) + len(setB) - intersection

	return int(math.Round(float64(intersection) / float64(union) * 100))
}

// tokenize converts text into a set of lowercase whitespace-delimited tokens.
func tokenize(text string) map[string]bool {
	tokens := strings.Fields(strings.ToLower(text))
	set := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		set[token] = true
	}
	return set
}

// EditDistance computes a normalized Levenshtein similarity between a and b
// in [0.0, 1.0]: 1 - lev(lower(a), lower(b)) / max(len(a), len(b)).
//
// Used for near-duplicate finding detection, where small wording drift should
// still match. Comparison is case-insensitive. Two empty strings score 1.0.
func EditDistance(a, b string) float64 {
	la := strings.ToLower(strings.TrimSpace(a))
	lb := strings.ToLower(strings.TrimSpace(b))

	if la == lb {
		return 1.0
	}

	ra := []rune(la)
	rb := []rune(lb)

	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1.0
	}

	dist := levenshtein(ra, rb)
	return 1.0 - float64(dist)/float64(maxLen)
}

// levenshtein computes the classic insert/delete/substitute edit distance
// between two rune slices using two rolling rows. O(len(a)*len(b)) time,
// O(min(len(a), len(b))) space — fine at the sentence/paragraph lengths
// findings carry.
func levenshtein(a, b []rune) int {
	// Keep b as the shorter side so the rows stay small
	if len(b) > len(a) {
		a, b = b, a
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
