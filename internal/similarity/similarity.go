// Package similarity provides string-similarity scoring for duplicate
// detection and fuzzy destination matching. The algorithm is pluggable via
// Func so thresholds and implementations can be swapped without touching
// callers.
package similarity

import "strings"

// Func scores how alike two strings are, from 0.0 (unrelated) to 1.0
// (identical). Implementations must be symmetric: f(a, b) == f(b, a).
type Func func(a, b string) float64

// Ratio is the default Func: a normalized Levenshtein ratio over
// lowercased, whitespace-trimmed input.
func Ratio(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if a == b {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	distance := levenshtein(a, b)
	maxLen := max(len(a), len(b))
	return 1.0 - float64(distance)/float64(maxLen)
}

// levenshtein computes the edit distance between two strings using two
// rolling rows rather than the full matrix.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
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
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
