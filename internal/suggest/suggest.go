// Package suggest offers fuzzy candidate matching for "did you mean"
// hints on misspelled entity names.
package suggest

import "strings"

// MinScore is the similarity floor below which no suggestion is made.
const MinScore = 0.5

// Closest returns the candidate most similar to input, when it is close
// enough to be a plausible misspelling. Ties keep the earliest candidate,
// so sorted input yields deterministic hints.
func Closest(input string, candidates []string) (string, bool) {
	best := ""
	bestScore := 0.0

	for _, candidate := range candidates {
		score := Score(input, candidate)
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}

	if bestScore < MinScore {
		return "", false
	}

	return best, true
}

// Score computes a normalized similarity between two identifiers after
// folding case and separators. 1.0 means identical, 0.0 disjoint.
func Score(a, b string) float64 {
	return similarity(normalize(a), normalize(b))
}

func similarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}

	maxLen := max(len(a), len(b))

	return 1.0 - float64(distance(a, b))/float64(maxLen)
}

// distance computes the Levenshtein edit distance between two strings,
// keeping two rows instead of the full matrix.
func distance(a, b string) int {
	if a == b {
		return 0
	}

	if len(a) == 0 {
		return len(b)
	}

	if len(b) == 0 {
		return len(a)
	}

	// Keep a as the shorter string
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// normalize folds case and strips the separators that vary between
// naming styles, so Book, book and book_ all read the same.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		switch r {
		case '_', '-', '.', ' ':
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}
