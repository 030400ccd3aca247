// Package fuzzy provides approximate card-name matching, used to offer
// a "did you mean" suggestion when a raw name fails to resolve.
package fuzzy

import "strings"

// minScore is the similarity threshold (0-100) below which a candidate
// is not worth suggesting.
const minScore = 60

// Suggest returns the candidate most similar to query, if any candidate
// scores at least the suggestion threshold. Inputs are expected to be
// normalized already.
func Suggest(query string, candidates []string) (string, bool) {
	best := ""
	bestScore := minScore - 1

	for _, candidate := range candidates {
		score := similarity(query, candidate)
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}

	if best == "" {
		return "", false
	}
	return best, true
}

// similarity scores how alike two strings are on a 0-100 scale, using
// substring and prefix checks before falling back to edit distance.
func similarity(query, target string) int {
	if query == target {
		return 100
	}
	if len(query) == 0 || len(target) == 0 {
		return 0
	}

	if strings.HasPrefix(target, query) {
		return 85 + (len(query) * 15 / len(target))
	}
	if strings.Contains(target, query) {
		return 80 + (len(query) * 20 / len(target))
	}

	distance := levenshtein(query, target)
	longest := len(query)
	if len(target) > longest {
		longest = len(target)
	}
	return 100 - (distance * 100 / longest)
}

// levenshtein returns the minimum number of single-character edits
// required to change s1 into s2.
func levenshtein(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := 0; j <= len(s2); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			curr[j] = minOf(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}

func minOf(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
