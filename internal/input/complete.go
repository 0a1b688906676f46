package input

import (
	"sort"
	"unicode"
)

// completion is a scored autocomplete candidate.
type completion struct {
	text  string
	score int
	order int
}

// rankCompletions returns candidates that contain every rune of query in
// order, best first. Exact matches of the query are skipped.
func rankCompletions(query string, candidates []string, limit int) []string {
	q := lowerRunes(query)

	var found []completion
	seen := make(map[string]bool, len(candidates))
	for i, c := range candidates {
		if seen[c] || c == query {
			continue
		}
		seen[c] = true

		matches := subsequence(q, lowerRunes(c))
		if matches == nil {
			continue
		}
		found = append(found, completion{
			text:  c,
			score: scoreMatch(q, []rune(c), matches),
			order: i,
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].score != found[j].score {
			return found[i].score > found[j].score
		}
		return found[i].order < found[j].order
	})

	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	out := make([]string, len(found))
	for i, f := range found {
		out[i] = f.text
	}
	return out
}

// subsequence returns the rune indices in text matching query in order,
// or nil if query is not a subsequence. An empty query matches everything.
func subsequence(query, text []rune) []int {
	matches := make([]int, 0, len(query))
	qi := 0
	for ti := 0; ti < len(text) && qi < len(query); ti++ {
		if text[ti] == query[qi] {
			matches = append(matches, ti)
			qi++
		}
	}
	if qi < len(query) {
		return nil
	}
	return matches
}

// scoreMatch favours prefix matches, consecutive runs and word starts.
func scoreMatch(query, text []rune, matches []int) int {
	score := 100
	if len(matches) == 0 {
		return score
	}

	for i := 1; i < len(matches); i++ {
		if matches[i] == matches[i-1]+1 {
			score += 20
		}
	}

	for _, idx := range matches {
		if idx == 0 || unicode.IsSpace(text[idx-1]) || unicode.IsPunct(text[idx-1]) {
			score += 15
		}
	}

	if matches[0] == 0 {
		score += 25
	}
	if matches[len(matches)-1]-matches[0]+1 == len(query) && matches[0] == 0 {
		score += 50
	}

	// Gaps and late starts cost
	if gap := matches[len(matches)-1] - matches[0] - len(matches) + 1; gap > 0 {
		score -= gap * 2
	}
	score -= matches[0]

	if score < 1 {
		score = 1
	}
	return score
}

// lowerRunes lowercases rune by rune so indices line up with the original.
func lowerRunes(s string) []rune {
	rs := []rune(s)
	for i, r := range rs {
		rs[i] = unicode.ToLower(r)
	}
	return rs
}
