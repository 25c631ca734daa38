package ranker

import (
	"sort"
	"strings"
)

// Score counts how many query token occurrences appear in the chunk.
// Tokenization is whitespace-based and case-insensitive. A query token that
// repeats contributes once per occurrence in the query; membership in the
// chunk is a set test.
func Score(chunk, query string) int {
	chunkTokens := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(chunk)) {
		chunkTokens[tok] = true
	}

	score := 0
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		if chunkTokens[tok] {
			score++
		}
	}
	return score
}

// TopK returns at most k chunks ranked by descending overlap score against
// the query. Ties keep the original chunk order (stable sort).
func TopK(chunks []string, query string, k int) []string {
	if k <= 0 || len(chunks) == 0 {
		return nil
	}

	type scored struct {
		index int
		text  string
		score int
	}

	ranked := make([]scored, len(chunks))
	for i, c := range chunks {
		ranked[i] = scored{index: i, text: c, score: Score(c, query)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if k > len(ranked) {
		k = len(ranked)
	}

	top := make([]string, k)
	for i := 0; i < k; i++ {
		top[i] = ranked[i].text
	}
	return top
}
