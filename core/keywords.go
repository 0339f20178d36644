package core

import (
	"sort"
	"strings"
)

// Korean particles and other function words dropped during keyword
// extraction. Short tokens (length <= 2 runes) are dropped separately.
var stopWords = map[string]bool{
	"의": true, "이": true, "가": true, "을": true, "를": true,
	"에": true, "와": true, "과": true, "으로": true, "로": true,
	"에서": true, "은": true, "는": true,
	"the": true, "a": true, "an": true, "of": true, "and": true,
	"to": true, "in": true, "for": true, "with": true,
}

// DefaultKeywordCount is the number of keywords kept per document.
const DefaultKeywordCount = 10

// ExtractKeywords returns the topN most frequent terms of text.
// Terms are lowercased whitespace-delimited tokens; tokens of two or
// fewer runes and stop words are dropped. Ties are broken by
// first-seen order so extraction is deterministic.
func ExtractKeywords(text string, topN int) []string {
	if topN <= 0 {
		topN = DefaultKeywordCount
	}

	words := strings.Fields(strings.ToLower(text))
	freq := make(map[string]int)
	order := make(map[string]int)

	for _, word := range words {
		if len([]rune(word)) <= 2 || stopWords[word] {
			continue
		}
		if _, seen := freq[word]; !seen {
			order[word] = len(order)
		}
		freq[word]++
	}

	terms := make([]string, 0, len(freq))
	for term := range freq {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return order[terms[i]] < order[terms[j]]
	})

	if len(terms) > topN {
		terms = terms[:topN]
	}
	return terms
}
