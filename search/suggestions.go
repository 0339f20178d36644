package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/proposive/rfpbase/core"
)

const (
	// maxSuggestions caps the suggestion list per response.
	maxSuggestions = 5

	// suggestionResultWindow is how many top results contribute keywords.
	suggestionResultWindow = 5

	// suggestionKeywordCount is how many high-frequency keywords become
	// follow-up suggestions.
	suggestionKeywordCount = 3
)

// buildSuggestions produces follow-up hints for the caller. Thin result
// sets get broaden-the-search hints; any result set contributes its most
// frequent keywords that are not already part of the query.
func buildSuggestions(query string, results []core.RankedResult) []string {
	suggestions := make([]string, 0, maxSuggestions)

	if len(results) < 3 {
		suggestions = append(suggestions,
			fmt.Sprintf("'%s' 대신 더 일반적인 용어로 검색해보세요", query),
			"카테고리를 '전체'로 설정하여 검색 범위를 넓혀보세요",
		)
	}

	if len(results) > 0 {
		window := results
		if len(window) > suggestionResultWindow {
			window = window[:suggestionResultWindow]
		}

		freq := make(map[string]int)
		order := make(map[string]int)
		for _, r := range window {
			for _, keyword := range r.Keywords {
				if _, seen := freq[keyword]; !seen {
					order[keyword] = len(order)
				}
				freq[keyword]++
			}
		}

		keywords := make([]string, 0, len(freq))
		for keyword := range freq {
			keywords = append(keywords, keyword)
		}
		sort.Slice(keywords, func(i, j int) bool {
			if freq[keywords[i]] != freq[keywords[j]] {
				return freq[keywords[i]] > freq[keywords[j]]
			}
			return order[keywords[i]] < order[keywords[j]]
		})
		if len(keywords) > suggestionKeywordCount {
			keywords = keywords[:suggestionKeywordCount]
		}

		queryLower := strings.ToLower(query)
		for _, keyword := range keywords {
			if !strings.Contains(queryLower, strings.ToLower(keyword)) {
				suggestions = append(suggestions, fmt.Sprintf("'%s' 키워드를 추가해보세요", keyword))
			}
		}
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}
