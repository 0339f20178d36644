package search

import "strings"

// Score weights. Keyword matches dominate because curated keywords are
// the strongest signal of topical overlap.
const (
	keywordWeight     = 40.0
	contentWeight     = 35.0
	descriptionWeight = 25.0

	// MaxScore is the ceiling for a relevance score. A term that matches
	// several keywords can push the keyword component past its weight, so
	// the total is clamped.
	MaxScore = 100.0
)

// RelevanceScore rates how well a candidate matches the query on a 0-100
// scale. The query is split into lowercase whitespace-separated terms;
// each component counts substring matches and contributes its weight
// scaled by matches over term count.
func RelevanceScore(query, contentPreview string, keywords []string, description string) float64 {
	terms := strings.Fields(strings.ToLower(query))
	termCount := len(terms)
	if termCount == 0 {
		termCount = 1
	}

	var score float64

	// A single term matching multiple keywords counts once per keyword.
	keywordMatches := 0
	for _, term := range terms {
		for _, keyword := range keywords {
			if strings.Contains(strings.ToLower(keyword), term) {
				keywordMatches++
			}
		}
	}
	score += float64(keywordMatches) / float64(termCount) * keywordWeight

	contentLower := strings.ToLower(contentPreview)
	contentMatches := 0
	for _, term := range terms {
		if strings.Contains(contentLower, term) {
			contentMatches++
		}
	}
	score += float64(contentMatches) / float64(termCount) * contentWeight

	descriptionLower := strings.ToLower(description)
	descriptionMatches := 0
	for _, term := range terms {
		if strings.Contains(descriptionLower, term) {
			descriptionMatches++
		}
	}
	score += float64(descriptionMatches) / float64(termCount) * descriptionWeight

	if score > MaxScore {
		score = MaxScore
	}
	return score
}
