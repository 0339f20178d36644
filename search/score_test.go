package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelevanceScore_Bounds(t *testing.T) {
	t.Run("no overlap scores zero", func(t *testing.T) {
		score := RelevanceScore("블록체인", "클라우드 개요", []string{"클라우드"}, "기술 문서")
		assert.Equal(t, 0.0, score)
	})

	t.Run("full match across all components", func(t *testing.T) {
		score := RelevanceScore("클라우드", "클라우드 전환 개요", []string{"클라우드"}, "클라우드 제안")
		assert.Equal(t, 100.0, score)
	})

	t.Run("clamped at 100", func(t *testing.T) {
		// One term matching many keywords pushes the keyword component
		// past its weight before clamping.
		keywords := []string{"클라우드", "클라우드전환", "클라우드보안", "클라우드비용"}
		score := RelevanceScore("클라우드", "클라우드", keywords, "클라우드")
		assert.Equal(t, 100.0, score)
	})
}

func TestRelevanceScore_Weights(t *testing.T) {
	t.Run("keyword only", func(t *testing.T) {
		score := RelevanceScore("클라우드", "무관한 본문", []string{"클라우드"}, "무관한 설명")
		assert.InDelta(t, 40.0, score, 0.001)
	})

	t.Run("content only", func(t *testing.T) {
		score := RelevanceScore("클라우드", "클라우드 본문", nil, "무관한 설명")
		assert.InDelta(t, 35.0, score, 0.001)
	})

	t.Run("description only", func(t *testing.T) {
		score := RelevanceScore("클라우드", "무관한 본문", nil, "클라우드 설명")
		assert.InDelta(t, 25.0, score, 0.001)
	})
}

func TestRelevanceScore_TermFractions(t *testing.T) {
	// One of two terms matches the content: half the content weight.
	score := RelevanceScore("클라우드 블록체인", "클라우드 개요", nil, "")
	assert.InDelta(t, 17.5, score, 0.001)
}

func TestRelevanceScore_MoreMatchesScoreHigher(t *testing.T) {
	query := "클라우드 마이그레이션 전략"

	full := RelevanceScore(query, "클라우드 마이그레이션 전략 수립", []string{"클라우드", "마이그레이션", "전략"}, "전략 문서")
	partial := RelevanceScore(query, "클라우드 인프라 개요", []string{"클라우드"}, "기술 자료")
	none := RelevanceScore(query, "계약 조항 정리", []string{"계약"}, "계약 문서")

	assert.Greater(t, full, partial)
	assert.Greater(t, partial, none)
	assert.Equal(t, 0.0, none)
}

func TestRelevanceScore_CaseInsensitive(t *testing.T) {
	upper := RelevanceScore("CLOUD", "cloud migration", []string{"Cloud"}, "Cloud strategy")
	lower := RelevanceScore("cloud", "cloud migration", []string{"Cloud"}, "Cloud strategy")
	assert.Equal(t, lower, upper)
}

func TestRelevanceScore_EmptyQuery(t *testing.T) {
	assert.Equal(t, 0.0, RelevanceScore("", "본문", []string{"키워드"}, "설명"))
}
