package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractKeywords(t *testing.T) {
	t.Run("ranks by frequency", func(t *testing.T) {
		text := "클라우드 클라우드 클라우드 데이터베이스 데이터베이스 아키텍처"
		keywords := ExtractKeywords(text, 3)
		require.Len(t, keywords, 3)
		assert.Equal(t, "클라우드", keywords[0])
		assert.Equal(t, "데이터베이스", keywords[1])
		assert.Equal(t, "아키텍처", keywords[2])
	})

	t.Run("drops short tokens", func(t *testing.T) {
		keywords := ExtractKeywords("ai ml 클라우드 db it", 10)
		assert.Equal(t, []string{"클라우드"}, keywords)
	})

	t.Run("drops stop words", func(t *testing.T) {
		keywords := ExtractKeywords("시스템 으로 시스템 에서 아키텍처", 10)
		assert.NotContains(t, keywords, "으로")
		assert.NotContains(t, keywords, "에서")
		assert.Contains(t, keywords, "시스템")
		assert.Contains(t, keywords, "아키텍처")
	})

	t.Run("lowercases before counting", func(t *testing.T) {
		keywords := ExtractKeywords("Cloud CLOUD cloud", 10)
		assert.Equal(t, []string{"cloud"}, keywords)
	})

	t.Run("ties keep first-seen order", func(t *testing.T) {
		keywords := ExtractKeywords("마이그레이션 클라우드 아키텍처 마이그레이션 클라우드 아키텍처", 10)
		assert.Equal(t, []string{"마이그레이션", "클라우드", "아키텍처"}, keywords)
	})

	t.Run("caps at topN", func(t *testing.T) {
		keywords := ExtractKeywords("alpha bravo charlie delta echo", 2)
		assert.Len(t, keywords, 2)
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Empty(t, ExtractKeywords("", 10))
	})
}
