package analyze

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proposive/rfpbase/ai/mock"
)

func newTestAdvisor(t *testing.T) (*Advisor, *mock.MockGenerator) {
	t.Helper()

	generator := mock.NewMockGenerator()
	advisor, err := NewAdvisor(generator, nil)
	require.NoError(t, err)
	return advisor, generator
}

func TestNewAdvisor(t *testing.T) {
	t.Run("nil generator", func(t *testing.T) {
		_, err := NewAdvisor(nil, nil)
		assert.Equal(t, ErrGeneratorRequired, err)
	})

	t.Run("nil logger falls back to default", func(t *testing.T) {
		advisor, err := NewAdvisor(mock.NewMockGenerator(), nil)
		require.NoError(t, err)
		assert.NotNil(t, advisor)
	})
}

func TestAnalyzeBusinessContext(t *testing.T) {
	advisor, generator := newTestAdvisor(t)
	generator.GenerateFunc = func(_ context.Context, prompt string, _ int) string {
		if strings.Contains(prompt, "권고사항") {
			return "레퍼런스 고객 사례를 전면에 배치\n전담 PMO 조직 구성 제안"
		}
		return "금융 산업은 오픈뱅킹 중심으로 재편되고 있습니다"
	}

	report, err := advisor.AnalyzeBusinessContext(context.Background(),
		"금융", "국내 대형 은행", "클라우드 기반 AI 여신 심사 시스템")
	require.NoError(t, err)

	assert.Equal(t, "금융", report.Industry)
	assert.False(t, report.AnalyzedAt.IsZero())

	t.Run("market analysis uses curated industry knowledge", func(t *testing.T) {
		assert.Equal(t, industryKnowledge["금융"].keyTrends, report.MarketAnalysis.KeyTrends)
		assert.Equal(t, industryKnowledge["금융"].regulations, report.MarketAnalysis.Regulations)
		assert.Equal(t, "금융 산업은 오픈뱅킹 중심으로 재편되고 있습니다", report.MarketAnalysis.FutureOutlook)
	})

	t.Run("client analysis", func(t *testing.T) {
		assert.Equal(t, "금융기관", report.ClientAnalysis.OrganizationType)
		assert.Equal(t, "대기업", report.ClientAnalysis.Size)
		assert.Contains(t, report.ClientAnalysis.KeyChallenges, "높은 보안 요구사항")
		assert.Contains(t, report.ClientAnalysis.Opportunities, "대규모 프로젝트 수행 가능")
	})

	t.Run("competitive landscape reflects industry and scope", func(t *testing.T) {
		assert.Contains(t, report.CompetitiveLandscape, "핀테크 기업들의 혁신적 솔루션")
		assert.Contains(t, report.CompetitiveLandscape, "AI 전문 기업들의 기술적 우위")
		assert.Contains(t, report.CompetitiveLandscape, "클라우드 네이티브 기업들의 전문성")
	})

	t.Run("recommendations blend rules and generator output", func(t *testing.T) {
		assert.Contains(t, report.StrategicRecommendations, "금융 규제 준수를 최우선으로 하는 솔루션 설계")
		assert.Contains(t, report.StrategicRecommendations, "레퍼런스 고객 사례를 전면에 배치")
		assert.LessOrEqual(t, len(report.StrategicRecommendations), maxRecommendations)
	})

	t.Run("success factors extend the industry profile", func(t *testing.T) {
		assert.Contains(t, report.SuccessFactors, "보안성")
		assert.Contains(t, report.SuccessFactors, "데이터 품질")
		assert.Contains(t, report.SuccessFactors, "마이그레이션 전략")
		assert.LessOrEqual(t, len(report.SuccessFactors), maxSuccessFactors)
	})

	t.Run("challenges", func(t *testing.T) {
		assert.Contains(t, report.PotentialChallenges, "엄격한 금융 규제 준수")
		assert.Contains(t, report.PotentialChallenges, "AI 모델의 신뢰성과 설명가능성 확보")
	})

	t.Run("recommended approach chains its elements", func(t *testing.T) {
		steps := strings.Split(report.RecommendedApproach, " → ")
		assert.Equal(t, []string{
			"금융권 경험이 풍부한 전문가 투입",
			"POC를 통한 단계적 AI 도입",
			"하이브리드 클라우드 전략 수립",
			"애자일 방법론을 활용한 반복적 개발",
			"고객과의 긴밀한 소통과 피드백 반영",
			"위험 관리와 품질 보증 체계 구축",
		}, steps)
	})
}

func TestAnalyzeBusinessContext_EmptyIndustry(t *testing.T) {
	advisor, _ := newTestAdvisor(t)

	_, err := advisor.AnalyzeBusinessContext(context.Background(), "", "고객", "범위")
	assert.ErrorIs(t, err, ErrEmptyIndustry)
}

func TestAnalyzeBusinessContext_UnknownIndustry(t *testing.T) {
	advisor, generator := newTestAdvisor(t)
	generator.GenerateFunc = func(_ context.Context, _ string, _ int) string { return "" }

	report, err := advisor.AnalyzeBusinessContext(context.Background(), "유통", "", "")
	require.NoError(t, err)

	t.Run("falls back to the generic profile", func(t *testing.T) {
		assert.Equal(t, fallbackProfile.keyTrends, report.MarketAnalysis.KeyTrends)
		assert.Equal(t, fallbackProfile.regulations, report.MarketAnalysis.Regulations)
	})

	t.Run("empty outlook gets a stock sentence", func(t *testing.T) {
		assert.Equal(t, "유통 산업은 지속적인 디지털 혁신이 예상됩니다.", report.MarketAnalysis.FutureOutlook)
	})

	t.Run("client context stays undetermined", func(t *testing.T) {
		assert.Equal(t, "분석 중", report.ClientAnalysis.OrganizationType)
		assert.Equal(t, "분석 중", report.ClientAnalysis.Size)
	})
}

func TestSuccessFactors_DedupeAndCap(t *testing.T) {
	factors := successFactors("공공", "AI 클라우드 모바일 전면 개편")

	seen := make(map[string]struct{}, len(factors))
	for _, factor := range factors {
		_, dup := seen[factor]
		assert.False(t, dup, "duplicate factor %q", factor)
		seen[factor] = struct{}{}
	}
	assert.LessOrEqual(t, len(factors), maxSuccessFactors)
}

func TestIdentifyChallenges_PublicSector(t *testing.T) {
	challenges := identifyChallenges("공공", "대기업 계열 공공기관", "빅데이터 플랫폼")

	assert.Contains(t, challenges, "복잡한 행정 절차와 승인 과정")
	assert.Contains(t, challenges, "대용량 데이터 처리와 실시간 분석")
	assert.Contains(t, challenges, "복잡한 의사결정 구조와 긴 승인 과정")
}
