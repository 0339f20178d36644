package analyze

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proposive/rfpbase/ai/mock"
	"github.com/proposive/rfpbase/extract"
)

const rfpFixture = `목차
1. 사업 개요

요구사항: 전사 통합 포털 시스템을 구축하여 운영해야 합니다
필수: 모든 사용자 인증은 통합 SSO 기반으로 구성되어야 합니다
기술: Kubernetes 기반 컨테이너 플랫폼
데이터베이스: PostgreSQL 15 이상
기간: 계약일로부터 6개월 이내
예산: 12억원 이내
평가: 기술평가 70점, 가격평가 30점
본 사업은 개인정보보호 및 ISMS 인증 기준을 준수해야 합니다
클라우드 전환과 AI 기반 검색, 빅데이터 분석이 포함됩니다`

func newTestAnalyzer(t *testing.T) (*Analyzer, *mock.MockGenerator) {
	t.Helper()

	generator := mock.NewMockGenerator()
	analyzer, err := NewAnalyzer(extract.New(), generator, nil)
	require.NoError(t, err)
	return analyzer, generator
}

func TestNewAnalyzer(t *testing.T) {
	t.Run("nil extractor", func(t *testing.T) {
		_, err := NewAnalyzer(nil, mock.NewMockGenerator(), nil)
		assert.Equal(t, ErrExtractorRequired, err)
	})

	t.Run("nil generator", func(t *testing.T) {
		_, err := NewAnalyzer(extract.New(), nil, nil)
		assert.Equal(t, ErrGeneratorRequired, err)
	})

	t.Run("nil logger falls back to default", func(t *testing.T) {
		analyzer, err := NewAnalyzer(extract.New(), mock.NewMockGenerator(), nil)
		require.NoError(t, err)
		assert.NotNil(t, analyzer)
	})
}

func TestAnalyzeDocument(t *testing.T) {
	analyzer, generator := newTestAnalyzer(t)
	generator.GenerateFunc = func(_ context.Context, _ string, _ int) string {
		return "단계별 이행 전략을 수립해야 합니다\n- 불릿 잔여물은 버려짐\n\n보안 점검 체계를 마련해야 합니다"
	}

	report, err := analyzer.AnalyzeDocument(context.Background(), []byte(rfpFixture), "사업공고.txt")
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "사업공고.txt", report.DocumentInfo.Filename)
	assert.Equal(t, len([]rune(rfpFixture)), report.DocumentInfo.TextLength)
	assert.False(t, report.DocumentInfo.AnalyzedAt.IsZero())

	t.Run("requirements from patterns and generator", func(t *testing.T) {
		assert.Contains(t, report.Requirements, "전사 통합 포털 시스템을 구축하여 운영해야 합니다")
		assert.Contains(t, report.Requirements, "모든 사용자 인증은 통합 SSO 기반으로 구성되어야 합니다")
		assert.Contains(t, report.Requirements, "단계별 이행 전략을 수립해야 합니다")
		assert.Contains(t, report.Requirements, "보안 점검 체계를 마련해야 합니다")
		for _, requirement := range report.Requirements {
			assert.False(t, strings.HasPrefix(requirement, "-"))
		}
	})

	t.Run("technical specs", func(t *testing.T) {
		assert.Contains(t, report.TechnicalSpecs, "Kubernetes 기반 컨테이너 플랫폼")
		assert.Contains(t, report.TechnicalSpecs, "PostgreSQL 15 이상")
		assert.LessOrEqual(t, len(report.TechnicalSpecs), maxTechnicalSpecs)
	})

	t.Run("timeline and budget", func(t *testing.T) {
		assert.Equal(t, "계약일로부터 6개월 이내", report.Timeline)
		assert.Equal(t, "12억원 이내", report.BudgetInfo)
	})

	t.Run("compliance keywords", func(t *testing.T) {
		assert.Equal(t, []string{"개인정보보호", "ISMS", "인증"}, report.ComplianceRequirements)
	})

	t.Run("evaluation criteria", func(t *testing.T) {
		assert.Contains(t, report.EvaluationCriteria, "기술평가 70점, 가격평가 30점")
	})

	t.Run("risk assessment", func(t *testing.T) {
		assert.Equal(t, "중간 - 일부 고급 기술이 필요합니다", report.RiskAssessment["기술적 복잡도"])
		assert.Equal(t, "보통 - 적절한 일정 계획이 필요합니다", report.RiskAssessment["일정 위험도"])
		assert.Equal(t, "높음 - 요구사항이 불명확하거나 부족합니다", report.RiskAssessment["요구사항 명확성"])
	})

	t.Run("confidence score", func(t *testing.T) {
		// short text (10) + 4 requirements (20) + 5 specs (15) + structure (20)
		assert.InDelta(t, 65, report.ConfidenceScore, 0.001)
	})
}

func TestAnalyzeDocument_SparseDocument(t *testing.T) {
	analyzer, generator := newTestAnalyzer(t)
	generator.GenerateFunc = func(_ context.Context, _ string, _ int) string { return "" }

	report, err := analyzer.AnalyzeDocument(context.Background(), []byte("간단한 소개 자료입니다"), "소개.txt")
	require.NoError(t, err)

	assert.Empty(t, report.Requirements)
	assert.Equal(t, notSpecified, report.Timeline)
	assert.Equal(t, notSpecified, report.BudgetInfo)
	assert.Empty(t, report.ComplianceRequirements)
	assert.Equal(t, "낮음 - 표준 기술로 구현 가능합니다", report.RiskAssessment["기술적 복잡도"])
	assert.Equal(t, "높음 - 요구사항이 불명확하거나 부족합니다", report.RiskAssessment["요구사항 명확성"])
}

func TestAnalyzeDocument_UnsupportedFormat(t *testing.T) {
	analyzer, _ := newTestAnalyzer(t)

	_, err := analyzer.AnalyzeDocument(context.Background(), []byte("content"), "deck.pptx")
	require.Error(t, err)

	var unsupported *extract.UnsupportedFormatError
	assert.ErrorAs(t, err, &unsupported)
}

func TestAssessRisks(t *testing.T) {
	manyRequirements := []string{"a", "b", "c", "d", "e"}

	t.Run("high technical complexity", func(t *testing.T) {
		risks := assessRisks("AI 머신러닝 빅데이터 클라우드 마이크로서비스 기반", manyRequirements)
		assert.Equal(t, "높음 - 고급 기술 요구사항이 많습니다", risks["기술적 복잡도"])
	})

	t.Run("urgent schedule", func(t *testing.T) {
		risks := assessRisks("긴급 구축 사업", manyRequirements)
		assert.Equal(t, "높음 - 타이트한 일정으로 예상됩니다", risks["일정 위험도"])
	})

	t.Run("detailed requirements lower clarity risk", func(t *testing.T) {
		risks := assessRisks("일반 사업", manyRequirements)
		assert.Equal(t, "낮음 - 요구사항이 상세히 기술되어 있습니다", risks["요구사항 명확성"])
	})
}

func TestConfidenceScore_Caps(t *testing.T) {
	longText := strings.Repeat("목차 상세 내용 ", 1000)
	requirements := make([]string, 20)
	specs := make([]string, 20)

	score := confidenceScore(longText, requirements, specs)
	assert.InDelta(t, 100, score, 0.001)
}

func TestParseLineList(t *testing.T) {
	t.Run("drops blanks and bullets", func(t *testing.T) {
		entries := parseLineList("첫 번째 항목\n\n- 불릿\n  두 번째 항목  \n", 5)
		assert.Equal(t, []string{"첫 번째 항목", "두 번째 항목"}, entries)
	})

	t.Run("honors the limit", func(t *testing.T) {
		entries := parseLineList("하나\n둘\n셋\n넷", 2)
		assert.Equal(t, []string{"하나", "둘"}, entries)
	})
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"가", "나", "다"}, dedupe([]string{"가", "나", "가", "다", "나"}))
}
