package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/proposive/rfpbase/ai"
	"github.com/proposive/rfpbase/dispatch"
	"github.com/proposive/rfpbase/extract"
)

const (
	maxRequirements       = 15
	maxAIRequirements     = 5
	maxTechnicalSpecs     = 10
	maxEvaluationCriteria = 8

	// notSpecified is returned for timeline and budget when no pattern
	// matched the document.
	notSpecified = "명시되지 않음"

	analyzerWorkers = 3

	requirementsMaxTokens = 500
	promptExcerptLength   = 2000
)

var (
	requirementPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?im)(?:요구사항|요구|필수|반드시|의무)[:：]?\s*(.+?)(?:\n|\.)`),
		regexp.MustCompile(`(?im)(?:Must|SHALL|MUST)[:：]?\s*(.+?)(?:\n|\.)`),
		regexp.MustCompile(`(?im)(?:기능|Function|Functionality)[:：]?\s*(.+?)(?:\n|\.)`),
	}

	techPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?im)(?:기술|Technology|Tech|시스템|System)[:：]?\s*(.+?)(?:\n|\.)`),
		regexp.MustCompile(`(?im)(?:플랫폼|Platform|OS|운영체제)[:：]?\s*(.+?)(?:\n|\.)`),
		regexp.MustCompile(`(?im)(?:데이터베이스|Database|DB)[:：]?\s*(.+?)(?:\n|\.)`),
		regexp.MustCompile(`(?im)(?:프로그래밍|Programming|언어|Language)[:：]?\s*(.+?)(?:\n|\.)`),
	}

	timelinePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:기간|기한|납기|Timeline|Schedule|Duration)[:：]?\s*(.+?)(?:\n|\.)`),
		regexp.MustCompile(`(?i)(?:개월|month|주|week|일|day)\s*(?:이내|내|within)`),
		regexp.MustCompile(`(?i)\d+\s*(?:개월|month|주|week|일|day)`),
	}

	budgetPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:예산|Budget|비용|Cost|금액|Amount)[:：]?\s*(.+?)(?:\n|\.)`),
		regexp.MustCompile(`(?i)(?:원|won|달러|dollar|\$|₩)[\d,]+`),
		regexp.MustCompile(`\d+\s*(?:억|만|천)`),
	}

	criteriaPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?im)(?:평가|Evaluation|심사|Review)[:：]?\s*(.+?)(?:\n|\.)`),
		regexp.MustCompile(`(?im)(?:기준|Criteria|점수|Score)[:：]?\s*(.+?)(?:\n|\.)`),
		regexp.MustCompile(`(?im)(?:가점|배점|점수|점)\s*\d+`),
	}

	complianceKeywords = []string{
		"개인정보보호", "GDPR", "ISMS", "ISO27001", "정보보안",
		"감사", "Audit", "규정", "Regulation", "표준", "Standard",
		"인증", "Certification", "보안", "Security",
	}

	complexityKeywords = []string{
		"AI", "머신러닝", "Machine Learning", "빅데이터", "Big Data",
		"클라우드", "Cloud", "마이크로서비스", "Microservice",
	}

	urgencyKeywords = []string{"긴급", "urgent", "즉시", "immediate", "단기", "short"}

	structureKeywords = []string{"목차", "색인", "번호", "항목"}
)

// DocumentInfo describes the analyzed artifact.
type DocumentInfo struct {
	Filename   string
	AnalyzedAt time.Time
	TextLength int
}

// Report is the outcome of one RFP analysis run.
type Report struct {
	RunID                  string
	DocumentInfo           DocumentInfo
	Requirements           []string
	TechnicalSpecs         []string
	Timeline               string
	BudgetInfo             string
	RiskAssessment         map[string]string
	ComplianceRequirements []string
	EvaluationCriteria     []string
	ConfidenceScore        float64
}

// Analyzer extracts structured findings from RFP documents.
type Analyzer struct {
	extractor *extract.Extractor
	generator ai.Generator
	logger    *slog.Logger
}

// NewAnalyzer creates a new RFP analyzer.
func NewAnalyzer(extractor *extract.Extractor, generator ai.Generator, logger *slog.Logger) (*Analyzer, error) {
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		extractor: extractor,
		generator: generator,
		logger:    logger.With("component", "analyzer"),
	}, nil
}

// AnalyzeDocument extracts text from the raw payload and runs the full
// analysis pipeline. Extraction sections run concurrently; risk
// assessment and the confidence score depend on their output and run
// after the join.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, content []byte, filename string) (*Report, error) {
	text, err := a.extractor.ExtractText(ctx, content, filename)
	if err != nil {
		return nil, fmt.Errorf("extracting text from %s: %w", filename, err)
	}

	tasks := []dispatch.Task{
		{Name: "requirements", Run: func(ctx context.Context) (any, error) {
			return a.extractRequirements(ctx, text), nil
		}},
		{Name: "technical_specs", Run: func(ctx context.Context) (any, error) {
			return extractTechnicalSpecs(text), nil
		}},
		{Name: "timeline", Run: func(ctx context.Context) (any, error) {
			return firstPatternMatch(timelinePatterns, text), nil
		}},
		{Name: "budget", Run: func(ctx context.Context) (any, error) {
			return firstPatternMatch(budgetPatterns, text), nil
		}},
		{Name: "compliance", Run: func(ctx context.Context) (any, error) {
			return extractComplianceRequirements(text), nil
		}},
		{Name: "evaluation_criteria", Run: func(ctx context.Context) (any, error) {
			return extractEvaluationCriteria(text), nil
		}},
	}

	results, err := dispatch.RunAll(ctx, tasks, analyzerWorkers)
	if err != nil {
		return nil, err
	}
	for name, result := range results {
		if result.Err != nil {
			a.logger.Warn("analysis section failed", "section", name, "err", result.Err)
		}
	}

	requirements := stringSlice(results["requirements"])
	technicalSpecs := stringSlice(results["technical_specs"])

	report := &Report{
		RunID: uuid.NewString(),
		DocumentInfo: DocumentInfo{
			Filename:   filename,
			AnalyzedAt: time.Now(),
			TextLength: len([]rune(text)),
		},
		Requirements:           requirements,
		TechnicalSpecs:         technicalSpecs,
		Timeline:               stringValue(results["timeline"]),
		BudgetInfo:             stringValue(results["budget"]),
		RiskAssessment:         assessRisks(text, requirements),
		ComplianceRequirements: stringSlice(results["compliance"]),
		EvaluationCriteria:     stringSlice(results["evaluation_criteria"]),
		ConfidenceScore:        confidenceScore(text, requirements, technicalSpecs),
	}

	a.logger.Info("document analyzed",
		"runID", report.RunID,
		"filename", filename,
		"requirements", len(report.Requirements),
		"confidence", report.ConfidenceScore)

	return report, nil
}

// extractRequirements combines pattern matches with generator output.
func (a *Analyzer) extractRequirements(ctx context.Context, text string) []string {
	var requirements []string
	for _, pattern := range requirementPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			candidate := strings.TrimSpace(match[1])
			if len([]rune(candidate)) > 10 {
				requirements = append(requirements, candidate)
			}
		}
	}

	prompt := fmt.Sprintf("다음 RFP 문서에서 주요 요구사항을 추출해주세요. 각 요구사항은 한 줄로 요약해주세요.\n\n"+
		"문서 내용:\n%s...\n\n주요 요구사항 (최대 10개):", excerpt(text, promptExcerptLength))
	response := a.generator.Generate(ctx, prompt, requirementsMaxTokens)
	requirements = append(requirements, parseLineList(response, maxAIRequirements)...)

	return capSlice(dedupe(requirements), maxRequirements)
}

func extractTechnicalSpecs(text string) []string {
	var specs []string
	for _, pattern := range techPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			candidate := strings.TrimSpace(match[1])
			if len([]rune(candidate)) > 5 {
				specs = append(specs, candidate)
			}
		}
	}
	return capSlice(dedupe(specs), maxTechnicalSpecs)
}

func extractComplianceRequirements(text string) []string {
	textLower := strings.ToLower(text)
	var found []string
	for _, keyword := range complianceKeywords {
		if strings.Contains(textLower, strings.ToLower(keyword)) {
			found = append(found, keyword)
		}
	}
	return found
}

func extractEvaluationCriteria(text string) []string {
	var criteria []string
	for _, pattern := range criteriaPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			candidate := match[0]
			if len(match) > 1 {
				candidate = match[1]
			}
			candidate = strings.TrimSpace(candidate)
			if len([]rune(candidate)) > 5 {
				criteria = append(criteria, candidate)
			}
		}
	}
	return capSlice(dedupe(criteria), maxEvaluationCriteria)
}

// firstPatternMatch returns the first match of the first pattern that
// fires, or notSpecified.
func firstPatternMatch(patterns []*regexp.Regexp, text string) string {
	for _, pattern := range patterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		if len(match) > 1 {
			return strings.TrimSpace(match[1])
		}
		return strings.TrimSpace(match[0])
	}
	return notSpecified
}

// assessRisks rates technical complexity, schedule pressure, and
// requirement clarity from keyword density.
func assessRisks(text string, requirements []string) map[string]string {
	textLower := strings.ToLower(text)
	risks := make(map[string]string, 3)

	complexity := 0
	for _, keyword := range complexityKeywords {
		if strings.Contains(textLower, strings.ToLower(keyword)) {
			complexity++
		}
	}
	switch {
	case complexity > 3:
		risks["기술적 복잡도"] = "높음 - 고급 기술 요구사항이 많습니다"
	case complexity > 1:
		risks["기술적 복잡도"] = "중간 - 일부 고급 기술이 필요합니다"
	default:
		risks["기술적 복잡도"] = "낮음 - 표준 기술로 구현 가능합니다"
	}

	urgent := false
	for _, keyword := range urgencyKeywords {
		if strings.Contains(textLower, strings.ToLower(keyword)) {
			urgent = true
			break
		}
	}
	if urgent {
		risks["일정 위험도"] = "높음 - 타이트한 일정으로 예상됩니다"
	} else {
		risks["일정 위험도"] = "보통 - 적절한 일정 계획이 필요합니다"
	}

	if len(requirements) < 5 {
		risks["요구사항 명확성"] = "높음 - 요구사항이 불명확하거나 부족합니다"
	} else {
		risks["요구사항 명확성"] = "낮음 - 요구사항이 상세히 기술되어 있습니다"
	}

	return risks
}

// confidenceScore rates how much signal the analysis had to work with.
func confidenceScore(text string, requirements, technicalSpecs []string) float64 {
	var score float64

	textLen := len([]rune(text))
	switch {
	case textLen > 5000:
		score += 30
	case textLen > 2000:
		score += 20
	default:
		score += 10
	}

	score += min(float64(len(requirements))*5, 30)
	score += min(float64(len(technicalSpecs))*3, 20)

	for _, keyword := range structureKeywords {
		if strings.Contains(text, keyword) {
			score += 20
			break
		}
	}

	return min(score, 100)
}
