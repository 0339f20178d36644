package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/proposive/rfpbase/ai"
	"github.com/proposive/rfpbase/extract"
)

const (
	maxStrengths    = 5
	maxWeaknesses   = 5
	maxSuggestions  = 8
	maxAISuggestion = 3

	suggestionsMaxTokens = 300

	// missingSectionThreshold marks a section as missing when its score
	// falls below it even though some keywords matched.
	missingSectionThreshold = 30
)

// requiredSections maps each expected proposal section to the keywords
// that signal its presence.
var requiredSections = map[string][]string{
	"사업 이해":      {"사업", "이해", "분석", "현황"},
	"기술 솔루션":      {"기술", "솔루션", "아키텍처", "설계"},
	"프로젝트 수행방법론": {"방법론", "수행", "프로세스", "절차"},
	"일정 계획":      {"일정", "계획", "스케줄", "마일스톤"},
	"인력 구성":      {"인력", "조직", "팀", "전문가"},
	"예산 및 비용":     {"예산", "비용", "가격", "견적"},
	"기대효과":       {"효과", "성과", "ROI", "개선"},
}

// specificityIndicators lists per-section terms that signal concrete
// detail rather than boilerplate.
var specificityIndicators = map[string][]string{
	"사업 이해":      {"분석", "현황", "문제점", "요구사항"},
	"기술 솔루션":      {"아키텍처", "기술스택", "데이터베이스", "보안"},
	"프로젝트 수행방법론": {"단계", "프로세스", "절차", "방법"},
	"일정 계획":      {"월", "주", "일정", "마일스톤"},
	"인력 구성":      {"경력", "역할", "책임", "전문가"},
	"예산 및 비용":     {"원", "비용", "예산", "견적"},
	"기대효과":       {"개선", "효율", "절감", "향상"},
}

var (
	logicalConnectors = []string{"따라서", "그러므로", "이에 따라", "결과적으로", "또한", "더불어"}
	technicalTerms    = []string{"아키텍처", "프레임워크", "데이터베이스", "보안", "성능", "확장성", "인터페이스"}
	prohibitedWords   = []string{"100%", "완벽", "절대", "무조건"}

	digitPattern = regexp.MustCompile(`\d+`)
)

// SectionAnalysis is the per-section grade of a proposal.
type SectionAnalysis struct {
	Score          float64
	KeywordMatches int
	ContentLength  int
	Specificity    float64
	Exists         bool
	ContentPreview string
}

// QualityReport is the outcome of one proposal evaluation.
type QualityReport struct {
	EvaluatedAt            time.Time
	Filename               string
	TextLength             int
	EstimatedPages         int
	OverallScore           float64
	SectionScores          map[string]float64
	ContentQuality         map[string]float64
	ReadabilityScore       float64
	ComplianceCheck        map[string]bool
	Strengths              []string
	Weaknesses             []string
	ImprovementSuggestions []string
	SectionAnalysis        map[string]SectionAnalysis
	MissingSections        []string
}

// Evaluator grades proposal drafts against the required section set.
type Evaluator struct {
	extractor *extract.Extractor
	generator ai.Generator
	logger    *slog.Logger
}

// NewEvaluator creates a new proposal quality evaluator.
func NewEvaluator(extractor *extract.Extractor, generator ai.Generator, logger *slog.Logger) (*Evaluator, error) {
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{
		extractor: extractor,
		generator: generator,
		logger:    logger.With("component", "evaluator"),
	}, nil
}

// EvaluateProposal extracts text from the payload and grades it.
func (e *Evaluator) EvaluateProposal(ctx context.Context, content []byte, filename string) (*QualityReport, error) {
	text, err := e.extractor.ExtractText(ctx, content, filename)
	if err != nil {
		return nil, fmt.Errorf("extracting text from %s: %w", filename, err)
	}

	sections := analyzeSections(text)
	contentQuality := evaluateContentQuality(text)
	readability := ReadabilityScore(text)
	compliance := checkCompliance(text)
	strengths, weaknesses := analyzeStrengthsWeaknesses(text, sections)
	suggestions := e.improvementSuggestions(ctx, sections, contentQuality, weaknesses)

	sectionScores := make(map[string]float64, len(sections))
	for name, analysis := range sections {
		sectionScores[name] = analysis.Score
	}

	report := &QualityReport{
		EvaluatedAt:            time.Now(),
		Filename:               filename,
		TextLength:             len([]rune(text)),
		EstimatedPages:         len([]rune(text)) / 2000,
		OverallScore:           overallScore(sections, contentQuality, readability, compliance),
		SectionScores:          sectionScores,
		ContentQuality:         contentQuality,
		ReadabilityScore:       readability,
		ComplianceCheck:        compliance,
		Strengths:              strengths,
		Weaknesses:             weaknesses,
		ImprovementSuggestions: suggestions,
		SectionAnalysis:        sections,
		MissingSections:        findMissingSections(sections),
	}

	e.logger.Info("proposal evaluated",
		"filename", filename,
		"overallScore", report.OverallScore,
		"missingSections", len(report.MissingSections))

	return report, nil
}

func analyzeSections(text string) map[string]SectionAnalysis {
	sections := make(map[string]SectionAnalysis, len(requiredSections))
	for name, keywords := range requiredSections {
		sections[name] = analyzeSingleSection(text, name, keywords)
	}
	return sections
}

func analyzeSingleSection(text, name string, keywords []string) SectionAnalysis {
	keywordMatches := 0
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			keywordMatches++
		}
	}
	keywordScore := min(float64(keywordMatches)*25, 100)

	content := extractSectionContent(text, keywords)
	contentLength := len([]rune(content))
	lengthScore := min(float64(contentLength/100*10), 50)

	specificity := sectionSpecificity(content, name)

	score := keywordScore*0.4 + lengthScore*0.3 + specificity*0.3

	return SectionAnalysis{
		Score:          math.Round(score*10) / 10,
		KeywordMatches: keywordMatches,
		ContentLength:  contentLength,
		Specificity:    specificity,
		Exists:         keywordScore > 0,
		ContentPreview: excerpt(content, 200),
	}
}

// extractSectionContent pulls text windows around each section keyword.
func extractSectionContent(text string, keywords []string) string {
	var parts []string
	for _, keyword := range keywords {
		pattern := regexp.MustCompile(`(?is).{0,200}` + regexp.QuoteMeta(keyword) + `.{0,500}`)
		parts = append(parts, pattern.FindAllString(text, -1)...)
	}
	return strings.Join(parts, " ")
}

func sectionSpecificity(content, name string) float64 {
	if content == "" {
		return 0
	}

	count := 0
	for _, indicator := range specificityIndicators[name] {
		if strings.Contains(content, indicator) {
			count++
		}
	}

	score := float64(count * 15)
	if digitPattern.MatchString(content) {
		score += 20
	}
	return min(score, 100)
}

func evaluateContentQuality(text string) map[string]float64 {
	quality := make(map[string]float64, 4)

	connectors := 0
	for _, connector := range logicalConnectors {
		if strings.Contains(text, connector) {
			connectors++
		}
	}
	quality["논리성"] = min(float64(connectors)*10, 100)

	terms := 0
	for _, term := range technicalTerms {
		if strings.Contains(text, term) {
			terms++
		}
	}
	quality["전문성"] = min(float64(terms)*12, 100)

	quality["구체성"] = min(float64(len(digitPattern.FindAllString(text, -1)))*5, 100)

	wordCount := len(strings.Fields(text))
	switch {
	case wordCount > 5000:
		quality["완성도"] = 100
	case wordCount > 2000:
		quality["완성도"] = 80
	case wordCount > 1000:
		quality["완성도"] = 60
	default:
		quality["완성도"] = 40
	}

	return quality
}

func checkCompliance(text string) map[string]bool {
	containsAny := func(keywords ...string) bool {
		for _, keyword := range keywords {
			if strings.Contains(text, keyword) {
				return true
			}
		}
		return false
	}

	pageNumberPattern := regexp.MustCompile(`페이지|\d+\s*page|\d+\s*/\s*\d+`)

	return map[string]bool{
		"회사소개_포함":   containsAny("회사", "소개", "연혁", "실적"),
		"기술역량_포함":   containsAny("기술", "역량", "경험", "전문성"),
		"프로젝트경험_포함": containsAny("프로젝트", "경험", "수행", "사례"),
		"보안방안_포함":   containsAny("보안", "암호화", "인증", "권한"),
		"과장표현_없음":   !containsAny(prohibitedWords...),
		"목차_존재":     containsAny("목차", "차례", "Contents"),
		"페이지번호_존재":  pageNumberPattern.MatchString(text),
	}
}

func analyzeStrengthsWeaknesses(text string, sections map[string]SectionAnalysis) ([]string, []string) {
	var strengths, weaknesses []string

	// Map iteration order is random; sort for stable reports.
	for _, name := range sortedSectionNames(sections) {
		analysis := sections[name]
		if analysis.Score >= 80 {
			strengths = append(strengths, fmt.Sprintf("%s 섹션이 충실하게 작성됨", name))
		} else if analysis.Score < 50 {
			weaknesses = append(weaknesses, fmt.Sprintf("%s 섹션이 부족하거나 미흡함", name))
		}
	}

	textLen := len([]rune(text))
	if textLen > 10000 {
		strengths = append(strengths, "충분한 분량의 상세한 제안서")
	} else if textLen < 3000 {
		weaknesses = append(weaknesses, "제안서 분량이 부족함")
	}

	if strings.Contains(text, "목차") || strings.Contains(text, "Contents") {
		strengths = append(strengths, "체계적인 문서 구조")
	} else {
		weaknesses = append(weaknesses, "명확한 문서 구조가 부족함")
	}

	techCount := 0
	for _, keyword := range []string{"API", "데이터베이스", "아키텍처", "보안", "성능"} {
		if strings.Contains(text, keyword) {
			techCount++
		}
	}
	if techCount >= 3 {
		strengths = append(strengths, "기술적 내용이 풍부함")
	} else {
		weaknesses = append(weaknesses, "기술적 세부사항이 부족함")
	}

	return capSlice(strengths, maxStrengths), capSlice(weaknesses, maxWeaknesses)
}

func (e *Evaluator) improvementSuggestions(ctx context.Context, sections map[string]SectionAnalysis, contentQuality map[string]float64, weaknesses []string) []string {
	var suggestions []string

	for _, name := range sortedSectionNames(sections) {
		if sections[name].Score < 60 {
			suggestions = append(suggestions, fmt.Sprintf("%s 섹션을 더 구체적으로 작성하세요", name))
		}
	}

	if contentQuality["구체성"] < 60 {
		suggestions = append(suggestions, "구체적인 수치와 데이터를 더 많이 포함하세요")
	}
	if contentQuality["전문성"] < 60 {
		suggestions = append(suggestions, "기술적 전문 용어와 상세한 설명을 추가하세요")
	}

	for _, weakness := range weaknesses {
		if strings.Contains(weakness, "구조") {
			suggestions = append(suggestions, "명확한 목차와 문서 구조를 추가하세요")
		} else if strings.Contains(weakness, "분량") {
			suggestions = append(suggestions, "각 섹션의 내용을 더 상세히 기술하세요")
		}
	}

	if len(weaknesses) > 0 {
		prompt := fmt.Sprintf("다음 제안서 약점들을 개선하기 위한 구체적인 제안사항 3가지를 제시해주세요:\n\n약점들:\n%s\n\n개선 제안사항:",
			strings.Join(weaknesses, ", "))
		response := e.generator.Generate(ctx, prompt, suggestionsMaxTokens)
		suggestions = append(suggestions, nonEmptyLines(response, maxAISuggestion)...)
	}

	return capSlice(suggestions, maxSuggestions)
}

func findMissingSections(sections map[string]SectionAnalysis) []string {
	var missing []string
	for _, name := range sortedSectionNames(sections) {
		analysis := sections[name]
		if !analysis.Exists || analysis.Score < missingSectionThreshold {
			missing = append(missing, name)
		}
	}
	return missing
}

// overallScore blends section coverage (40%), content quality (30%),
// readability (15%), and compliance (15%).
func overallScore(sections map[string]SectionAnalysis, contentQuality map[string]float64, readability float64, compliance map[string]bool) float64 {
	var sectionSum float64
	for _, analysis := range sections {
		sectionSum += analysis.Score
	}
	var sectionAvg float64
	if len(sections) > 0 {
		sectionAvg = sectionSum / float64(len(sections))
	}

	var qualitySum float64
	for _, score := range contentQuality {
		qualitySum += score
	}
	var qualityAvg float64
	if len(contentQuality) > 0 {
		qualityAvg = qualitySum / float64(len(contentQuality))
	}

	passed := 0
	for _, ok := range compliance {
		if ok {
			passed++
		}
	}
	var complianceRate float64
	if len(compliance) > 0 {
		complianceRate = float64(passed) / float64(len(compliance)) * 100
	}

	overall := sectionAvg*0.40 + qualityAvg*0.30 + readability*0.15 + complianceRate*0.15
	return math.Round(overall*10) / 10
}

// ReadabilityScore rates text readability from average sentence length.
// Fifteen words per sentence scores 100; each extra word costs two
// points.
func ReadabilityScore(text string) float64 {
	sentences := strings.Split(text, ".")
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	avgSentenceLength := float64(len(words)) / float64(len(sentences))
	score := 100 - (avgSentenceLength-15)*2
	score = max(0, min(100, score))
	return math.Round(score*100) / 100
}

func sortedSectionNames(sections map[string]SectionAnalysis) []string {
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
