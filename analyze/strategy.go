package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/proposive/rfpbase/ai"
)

const (
	maxRecommendations = 8
	maxSuccessFactors  = 10
	maxChallenges      = 8
	maxAIRecommends    = 3

	marketMaxTokens    = 800
	recommendMaxTokens = 400
)

// industryProfile is the curated domain knowledge for one industry.
type industryProfile struct {
	keyTrends      []string
	regulations    []string
	successFactors []string
}

var industryKnowledge = map[string]industryProfile{
	"금융": {
		keyTrends:      []string{"디지털 트랜스포메이션", "핀테크", "오픈뱅킹", "AI/ML", "블록체인"},
		regulations:    []string{"금융위원회 규정", "개인정보보호법", "전자금융거래법"},
		successFactors: []string{"보안성", "안정성", "사용성", "규제 준수"},
	},
	"제조": {
		keyTrends:      []string{"스마트팩토리", "IoT", "예측 정비", "자동화", "MES"},
		regulations:    []string{"산업안전보건법", "환경법규", "품질표준"},
		successFactors: []string{"효율성", "품질", "안전성", "비용 절감"},
	},
	"공공": {
		keyTrends:      []string{"디지털정부", "AI행정", "빅데이터", "클라우드", "사이버보안"},
		regulations:    []string{"전자정부법", "정보보호법", "공공데이터법"},
		successFactors: []string{"투명성", "효율성", "접근성", "보안성"},
	},
	"교육": {
		keyTrends:      []string{"에듀테크", "원격학습", "개인화 교육", "VR/AR", "LMS"},
		regulations:    []string{"개인정보보호법", "교육기본법", "저작권법"},
		successFactors: []string{"학습효과", "접근성", "사용편의성", "콘텐츠 품질"},
	},
}

// fallbackProfile covers industries without curated knowledge.
var fallbackProfile = industryProfile{
	keyTrends:      []string{"디지털 혁신", "클라우드 도입", "데이터 활용"},
	regulations:    []string{"일반 법규"},
	successFactors: []string{"기술력", "비용 효율성"},
}

// MarketAnalysis is the market context for one industry.
type MarketAnalysis struct {
	KeyTrends     []string
	FutureOutlook string
	Regulations   []string
}

// ClientAnalysis is what could be inferred about the prospective client.
type ClientAnalysis struct {
	OrganizationType string
	Size             string
	MaturityLevel    string
	KeyChallenges    []string
	Opportunities    []string
}

// StrategyReport is the outcome of one business context analysis.
type StrategyReport struct {
	AnalyzedAt               time.Time
	Industry                 string
	MarketAnalysis           MarketAnalysis
	ClientAnalysis           ClientAnalysis
	CompetitiveLandscape     []string
	StrategicRecommendations []string
	SuccessFactors           []string
	PotentialChallenges      []string
	RecommendedApproach      string
}

// Advisor turns industry, client, and scope descriptions into bid
// strategy material.
type Advisor struct {
	generator ai.Generator
	logger    *slog.Logger
}

// NewAdvisor creates a new strategy advisor.
func NewAdvisor(generator ai.Generator, logger *slog.Logger) (*Advisor, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Advisor{
		generator: generator,
		logger:    logger.With("component", "advisor"),
	}, nil
}

// AnalyzeBusinessContext assembles the full strategy report.
func (a *Advisor) AnalyzeBusinessContext(ctx context.Context, industry, clientInfo, projectScope string) (*StrategyReport, error) {
	if industry == "" {
		return nil, ErrEmptyIndustry
	}

	market := a.analyzeMarketTrends(ctx, industry)
	recommendations := a.strategicRecommendations(ctx, industry, clientInfo, projectScope)

	report := &StrategyReport{
		AnalyzedAt:               time.Now(),
		Industry:                 industry,
		MarketAnalysis:           market,
		ClientAnalysis:           analyzeClientContext(clientInfo),
		CompetitiveLandscape:     competitiveLandscape(industry, projectScope),
		StrategicRecommendations: recommendations,
		SuccessFactors:           successFactors(industry, projectScope),
		PotentialChallenges:      identifyChallenges(industry, clientInfo, projectScope),
		RecommendedApproach:      recommendApproach(industry, projectScope),
	}

	a.logger.Info("business context analyzed",
		"industry", industry,
		"recommendations", len(report.StrategicRecommendations))

	return report, nil
}

func profileFor(industry string) industryProfile {
	if profile, ok := industryKnowledge[industry]; ok {
		return profile
	}
	return fallbackProfile
}

func (a *Advisor) analyzeMarketTrends(ctx context.Context, industry string) MarketAnalysis {
	profile := profileFor(industry)

	prompt := fmt.Sprintf("%s 산업의 현재 시장 동향과 기술 트렌드를 분석해주세요.\n\n"+
		"다음 관점에서 분석해주세요:\n1. 주요 기술 동향\n2. 시장 성장률\n3. 주요 플레이어\n4. 미래 전망\n\n분석 결과:", industry)
	outlook := a.generator.Generate(ctx, prompt, marketMaxTokens)
	if outlook == "" {
		outlook = fmt.Sprintf("%s 산업은 지속적인 디지털 혁신이 예상됩니다.", industry)
	}

	return MarketAnalysis{
		KeyTrends:     profile.keyTrends,
		FutureOutlook: outlook,
		Regulations:   profile.regulations,
	}
}

func analyzeClientContext(clientInfo string) ClientAnalysis {
	analysis := ClientAnalysis{
		OrganizationType: "분석 중",
		Size:             "분석 중",
		MaturityLevel:    "중간",
	}

	if strings.Contains(clientInfo, "대기업") || strings.Contains(clientInfo, "대형") {
		analysis.Size = "대기업"
		analysis.Opportunities = append(analysis.Opportunities, "대규모 프로젝트 수행 가능")
	} else if strings.Contains(clientInfo, "중소기업") || strings.Contains(clientInfo, "SME") {
		analysis.Size = "중소기업"
		analysis.Opportunities = append(analysis.Opportunities, "신속한 의사결정 가능")
	}

	if strings.Contains(clientInfo, "공공") || strings.Contains(clientInfo, "정부") {
		analysis.OrganizationType = "공공기관"
		analysis.KeyChallenges = append(analysis.KeyChallenges, "규제 준수 요구사항")
	} else if strings.Contains(clientInfo, "은행") || strings.Contains(clientInfo, "금융") {
		analysis.OrganizationType = "금융기관"
		analysis.KeyChallenges = append(analysis.KeyChallenges, "높은 보안 요구사항")
	}

	return analysis
}

func competitiveLandscape(industry, projectScope string) []string {
	var factors []string
	switch industry {
	case "금융":
		factors = []string{
			"기존 SI 업체들의 금융 경험",
			"핀테크 기업들의 혁신적 솔루션",
			"글로벌 IT 기업들의 클라우드 서비스",
			"금융권 내부 IT 조직의 역량 강화",
		}
	case "제조":
		factors = []string{
			"제조 전문 SI 업체들의 도메인 지식",
			"글로벌 MES/ERP 벤더들",
			"IoT/스마트팩토리 전문 업체들",
			"자동화 장비 업체들의 소프트웨어 확장",
		}
	default:
		factors = []string{
			"기존 SI 업체들의 시장 점유율",
			"클라우드 기반 솔루션 제공업체",
			"전문 컨설팅 업체들",
			"글로벌 IT 서비스 기업들",
		}
	}

	if strings.Contains(projectScope, "AI") || strings.Contains(projectScope, "인공지능") {
		factors = append(factors, "AI 전문 기업들의 기술적 우위")
	}
	if strings.Contains(projectScope, "클라우드") {
		factors = append(factors, "클라우드 네이티브 기업들의 전문성")
	}

	return factors
}

func (a *Advisor) strategicRecommendations(ctx context.Context, industry, clientInfo, projectScope string) []string {
	var recommendations []string

	switch industry {
	case "금융":
		recommendations = append(recommendations,
			"금융 규제 준수를 최우선으로 하는 솔루션 설계",
			"기존 금융 시스템과의 안정적 연동 방안 제시",
			"보안성과 가용성을 강조한 아키텍처 구성",
		)
	case "공공":
		recommendations = append(recommendations,
			"투명성과 공정성을 보장하는 시스템 구축",
			"시민 접근성 향상을 위한 UI/UX 개선",
			"데이터 개방과 활용을 고려한 설계",
		)
	}

	if strings.Contains(projectScope, "디지털 전환") {
		recommendations = append(recommendations, "단계적 디지털 전환 로드맵 제시")
	}
	if strings.Contains(projectScope, "데이터") {
		recommendations = append(recommendations, "데이터 거버넌스 체계 구축 방안 포함")
	}
	if strings.Contains(clientInfo, "중소기업") {
		recommendations = append(recommendations, "비용 효율적이면서 확장 가능한 솔루션 제안")
	}

	prompt := fmt.Sprintf("다음 조건에 맞는 IT 프로젝트 수주를 위한 전략적 권고사항을 3가지 제시해주세요:\n\n"+
		"산업: %s\n고객 정보: %s\n프로젝트 범위: %s\n\n권고사항:", industry, clientInfo, projectScope)
	response := a.generator.Generate(ctx, prompt, recommendMaxTokens)
	recommendations = append(recommendations, nonEmptyLines(response, maxAIRecommends)...)

	return capSlice(recommendations, maxRecommendations)
}

func successFactors(industry, projectScope string) []string {
	profile := profileFor(industry)
	factors := append([]string(nil), profile.successFactors...)

	if strings.Contains(projectScope, "AI") {
		factors = append(factors, "데이터 품질", "알고리즘 정확도", "학습 데이터 확보")
	}
	if strings.Contains(projectScope, "클라우드") {
		factors = append(factors, "마이그레이션 전략", "클라우드 보안", "비용 최적화")
	}
	if strings.Contains(projectScope, "모바일") {
		factors = append(factors, "사용자 경험", "성능 최적화", "다양한 디바이스 지원")
	}

	return capSlice(dedupe(factors), maxSuccessFactors)
}

func identifyChallenges(industry, clientInfo, projectScope string) []string {
	var challenges []string

	switch industry {
	case "금융":
		challenges = append(challenges,
			"엄격한 금융 규제 준수",
			"24/7 무중단 서비스 요구사항",
			"레거시 시스템과의 복잡한 연동",
		)
	case "공공":
		challenges = append(challenges,
			"복잡한 행정 절차와 승인 과정",
			"다양한 이해관계자 조율",
			"예산 제약과 투명성 요구",
		)
	}

	if strings.Contains(projectScope, "AI") {
		challenges = append(challenges, "AI 모델의 신뢰성과 설명가능성 확보")
	}
	if strings.Contains(projectScope, "빅데이터") {
		challenges = append(challenges, "대용량 데이터 처리와 실시간 분석")
	}
	if strings.Contains(clientInfo, "대기업") {
		challenges = append(challenges, "복잡한 의사결정 구조와 긴 승인 과정")
	}

	return capSlice(challenges, maxChallenges)
}

func recommendApproach(industry, projectScope string) string {
	var elements []string

	switch industry {
	case "금융":
		elements = append(elements, "금융권 경험이 풍부한 전문가 투입")
	case "공공":
		elements = append(elements, "공공부문 프로젝트 수행 경험 강조")
	}

	if strings.Contains(projectScope, "AI") {
		elements = append(elements, "POC를 통한 단계적 AI 도입")
	}
	if strings.Contains(projectScope, "클라우드") {
		elements = append(elements, "하이브리드 클라우드 전략 수립")
	}

	elements = append(elements,
		"애자일 방법론을 활용한 반복적 개발",
		"고객과의 긴밀한 소통과 피드백 반영",
		"위험 관리와 품질 보증 체계 구축",
	)

	return strings.Join(elements, " → ")
}
