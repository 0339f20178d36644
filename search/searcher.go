package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/proposive/rfpbase/ai"
	"github.com/proposive/rfpbase/core"
	"github.com/proposive/rfpbase/storage"
)

const (
	// MaxCandidates is the number of rows the candidate query pulls from
	// storage before scoring.
	MaxCandidates = 20

	// maxEnriched is the number of top-ranked results passed through
	// AI enrichment; the response is capped at this count when any
	// results exist.
	maxEnriched = 10

	// enrichPromptResults is the number of results summarized in the
	// enrichment prompt.
	enrichPromptResults = 5

	enrichMaxTokens = 400
)

// Engine ranks substring-matched candidates by relevance and layers
// best-effort AI enrichment on top.
type Engine struct {
	documents storage.DocumentStore
	logs      storage.SearchLogStore
	generator ai.Generator
	logger    *slog.Logger
	clock     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithClock sets the time source used for search timing and log
// timestamps. Intended for tests.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) error {
		if clock != nil {
			e.clock = clock
		}
		return nil
	}
}

// NewEngine creates a new search engine.
func NewEngine(
	documents storage.DocumentStore,
	logs storage.SearchLogStore,
	generator ai.Generator,
	opts ...Option,
) (*Engine, error) {
	if documents == nil {
		return nil, ErrDocumentStoreRequired
	}
	if logs == nil {
		return nil, ErrSearchLogStoreRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	e := &Engine{
		documents: documents,
		logs:      logs,
		generator: generator,
		logger:    slog.Default(),
		clock:     time.Now,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Search runs the full pipeline: candidate retrieval, relevance scoring,
// enrichment of the top results, audit logging, and suggestion building.
// Returns up to maxEnriched ranked results.
func (e *Engine) Search(ctx context.Context, query string, category core.Category) (*core.SearchResponse, error) {
	return e.SearchWithMonitor(ctx, query, category, nil)
}

// SearchWithMonitor runs Search with monitoring.
// The monitor receives callbacks at each stage of the search process.
func (e *Engine) SearchWithMonitor(ctx context.Context, query string, category core.Category, monitor SearchMonitor) (*core.SearchResponse, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if query == "" {
		return nil, core.ErrEmptyQuery
	}
	if category == "" {
		category = core.CategoryAll
	}

	monitor.Start(query, category)
	started := e.clock()

	// 1. Retrieve candidates by literal substring match
	candidates, err := e.documents.SearchCandidates(ctx, query, category, MaxCandidates)
	if err != nil {
		e.logger.Error("error retrieving search candidates", "query", query, "err", err)
		return nil, err
	}
	monitor.AfterCandidateRetrieval(candidates)

	// 2. Score and rank
	results := make([]core.RankedResult, 0, len(candidates))
	for _, c := range candidates {
		doc := c.Document
		results = append(results, core.RankedResult{
			DocumentID:     doc.ID,
			Filename:       doc.Filename,
			Category:       doc.Category,
			Description:    doc.Description,
			UploadDate:     doc.UploadDate,
			ContentPreview: doc.ContentPreview,
			Keywords:       c.Keywords,
			RelevanceScore: RelevanceScore(query, doc.ContentPreview, c.Keywords, doc.Description),
		})
	}
	// Stable keeps the storage order (newest first) among equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	monitor.AfterScoring(results)

	// 3. Enrich the top results. Enrichment is best effort and caps the
	// result list.
	if len(results) > 0 {
		if len(results) > maxEnriched {
			results = results[:maxEnriched]
		}
		e.enrich(ctx, query, results)
	}
	monitor.AfterEnrichment(results)

	elapsed := e.clock().Sub(started).Seconds()

	// 4. Record the audit log row. A log failure does not fail the search.
	entry := &core.SearchLogEntry{
		Query:        query,
		Category:     category,
		ResultsCount: len(results),
		SearchTime:   elapsed,
		Timestamp:    e.clock(),
	}
	if err := e.logs.AddSearchLog(ctx, entry); err != nil {
		e.logger.Warn("failed to record search log", "query", query, "err", err)
	}

	response := &core.SearchResponse{
		Results:     results,
		TotalCount:  len(results),
		SearchTime:  math.Round(elapsed*1000) / 1000,
		Query:       query,
		Category:    category,
		Suggestions: buildSuggestions(query, results),
	}
	monitor.Finish(response)

	return response, nil
}

// enrich asks the generator to rate the top results and marks each one.
// The generator never fails, so the analysis note is always attached.
func (e *Engine) enrich(ctx context.Context, query string, results []core.RankedResult) {
	prompt := fmt.Sprintf("사용자가 %q에 대해 검색했습니다.\n"+
		"다음 검색 결과들 중에서 가장 관련성이 높은 순서로 3개를 선택하고, 각각에 대한 관련성 이유를 설명해주세요.\n\n검색 결과:\n", query)
	for i, r := range results {
		if i >= enrichPromptResults {
			break
		}
		prompt += fmt.Sprintf("%d. %s: %s\n", i+1, r.Filename, r.Description)
	}

	e.generator.Generate(ctx, prompt, enrichMaxTokens)

	for i := range results {
		results[i].AIRelevanceNote = "AI 분석 완료"
	}
}
