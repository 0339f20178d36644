// Copyright 2025 Proposive Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package rfpbase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/proposive/rfpbase/ai"
	"github.com/proposive/rfpbase/ai/openai"
	"github.com/proposive/rfpbase/analyze"
	"github.com/proposive/rfpbase/cache"
	"github.com/proposive/rfpbase/core"
	"github.com/proposive/rfpbase/extract"
	"github.com/proposive/rfpbase/search"
	"github.com/proposive/rfpbase/storage"
	"github.com/proposive/rfpbase/storage/badger"
	"github.com/proposive/rfpbase/storage/fsblob"
	"github.com/proposive/rfpbase/storage/sqlite"
)

const (
	// statisticsWindow is how far back popular-query aggregation looks.
	statisticsWindow = 30 * 24 * time.Hour

	statisticsLimit = 10

	taggingWorkers   = 2
	taggingMaxTokens = 200

	maxTagPhrases      = 5
	maxTagPhraseLength = 30
)

// KnowledgeBase wires storage, extraction, search, and AI into the
// document lifecycle operations.
type KnowledgeBase struct {
	documents *sqlite.Store
	blobs     storage.BlobStore
	extractor *extract.Extractor
	generator ai.Generator
	results   *cache.Cache
	engine    *search.Engine
	taggers   *ants.Pool
	tagging   sync.WaitGroup
	logger    *slog.Logger
}

// KnowledgeBaseOption configures a KnowledgeBase.
type KnowledgeBaseOption func(*knowledgeBaseOptions)

type knowledgeBaseOptions struct {
	aiConfig    *ai.Config
	blobBackend string
	cacheSize   int
	generator   ai.Generator
	logger      *slog.Logger
}

// WithAIConfig overrides the default AI endpoint configuration.
func WithAIConfig(config *ai.Config) KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithBlobBackend selects the payload store backend,
// BlobBackendFS or BlobBackendBadger.
func WithBlobBackend(backend string) KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		if backend != "" {
			o.blobBackend = backend
		}
	}
}

// WithCacheSize bounds the result cache entry count.
func WithCacheSize(size int) KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		if size > 0 {
			o.cacheSize = size
		}
	}
}

// WithGenerator injects a generator directly, bypassing the AI config.
// Intended for tests.
func WithGenerator(generator ai.Generator) KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		o.generator = generator
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) KnowledgeBaseOption {
	return func(o *knowledgeBaseOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New opens a knowledge base rooted at dataDir.
func New(dataDir string, opts ...KnowledgeBaseOption) (*KnowledgeBase, error) {
	// Apply options
	options := &knowledgeBaseOptions{
		aiConfig:    ai.DefaultConfig(),
		blobBackend: BlobBackendFS,
		cacheSize:   cache.DefaultMaxSize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	documents, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("opening document store: %w", err)
	}

	var blobs storage.BlobStore
	switch options.blobBackend {
	case BlobBackendBadger:
		blobs, err = badger.NewStore(filepath.Join(dataDir, "blobs"))
	default:
		blobs, err = fsblob.NewStore(filepath.Join(dataDir, "files"))
	}
	if err != nil {
		documents.Close()
		return nil, fmt.Errorf("opening blob store: %w", err)
	}

	results := cache.New(cache.WithMaxSize(options.cacheSize))

	generator := options.generator
	if generator == nil {
		inner, err := openai.NewGenerator(options.aiConfig)
		if err != nil {
			blobs.Close()
			documents.Close()
			return nil, err
		}
		generator = inner
	}
	// LLM responses are memoized; repeated identical prompts inside the
	// TTL window hit the cache.
	generator = ai.NewCachedGenerator(generator, results, ai.DefaultGenerateTTL)

	engine, err := search.NewEngine(documents, documents, generator, search.WithLogger(options.logger))
	if err != nil {
		blobs.Close()
		documents.Close()
		return nil, err
	}

	taggers, err := ants.NewPool(taggingWorkers)
	if err != nil {
		blobs.Close()
		documents.Close()
		return nil, fmt.Errorf("creating tagging pool: %w", err)
	}

	return &KnowledgeBase{
		documents: documents,
		blobs:     blobs,
		extractor: extract.New(),
		generator: generator,
		results:   results,
		engine:    engine,
		taggers:   taggers,
		logger:    options.logger,
	}, nil
}

// Close waits for pending background tagging and releases storage
// resources.
func (kb *KnowledgeBase) Close() error {
	kb.tagging.Wait()
	kb.taggers.Release()
	if err := kb.blobs.Close(); err != nil {
		kb.logger.Error("error closing blob store", "err", err)
	}
	if err := kb.documents.Close(); err != nil {
		kb.logger.Error("error closing document store", "err", err)
		return err
	}
	return nil
}

// AddDocument ingests a raw payload: text extraction, keyword tagging,
// payload storage, and metadata rows. The document ID is derived from
// category, upload time, and content hash.
func (kb *KnowledgeBase) AddDocument(ctx context.Context, content []byte, filename string, category core.Category, description string) (*core.Document, error) {
	if filename == "" {
		return nil, core.ErrEmptyFilename
	}
	if len(content) == 0 {
		return nil, core.ErrEmptyContent
	}
	if err := core.ValidateCategory(category); err != nil {
		return nil, err
	}

	text, err := kb.extractor.ExtractText(ctx, content, filename)
	if err != nil {
		return nil, fmt.Errorf("extracting text from %s: %w", filename, err)
	}

	now := time.Now()
	contentHash := core.ContentHash(content)
	doc := &core.Document{
		ID:             core.NewDocumentID(category, now, contentHash),
		Filename:       filename,
		Category:       category,
		Description:    description,
		ContentHash:    contentHash,
		UploadDate:     now,
		FileSize:       int64(len(content)),
		ContentPreview: core.Preview(text),
	}
	docContent := &core.DocumentContent{
		DocumentID: doc.ID,
		Content:    text,
		Keywords:   core.ExtractKeywords(text, core.DefaultKeywordCount),
	}

	if err := kb.blobs.Put(ctx, blobKey(doc.ID, filename), content); err != nil {
		return nil, fmt.Errorf("storing payload for %s: %w", filename, err)
	}

	if err := kb.documents.AddDocument(ctx, doc, docContent); err != nil {
		// Roll the payload back so no unreachable blob survives.
		if delErr := kb.blobs.Delete(ctx, blobKey(doc.ID, filename)); delErr != nil {
			kb.logger.Warn("failed to roll back payload", "documentID", doc.ID, "err", delErr)
		}
		return nil, err
	}

	kb.logger.Info("document added",
		"documentID", doc.ID,
		"filename", filename,
		"category", category,
		"keywords", len(docContent.Keywords))

	// Best-effort AI key-phrase tagging runs off the request path.
	kb.tagging.Add(1)
	submitted := kb.taggers.Submit(func() {
		defer kb.tagging.Done()
		kb.tagDocument(context.Background(), doc.ID, text, docContent.Keywords)
	})
	if submitted != nil {
		kb.tagging.Done()
		kb.logger.Warn("failed to schedule keyword tagging", "documentID", doc.ID, "err", submitted)
	}

	return doc, nil
}

// Flush blocks until background keyword tagging has completed.
func (kb *KnowledgeBase) Flush() {
	kb.tagging.Wait()
}

// tagDocument asks the generator for additional key phrases and merges
// them into the stored keyword list. Failures are logged, never
// surfaced; the frequency-based keywords are already in place.
func (kb *KnowledgeBase) tagDocument(ctx context.Context, id, text string, keywords []string) {
	prompt := fmt.Sprintf("다음 문서의 핵심 키워드를 최대 %d개 추출해주세요. 키워드는 한 줄에 하나씩 작성해주세요.\n\n"+
		"문서 내용:\n%s\n\n키워드:", maxTagPhrases, core.Preview(text))
	response := kb.generator.Generate(ctx, prompt, taggingMaxTokens)

	phrases := parseTagPhrases(response, maxTagPhrases)
	if len(phrases) == 0 {
		return
	}

	merged := mergeKeywords(keywords, phrases)
	if err := kb.documents.UpdateKeywords(ctx, id, merged); err != nil {
		kb.logger.Warn("failed to store AI keywords", "documentID", id, "err", err)
		return
	}
	kb.logger.Debug("document tagged", "documentID", id, "keywords", len(merged))
}

// parseTagPhrases reads generator output as one phrase per line,
// stripping bullet prefixes. Overlong lines are model chatter, not
// keywords, and are dropped.
func parseTagPhrases(response string, limit int) []string {
	var phrases []string
	for _, line := range strings.Split(response, "\n") {
		phrase := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
		if phrase == "" || len([]rune(phrase)) > maxTagPhraseLength {
			continue
		}
		phrases = append(phrases, phrase)
		if len(phrases) == limit {
			break
		}
	}
	return phrases
}

// mergeKeywords appends extras to base, dropping duplicates and
// keeping first-seen order.
func mergeKeywords(base, extras []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extras))
	merged := make([]string, 0, len(base)+len(extras))
	for _, keyword := range append(append([]string(nil), base...), extras...) {
		if _, ok := seen[keyword]; ok {
			continue
		}
		seen[keyword] = struct{}{}
		merged = append(merged, keyword)
	}
	return merged
}

// GetDocument retrieves a document with its extracted content.
func (kb *KnowledgeBase) GetDocument(ctx context.Context, id string) (*core.Document, *core.DocumentContent, error) {
	return kb.documents.GetDocument(ctx, id)
}

// GetPayload retrieves the original uploaded bytes of a document.
func (kb *KnowledgeBase) GetPayload(ctx context.Context, id string) ([]byte, error) {
	doc, _, err := kb.documents.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	return kb.blobs.Get(ctx, blobKey(doc.ID, doc.Filename))
}

// DeleteDocument removes a document's rows and payload.
// Returns storage.ErrNotFound if the document doesn't exist.
func (kb *KnowledgeBase) DeleteDocument(ctx context.Context, id string) error {
	doc, _, err := kb.documents.GetDocument(ctx, id)
	if err != nil {
		return err
	}
	if err := kb.documents.DeleteDocument(ctx, id); err != nil {
		return err
	}
	// Blob deletion is tolerant; a missing file is not an error.
	if err := kb.blobs.Delete(ctx, blobKey(doc.ID, doc.Filename)); err != nil {
		kb.logger.Warn("failed to delete payload", "documentID", id, "err", err)
	}

	kb.logger.Info("document deleted", "documentID", id, "filename", doc.Filename)
	return nil
}

// Search runs the ranked search pipeline.
func (kb *KnowledgeBase) Search(ctx context.Context, query string, category core.Category) (*core.SearchResponse, error) {
	return kb.engine.Search(ctx, query, category)
}

// Statistics summarizes stored documents and recent search activity.
func (kb *KnowledgeBase) Statistics(ctx context.Context) (*core.Statistics, error) {
	total, err := kb.documents.CountDocuments(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := kb.documents.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := kb.documents.RecentDocuments(ctx, statisticsLimit)
	if err != nil {
		return nil, err
	}
	popular, err := kb.documents.PopularQueries(ctx, time.Now().Add(-statisticsWindow), statisticsLimit)
	if err != nil {
		return nil, err
	}

	return &core.Statistics{
		TotalDocuments:  total,
		CategoryCounts:  counts,
		RecentDocuments: recent,
		PopularQueries:  popular,
	}, nil
}

// ResultCache exposes the shared memoization cache.
func (kb *KnowledgeBase) ResultCache() *cache.Cache {
	return kb.results
}

// NewAnalyzer creates an RFP analyzer sharing this knowledge base's
// extractor and generator.
func (kb *KnowledgeBase) NewAnalyzer() (*analyze.Analyzer, error) {
	return analyze.NewAnalyzer(kb.extractor, kb.generator, kb.logger)
}

// NewEvaluator creates a proposal quality evaluator.
func (kb *KnowledgeBase) NewEvaluator() (*analyze.Evaluator, error) {
	return analyze.NewEvaluator(kb.extractor, kb.generator, kb.logger)
}

// NewAdvisor creates a bid strategy advisor.
func (kb *KnowledgeBase) NewAdvisor() (*analyze.Advisor, error) {
	return analyze.NewAdvisor(kb.generator, kb.logger)
}

// blobKey is the payload storage key for a document.
func blobKey(documentID, filename string) string {
	return documentID + "_" + filename
}
