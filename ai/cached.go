package ai

import (
	"context"
	"strconv"
	"time"

	"github.com/proposive/rfpbase/cache"
)

// DefaultGenerateTTL is how long generation results stay reusable. The
// surrounding application treats a prompt repeated within half an hour
// as the same question.
const DefaultGenerateTTL = 1800 * time.Second

// CachedGenerator memoizes an inner Generator through a shared result
// cache. Identical prompts within the TTL window return the cached
// response without touching the generation service.
type CachedGenerator struct {
	inner Generator
	cache *cache.Cache
	ttl   time.Duration
}

var _ Generator = (*CachedGenerator)(nil)

// NewCachedGenerator wraps inner with memoization. A ttl of zero or
// below falls back to DefaultGenerateTTL.
func NewCachedGenerator(inner Generator, resultCache *cache.Cache, ttl time.Duration) *CachedGenerator {
	if ttl <= 0 {
		ttl = DefaultGenerateTTL
	}
	return &CachedGenerator{inner: inner, cache: resultCache, ttl: ttl}
}

// Generate returns a cached completion when one is live, otherwise
// delegates to the inner generator.
func (g *CachedGenerator) Generate(ctx context.Context, prompt string, maxTokens int) string {
	key := cache.KeyFor("generate", []any{prompt}, map[string]string{
		"max_tokens": strconv.Itoa(maxTokens),
	})
	value, err := g.cache.Do(key, g.ttl, func() (any, error) {
		return g.inner.Generate(ctx, prompt, maxTokens), nil
	})
	if err != nil {
		// The inner generator never fails; Do only propagates fn errors.
		return g.inner.Generate(ctx, prompt, maxTokens)
	}
	return value.(string)
}

// Chat returns a cached completion for the conversation when one is
// live, otherwise delegates to the inner generator.
func (g *CachedGenerator) Chat(ctx context.Context, messages []Message, maxTokens int) string {
	args := make([]any, 0, len(messages))
	for _, m := range messages {
		args = append(args, string(m.Role)+":"+m.Content)
	}
	key := cache.KeyFor("chat", args, map[string]string{
		"max_tokens": strconv.Itoa(maxTokens),
	})
	value, err := g.cache.Do(key, g.ttl, func() (any, error) {
		return g.inner.Chat(ctx, messages, maxTokens), nil
	})
	if err != nil {
		return g.inner.Chat(ctx, messages, maxTokens)
	}
	return value.(string)
}
