package ai

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proposive/rfpbase/cache"
)

// countingGenerator numbers its responses so tests can tell a cache hit
// from a fresh call.
type countingGenerator struct {
	mu    sync.Mutex
	calls int
}

func (g *countingGenerator) Generate(_ context.Context, prompt string, maxTokens int) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return fmt.Sprintf("completion-%d:%s:%d", g.calls, prompt, maxTokens)
}

func (g *countingGenerator) Chat(_ context.Context, messages []Message, maxTokens int) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return fmt.Sprintf("chat-%d:%d:%d", g.calls, len(messages), maxTokens)
}

func (g *countingGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func TestCachedGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("repeated prompt hits the cache", func(t *testing.T) {
		inner := &countingGenerator{}
		cached := NewCachedGenerator(inner, cache.New(), DefaultGenerateTTL)

		first := cached.Generate(ctx, "시장 동향을 요약해줘", 400)
		second := cached.Generate(ctx, "시장 동향을 요약해줘", 400)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, inner.callCount())
	})

	t.Run("prompt is part of the key", func(t *testing.T) {
		inner := &countingGenerator{}
		cached := NewCachedGenerator(inner, cache.New(), DefaultGenerateTTL)

		first := cached.Generate(ctx, "프롬프트 A", 400)
		second := cached.Generate(ctx, "프롬프트 B", 400)

		assert.NotEqual(t, first, second)
		assert.Equal(t, 2, inner.callCount())
	})

	t.Run("max tokens is part of the key", func(t *testing.T) {
		inner := &countingGenerator{}
		cached := NewCachedGenerator(inner, cache.New(), DefaultGenerateTTL)

		first := cached.Generate(ctx, "같은 프롬프트", 400)
		second := cached.Generate(ctx, "같은 프롬프트", 800)

		assert.NotEqual(t, first, second)
		assert.Equal(t, 2, inner.callCount())
	})

	t.Run("expired entry is regenerated", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		inner := &countingGenerator{}
		cached := NewCachedGenerator(inner, cache.New(cache.WithClock(clock)), time.Minute)

		cached.Generate(ctx, "만료 테스트", 400)
		now = now.Add(61 * time.Second)
		cached.Generate(ctx, "만료 테스트", 400)

		assert.Equal(t, 2, inner.callCount())
	})
}

func TestCachedGenerator_Chat(t *testing.T) {
	ctx := context.Background()
	conversation := []Message{
		{Role: RoleSystem, Content: "당신은 제안 전략 전문가입니다."},
		{Role: RoleUser, Content: "경쟁 환경을 분석해줘"},
	}

	t.Run("repeated conversation hits the cache", func(t *testing.T) {
		inner := &countingGenerator{}
		cached := NewCachedGenerator(inner, cache.New(), DefaultGenerateTTL)

		first := cached.Chat(ctx, conversation, 400)
		second := cached.Chat(ctx, conversation, 400)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, inner.callCount())
	})

	t.Run("role changes the key", func(t *testing.T) {
		inner := &countingGenerator{}
		cached := NewCachedGenerator(inner, cache.New(), DefaultGenerateTTL)

		asUser := []Message{{Role: RoleUser, Content: "같은 내용"}}
		asSystem := []Message{{Role: RoleSystem, Content: "같은 내용"}}

		first := cached.Chat(ctx, asUser, 400)
		second := cached.Chat(ctx, asSystem, 400)

		assert.NotEqual(t, first, second)
		assert.Equal(t, 2, inner.callCount())
	})

	t.Run("chat and generate keys do not collide", func(t *testing.T) {
		inner := &countingGenerator{}
		cached := NewCachedGenerator(inner, cache.New(), DefaultGenerateTTL)

		cached.Generate(ctx, "user:같은 내용", 400)
		cached.Chat(ctx, []Message{{Role: RoleUser, Content: "같은 내용"}}, 400)

		assert.Equal(t, 2, inner.callCount())
	})
}

func TestNewCachedGenerator_DefaultTTL(t *testing.T) {
	inner := &countingGenerator{}
	cached := NewCachedGenerator(inner, cache.New(), 0)
	require.NotNil(t, cached)
	assert.Equal(t, DefaultGenerateTTL, cached.ttl)
}
