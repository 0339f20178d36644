package ai

import "context"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a chat exchange.
type Message struct {
	Role    Role
	Content string
}

// Generator produces text from a hosted generation service.
// Implementations must be thread-safe for concurrent use.
//
// Generator never fails: on any transport, auth, or quota error the
// implementation returns a deterministic templated stand-in response
// instead, so pipelines that rely on always getting a string back keep
// functioning and callers need no retry logic of their own.
type Generator interface {
	// Generate produces a completion for a single prompt.
	Generate(ctx context.Context, prompt string, maxTokens int) string

	// Chat produces a completion for a multi-turn conversation.
	Chat(ctx context.Context, messages []Message, maxTokens int) string
}
