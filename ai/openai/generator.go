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


// Package openai implements ai.Generator against OpenAI-compatible
// chat APIs.
package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/proposive/rfpbase/ai"
)

// Generator implements ai.Generator using an OpenAI-compatible service.
// Per the ai.Generator contract it never returns an error: any service
// failure produces a deterministic templated fallback response.
type Generator struct {
	client      llms.Model
	temperature float64
	logger      *slog.Logger
}

var _ ai.Generator = (*Generator)(nil)

// NewGenerator creates a generator from the provided configuration.
//
// Returns the ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// newGenerator is the internal constructor returning the concrete type.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	token := config.Token
	if token == "" {
		// Local OpenAI-compatible services don't check the token but
		// the client requires one.
		token = "none"
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(token),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:      client,
		temperature: config.Temperature,
		logger:      slog.Default().With("component", "openai-generator"),
	}, nil
}

// Generate produces a completion for a single prompt.
func (g *Generator) Generate(ctx context.Context, prompt string, maxTokens int) string {
	return g.Chat(ctx, []ai.Message{{Role: ai.RoleUser, Content: prompt}}, maxTokens)
}

// Chat produces a completion for a multi-turn conversation.
func (g *Generator) Chat(ctx context.Context, messages []ai.Message, maxTokens int) string {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		content = append(content, llms.MessageContent{
			Role: chatRole(m.Role),
			Parts: []llms.ContentPart{
				llms.TextPart(m.Content),
			},
		})
	}

	response, err := g.client.GenerateContent(ctx, content,
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(maxTokens))
	if err != nil {
		g.logger.Warn("generation service call failed, using fallback response", "err", err)
		return fallbackResponse(lastUserContent(messages))
	}
	if len(response.Choices) < 1 {
		g.logger.Debug("no choices returned from model, using fallback response")
		return fallbackResponse(lastUserContent(messages))
	}

	return strings.TrimSpace(response.Choices[0].Content)
}

func chatRole(role ai.Role) llms.ChatMessageType {
	switch role {
	case ai.RoleSystem:
		return llms.ChatMessageTypeSystem
	case ai.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}

func lastUserContent(messages []ai.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == ai.RoleUser {
			return messages[i].Content
		}
	}
	if len(messages) > 0 {
		return messages[len(messages)-1].Content
	}
	return ""
}
