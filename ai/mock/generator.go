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


// Package mock provides test doubles for the ai package.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/proposive/rfpbase/ai"
)

// MockGenerator is a test double for ai.Generator. It is safe for
// concurrent use so cache and dispatcher tests can count invocations
// across goroutines.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, uses default deterministic behavior.
	GenerateFunc func(ctx context.Context, prompt string, maxTokens int) string

	// ChatFunc is called by Chat if set.
	ChatFunc func(ctx context.Context, messages []ai.Message, maxTokens int) string

	mu        sync.Mutex
	callCount int
}

var _ ai.Generator = (*MockGenerator)(nil)

// NewMockGenerator creates a mock generator with default deterministic
// behavior.
// Note: returns the concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate echoes a deterministic response derived from the prompt.
func (m *MockGenerator) Generate(ctx context.Context, prompt string, maxTokens int) string {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, maxTokens)
	}
	return fmt.Sprintf("mock-completion(%d):%s", maxTokens, truncate(prompt, 40))
}

// Chat echoes a deterministic response derived from the last message.
func (m *MockGenerator) Chat(ctx context.Context, messages []ai.Message, maxTokens int) string {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, messages, maxTokens)
	}
	last := ""
	if len(messages) > 0 {
		last = messages[len(messages)-1].Content
	}
	return fmt.Sprintf("mock-chat(%d):%s", maxTokens, truncate(last, 40))
}

// CallCount returns the number of times any method was called.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and scripted behavior.
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.GenerateFunc = nil
	m.ChatFunc = nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
