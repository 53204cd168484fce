package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/xaenox/stocksense/internal/models"
)

// MockClient is a canned language model for tests and offline runs.
type MockClient struct {
	mu    sync.Mutex
	Reply string
	Err   error

	ChatCalls     int
	CompleteCalls int
	LastSystem    string
	LastPrompt    string
}

func NewMockClient(reply string) *MockClient {
	return &MockClient{Reply: reply}
}

func (m *MockClient) ChatCompletion(ctx context.Context, systemPrompt string, history []models.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ChatCalls++
	m.LastSystem = systemPrompt
	if m.Err != nil {
		return "", m.Err
	}
	if m.Reply != "" {
		return m.Reply, nil
	}
	return fmt.Sprintf("mock reply %d", m.ChatCalls), nil
}

func (m *MockClient) Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CompleteCalls++
	m.LastPrompt = prompt
	if m.Err != nil {
		return "", m.Err
	}
	if m.Reply != "" {
		return m.Reply, nil
	}
	return fmt.Sprintf("mock completion %d", m.CompleteCalls), nil
}
