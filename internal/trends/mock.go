package trends

import (
	"context"

	"autoblog/internal/core"
)

// MockProvider implements Provider for testing purposes.
type MockProvider struct {
	Topic core.Topic
	Err   error
}

// NewMockProvider creates a mock with a fixed topic.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Topic: core.Topic{
			Keyword: "AI automation",
			Context: []string{"benefits of AI automation", "implementation challenges", "future impact"},
			Source:  "mock",
		},
	}
}

// GetName returns the name of this provider.
func (m *MockProvider) GetName() string {
	return "Mock"
}

// Trending returns the configured topic or error.
func (m *MockProvider) Trending(ctx context.Context, hint string) (core.Topic, error) {
	if m.Err != nil {
		return core.Topic{}, m.Err
	}
	return m.Topic, nil
}
