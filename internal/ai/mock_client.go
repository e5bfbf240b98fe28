package ai

import (
	"context"

	"github.com/challasumanth64/assist-respond-ai/internal/model"
)

// MockAIClient is a mock implementation of AIClient for testing
type MockAIClient struct {
	ClassifyEmailFunc    func(ctx context.Context, subject, body string) (*model.Classification, error)
	GenerateResponseFunc func(ctx context.Context, subject, body string, sentiment model.Sentiment, info model.ExtractedInfo) (string, error)
}

func NewMockAIClient() *MockAIClient {
	return &MockAIClient{}
}

func (m *MockAIClient) ClassifyEmail(ctx context.Context, subject, body string) (*model.Classification, error) {
	if m.ClassifyEmailFunc != nil {
		return m.ClassifyEmailFunc(ctx, subject, body)
	}
	c := model.DefaultClassification()
	return &c, nil
}

func (m *MockAIClient) GenerateResponse(ctx context.Context, subject, body string, sentiment model.Sentiment, info model.ExtractedInfo) (string, error) {
	if m.GenerateResponseFunc != nil {
		return m.GenerateResponseFunc(ctx, subject, body, sentiment, info)
	}
	return "Thanks for reaching out about: " + subject, nil
}
