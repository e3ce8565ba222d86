package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/menubebe/backend/internal/service"
)

// MockGenerator is a mock implementation of service.Generator
type MockGenerator struct {
	mock.Mock
}

// Generate mocks the Generate method
func (m *MockGenerator) Generate(ctx context.Context, apiKey, prompt string, opts service.GenerationOptions) (string, error) {
	args := m.Called(ctx, apiKey, prompt, opts)
	return args.String(0), args.Error(1)
}

// MockMealSuggester is a mock implementation of service.MealSuggester
type MockMealSuggester struct {
	mock.Mock
}

// Suggest mocks the Suggest method
func (m *MockMealSuggester) Suggest(ctx context.Context, menuText string) (string, error) {
	args := m.Called(ctx, menuText)
	return args.String(0), args.Error(1)
}
