package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"nutrilens/internal/analyzer"
)

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) AnalyzeImage(ctx context.Context, img analyzer.Image, quantity string) (string, error) {
	args := m.Called(ctx, img, quantity)
	return args.String(0), args.Error(1)
}

func (m *MockAnalyzer) Chat(ctx context.Context, message string) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}
