package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"nutrilens/internal/nutrition"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Ask(ctx context.Context, message string) (*nutrition.ChatReply, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nutrition.ChatReply), args.Error(1)
}
