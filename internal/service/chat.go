package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"nutrilens/internal/analyzer"
	"nutrilens/internal/nutrition"
)

// MaxChatMessageLen bounds the user message forwarded to the model.
const MaxChatMessageLen = 2000

var (
	ErrMessageRequired = errors.New("message is required")
	ErrMessageTooLong  = fmt.Errorf("message must be at most %d characters", MaxChatMessageLen)
)

// ChatService answers free-form nutrition questions.
type ChatService interface {
	Ask(ctx context.Context, message string) (*nutrition.ChatReply, error)
}

type chatService struct {
	analyzer analyzer.Analyzer
}

func NewChatService(an analyzer.Analyzer) ChatService {
	return &chatService{analyzer: an}
}

func (s *chatService) Ask(ctx context.Context, message string) (*nutrition.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrMessageRequired
	}
	if utf8.RuneCountInString(message) > MaxChatMessageLen {
		return nil, ErrMessageTooLong
	}
	raw, err := s.analyzer.Chat(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}
	reply := nutrition.ParseChat(raw)
	return &reply, nil
}
