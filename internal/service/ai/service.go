package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/edventure/tutorbot/internal/config"
	"github.com/edventure/tutorbot/internal/conversation"
)

// Service adapts the hosted chat model to the conversation engine's
// completion interface: one-shot completions plus stateful chat sessions.
type Service struct {
	chatModel model.ChatModel
}

// NewService constructs the chat model from configuration.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return &Service{chatModel: chatModel}, nil
}

// Complete runs a single prompt through the model and returns the text.
func (s *Service) Complete(ctx context.Context, prompt string) (string, error) {
	response, err := s.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}
	log.Printf("[ai] one-shot completion, length=%d", len(response.Content))
	return response.Content, nil
}

// StartChat opens a multi-turn session seeded with the supplied history.
func (s *Service) StartChat(_ context.Context, history []conversation.Exchange) (conversation.ChatHandle, error) {
	messages, err := toSchemaMessages(history)
	if err != nil {
		return nil, err
	}
	return newChatSession(messages), nil
}

// Send submits one user turn to the session and returns the model's reply.
// The session history only advances when generation succeeds.
func (s *Service) Send(ctx context.Context, handle conversation.ChatHandle, text string) (string, error) {
	session, ok := handle.(*ChatSession)
	if !ok {
		return "", fmt.Errorf("unknown chat handle %T", handle)
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	messages := make([]*schema.Message, 0, len(session.history)+1)
	messages = append(messages, session.history...)
	messages = append(messages, schema.UserMessage(text))

	response, err := s.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate chat reply: %w", err)
	}

	session.history = append(messages, response)
	log.Printf("[ai] chat reply for session=%s, turns=%d, length=%d",
		session.id, len(session.history), len(response.Content))
	return response.Content, nil
}

func toSchemaMessages(history []conversation.Exchange) ([]*schema.Message, error) {
	messages := make([]*schema.Message, 0, len(history))
	for _, turn := range history {
		switch turn.Role {
		case conversation.RoleSystem:
			messages = append(messages, schema.SystemMessage(turn.Text))
		case conversation.RoleUser:
			messages = append(messages, schema.UserMessage(turn.Text))
		case conversation.RoleModel:
			messages = append(messages, schema.AssistantMessage(turn.Text, nil))
		default:
			return nil, fmt.Errorf("unknown exchange role %q", turn.Role)
		}
	}
	return messages, nil
}
