package conversation

import "context"

// Exchange roles understood by the completion service.
const (
	RoleSystem = "system"
	RoleUser   = "user"
	// RoleModel marks a pre-supplied assistant turn, such as the tutor
	// persona's scripted introduction.
	RoleModel = "model"
)

// Exchange is one turn of priming history handed to the completion service.
type Exchange struct {
	Role string
	Text string
}

// ChatHandle identifies a live multi-turn chat session. The engine treats it
// as opaque; only the completion service that issued it can use it.
type ChatHandle interface {
	ID() string
}

// CompletionService abstracts the hosted language model: one-shot
// completions for quizzes and stateful chat sessions for tutoring.
type CompletionService interface {
	Complete(ctx context.Context, prompt string) (string, error)
	StartChat(ctx context.Context, history []Exchange) (ChatHandle, error)
	Send(ctx context.Context, handle ChatHandle, text string) (string, error)
}
