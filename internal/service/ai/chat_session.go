package ai

import (
	"sync"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
)

// ChatSession is the opaque handle behind conversation.ChatHandle. It
// accumulates the full message history of one tutoring conversation.
type ChatSession struct {
	id string

	mu      sync.Mutex
	history []*schema.Message
}

func newChatSession(history []*schema.Message) *ChatSession {
	return &ChatSession{
		id:      uuid.NewString(),
		history: history,
	}
}

// ID identifies the session in logs.
func (c *ChatSession) ID() string {
	return c.id
}

// Turns reports the number of messages accumulated so far.
func (c *ChatSession) Turns() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.history)
}
