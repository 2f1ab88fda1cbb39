package store

import (
	"context"
	"sync"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single transcript entry.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Agent is the conversational capability bound to a session. Implementations
// accept natural-language input and produce a reply, possibly invoking tools
// internally within a step budget.
type Agent interface {
	Run(ctx context.Context, input string) (string, error)
	ClearConversationHistory()
}

// ToolClient is the connection layer the agent uses to reach tool providers.
// It must be released when the session ends.
type ToolClient interface {
	Close() error
}

// Session pairs a transcript with a bound agent and its tool transport.
type Session struct {
	ID     string
	Agent  Agent
	Client ToolClient

	mu       sync.Mutex
	messages []Message
}

// AppendExchange records one completed user/assistant pair. The pair is
// written atomically so a concurrent reader never observes a lone user entry.
func (s *Session) AppendExchange(userText, assistantText string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages,
		Message{Role: RoleUser, Content: userText},
		Message{Role: RoleAssistant, Content: assistantText},
	)
}

// Messages returns a snapshot copy of the transcript, not a live view.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Reset empties the transcript and drops the agent's remembered context.
func (s *Session) Reset() {
	s.mu.Lock()
	s.messages = nil
	s.mu.Unlock()
	s.Agent.ClearConversationHistory()
}
