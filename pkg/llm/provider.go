package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role       string // "user", "assistant", "system", "tool"
	Content    string
	ToolCalls  []ToolCall // set on assistant turns that request tool use
	ToolCallID string     // set on tool turns, echoing the originating call
}

// ToolCall is a model-requested invocation of a named tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // raw JSON as produced by the model
}

// ToolDef describes a callable tool to the model.
type ToolDef struct {
	Name        string
	Description string
	Parameters  map[string]interface{} // JSON schema
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// ChatProvider defines the contract for any chat-completion backend.
type ChatProvider interface {
	// Chat sends a chat history (and available tool definitions) to the model
	// and returns the assistant reply, which may carry tool calls.
	Chat(ctx context.Context, history []Message, tools []ToolDef, options ...Option) (*Message, error)
}
