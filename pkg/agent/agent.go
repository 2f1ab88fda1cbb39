// Package agent provides a conversational agent that answers questions by
// looping between a chat-completion model and the tools advertised by an MCP
// client, within a bounded number of tool-invocation steps per message.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Okasha-Rehman/aws-qa-chatbot/pkg/llm"
	"github.com/Okasha-Rehman/aws-qa-chatbot/pkg/mcptool"
)

const defaultSystemPrompt = "You are a helpful assistant that answers questions about AWS. " +
	"Use the available documentation tools to look up accurate, up-to-date information " +
	"before answering. Answer concisely and cite the service or guide you used."

// ToolInvoker is the slice of the MCP client the agent needs.
type ToolInvoker interface {
	Tools() []mcptool.Tool
	CallTool(ctx context.Context, name string, args map[string]interface{}) (string, error)
}

// Options configure an Agent.
type Options struct {
	MaxSteps      int    // tool-invocation budget per Run call
	MemoryEnabled bool   // carry conversation history across Run calls
	SystemPrompt  string // first message of every conversation
}

// Agent binds a chat model to a tool transport and keeps the conversation
// history between turns when memory is enabled.
type Agent struct {
	provider llm.ChatProvider
	tools    ToolInvoker
	opts     Options

	mu      sync.Mutex
	history []llm.Message
}

func NewAgent(provider llm.ChatProvider, tools ToolInvoker, optFns ...func(o *Options)) *Agent {
	opts := Options{
		MaxSteps:      15,
		MemoryEnabled: true,
		SystemPrompt:  defaultSystemPrompt,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Agent{
		provider: provider,
		tools:    tools,
		opts:     opts,
		history:  []llm.Message{{Role: "system", Content: opts.SystemPrompt}},
	}
}

// Run sends input through the model/tool loop and returns the final textual
// reply. On failure the remembered history is left untouched, so a later Run
// starts from the last successful exchange.
func (a *Agent) Run(ctx context.Context, input string) (string, error) {
	a.mu.Lock()
	messages := make([]llm.Message, len(a.history))
	copy(messages, a.history)
	a.mu.Unlock()

	messages = append(messages, llm.Message{Role: "user", Content: input})
	defs := a.toolDefs()

	for step := 0; step < a.opts.MaxSteps; step++ {
		reply, err := a.provider.Chat(ctx, messages, defs)
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}

		if len(reply.ToolCalls) == 0 {
			if a.opts.MemoryEnabled {
				a.remember(input, reply.Content)
			}
			return reply.Content, nil
		}

		messages = append(messages, *reply)
		for _, call := range reply.ToolCalls {
			messages = append(messages, llm.Message{
				Role:       "tool",
				Content:    a.invoke(ctx, call),
				ToolCallID: call.ID,
			})
		}
	}

	return "", fmt.Errorf("no answer after %d tool steps", a.opts.MaxSteps)
}

// ClearConversationHistory resets the agent to a fresh conversation. The
// system prompt survives.
func (a *Agent) ClearConversationHistory() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = []llm.Message{{Role: "system", Content: a.opts.SystemPrompt}}
}

func (a *Agent) toolDefs() []llm.ToolDef {
	tools := a.tools.Tools()
	defs := make([]llm.ToolDef, len(tools))
	for i, t := range tools {
		defs[i] = llm.ToolDef{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.InputSchema,
		}
	}
	return defs
}

// invoke executes one tool call. Failures are fed back to the model as the
// tool result instead of aborting the run, so it can recover or rephrase.
func (a *Agent) invoke(ctx context.Context, call llm.ToolCall) string {
	var args map[string]interface{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return fmt.Sprintf("error: invalid tool arguments: %v", err)
		}
	}

	result, err := a.tools.CallTool(ctx, call.Name, args)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return result
}

// remember commits a completed exchange to the conversation history. Only the
// user turn and the final assistant turn are kept; intermediate tool traffic
// is not replayed on later requests.
func (a *Agent) remember(input, reply string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = append(a.history,
		llm.Message{Role: "user", Content: input},
		llm.Message{Role: "assistant", Content: reply},
	)
}
