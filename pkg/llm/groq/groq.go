// Package groq implements llm.ChatProvider against the Groq API. Groq exposes
// an OpenAI-compatible Chat Completions endpoint, so the official OpenAI SDK
// is pointed at the Groq base URL instead of a hand-rolled HTTP client.
package groq

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Okasha-Rehman/aws-qa-chatbot/pkg/llm"
)

type GroqProvider struct {
	client    openai.Client
	modelName string
}

// Ensure GroqProvider implements ChatProvider
var _ llm.ChatProvider = &GroqProvider{}

func NewGroqProvider(apiKey, baseURL, modelName string) *GroqProvider {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)
	return &GroqProvider{
		client:    client,
		modelName: modelName,
	}
}

func (g *GroqProvider) Chat(ctx context.Context, history []llm.Message, tools []llm.ToolDef, opts ...llm.Option) (*llm.Message, error) {
	// 1. Process Options
	options := &llm.Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}

	model := g.modelName
	if options.Model != "" {
		model = options.Model
	}

	// 2. Map generic messages to SDK messages
	params := openai.ChatCompletionNewParams{
		Messages:    buildMessages(history),
		Model:       model,
		Temperature: openai.Float(options.Temperature),
	}
	if options.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(options.MaxTokens))
	}
	if len(tools) > 0 {
		params.Tools = buildTools(tools)
	}

	// 3. Send Request
	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("groq request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("groq returned no choices")
	}

	// 4. Map the reply back
	choice := resp.Choices[0]
	reply := &llm.Message{
		Role:    "assistant",
		Content: choice.Message.Content,
	}
	for _, tc := range choice.Message.ToolCalls {
		reply.ToolCalls = append(reply.ToolCalls, llm.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	return reply, nil
}

func buildMessages(history []llm.Message) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case "system":
			messages = append(messages, openai.SystemMessage(msg.Content))
		case "assistant":
			if len(msg.ToolCalls) == 0 {
				messages = append(messages, openai.AssistantMessage(msg.Content))
				continue
			}
			toolCalls := make([]openai.ChatCompletionMessageToolCallParam, len(msg.ToolCalls))
			for i, tc := range msg.ToolCalls {
				toolCalls[i] = openai.ChatCompletionMessageToolCallParam{
					ID:   tc.ID,
					Type: "function",
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				}
			}
			messages = append(messages, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					Role:      "assistant",
					ToolCalls: toolCalls,
				},
			})
		case "tool":
			messages = append(messages, openai.ToolMessage(msg.Content, msg.ToolCallID))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}
	return messages
}

func buildTools(tools []llm.ToolDef) []openai.ChatCompletionToolParam {
	out := make([]openai.ChatCompletionToolParam, len(tools))
	for i, tdef := range tools {
		out[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        tdef.Name,
				Description: openai.String(tdef.Description),
				Parameters:  openai.FunctionParameters(tdef.Parameters),
			},
		}
	}
	return out
}
