package groq

import (
	"context"
	"fmt"

	"ai-chat-be/pkg/llm"

	openai "github.com/sashabaranov/go-openai"
)

// GroqProvider talks to Groq's OpenAI-compatible chat completion API.
type GroqProvider struct {
	client    *openai.Client
	modelName string
}

var _ llm.LLMProvider = &GroqProvider{}

func NewGroqProvider(apiKey, baseURL, modelName string) *GroqProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &GroqProvider{
		client:    openai.NewClientWithConfig(cfg),
		modelName: modelName,
	}
}

func (g *GroqProvider) buildRequest(history []llm.Message, tools []llm.Tool, opts ...llm.Option) openai.ChatCompletionRequest {
	options := &llm.Options{
		Temperature: 0.7,
	}
	for _, opt := range opts {
		opt(options)
	}

	messages := make([]openai.ChatCompletionMessage, len(history))
	for i, msg := range history {
		m := openai.ChatCompletionMessage{
			Role:       msg.Role,
			Content:    msg.Content,
			ToolCallID: msg.ToolCallId,
		}
		for _, tc := range msg.ToolCalls {
			m.ToolCalls = append(m.ToolCalls, openai.ToolCall{
				ID:   tc.Id,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
		messages[i] = m
	}

	model := g.modelName
	if options.Model != "" {
		model = options.Model
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(options.Temperature),
	}
	if options.MaxTokens > 0 {
		req.MaxTokens = options.MaxTokens
	}

	for _, tool := range tools {
		req.Tools = append(req.Tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}

	return req
}

func (g *GroqProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	req := g.buildRequest(history, nil, opts...)

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("groq chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func (g *GroqProvider) ChatStream(ctx context.Context, history []llm.Message, tools []llm.Tool, opts ...llm.Option) (llm.Stream, error) {
	req := g.buildRequest(history, tools, opts...)
	req.Stream = true

	stream, err := g.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("groq chat stream: %w", err)
	}

	return &groqStream{inner: stream}, nil
}

type groqStream struct {
	inner *openai.ChatCompletionStream
}

func (s *groqStream) Recv() (llm.Delta, error) {
	resp, err := s.inner.Recv()
	if err != nil {
		return llm.Delta{}, err
	}
	if len(resp.Choices) == 0 {
		return llm.Delta{}, nil
	}

	choice := resp.Choices[0]
	delta := llm.Delta{
		Content:      choice.Delta.Content,
		FinishReason: string(choice.FinishReason),
	}

	for _, tc := range choice.Delta.ToolCalls {
		index := 0
		if tc.Index != nil {
			index = *tc.Index
		}
		delta.ToolCalls = append(delta.ToolCalls, llm.ToolCall{
			Index:     index,
			Id:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	return delta, nil
}

func (s *groqStream) Close() error {
	s.inner.Close()
	return nil
}
