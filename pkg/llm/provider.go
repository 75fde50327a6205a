package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role       string // "user", "assistant", "system", "tool"
	Content    string
	ToolCalls  []ToolCall // set on assistant messages that requested tools
	ToolCallId string     // set on tool result messages
}

// Tool describes a function the model may call. Parameters is a JSON
// Schema object.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// ToolCall is a (possibly partial) tool invocation emitted by the model.
// During streaming the arguments arrive as fragments that share the same
// Index; callers accumulate them keyed by Index.
type ToolCall struct {
	Index     int
	Id        string
	Name      string
	Arguments string
}

// Delta is one streamed chunk of a model response.
type Delta struct {
	Content      string
	ToolCalls    []ToolCall
	FinishReason string
}

// Stream yields response deltas until io.EOF.
type Stream interface {
	Recv() (Delta, error)
	Close() error
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

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the full response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// ChatStream sends a chat history and streams the response. Tools may
	// be nil when no function calling is wanted.
	ChatStream(ctx context.Context, history []Message, tools []Tool, options ...Option) (Stream, error)
}
