package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"ai-chat-be/pkg/ai/stream"
	"ai-chat-be/pkg/ai/tools"
	"ai-chat-be/pkg/llm"
)

// SearchTool is the web search capability exposed to the model.
type SearchTool interface {
	Definition() llm.Tool
	Search(ctx context.Context, query string) string
}

// Result is what a completed chat turn produced.
type Result struct {
	// Content is the full assistant text that was streamed to the sink.
	Content string
	// ToolCalls are the reassembled tool invocations from the first pass,
	// empty when the model answered directly.
	ToolCalls []llm.ToolCall
}

// Orchestrator drives a chat turn: one model pass with the search tool
// advertised, an optional tool execution round, then a second pass so the
// model can ground its answer in the results. Content deltas from both
// passes go to the sink; exactly one terminal action (Close or Error) is
// taken.
type Orchestrator struct {
	provider llm.LLMProvider
	search   SearchTool
}

func NewOrchestrator(provider llm.LLMProvider, search SearchTool) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		search:   search,
	}
}

// Run executes the turn. The returned Result is valid only when err is nil.
func (o *Orchestrator) Run(ctx context.Context, systemPrompt string, history []llm.Message, sink stream.Sink) (*Result, error) {
	guarded := stream.NewGuardedSink(sink)

	result, err := o.run(ctx, systemPrompt, history, guarded)
	if err != nil {
		guarded.Error(err)
		return nil, err
	}

	guarded.Close()
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, systemPrompt string, history []llm.Message, sink stream.Sink) (*Result, error) {
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)

	first, err := o.provider.ChatStream(ctx, messages, []llm.Tool{o.search.Definition()})
	if err != nil {
		return nil, err
	}

	var content strings.Builder
	calls, err := o.consume(first, sink, &content)
	if err != nil {
		return nil, err
	}

	if len(calls) == 0 {
		return &Result{Content: content.String()}, nil
	}

	// The model asked for tools. Record the request, execute each call,
	// then stream a second pass grounded in the results.
	messages = append(messages, llm.Message{
		Role:      "assistant",
		ToolCalls: calls,
	})

	for _, call := range calls {
		if call.Name != tools.WebSearchToolName {
			continue
		}
		var args struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return nil, fmt.Errorf("parse %s arguments: %w", call.Name, err)
		}
		messages = append(messages, llm.Message{
			Role:       "tool",
			ToolCallId: call.Id,
			Content:    o.search.Search(ctx, args.Query),
		})
	}

	second, err := o.provider.ChatStream(ctx, messages, nil)
	if err != nil {
		return nil, err
	}

	if _, err := o.consume(second, sink, &content); err != nil {
		return nil, err
	}

	return &Result{Content: content.String(), ToolCalls: calls}, nil
}

// consume drains one model stream, forwarding content deltas to the sink
// and reassembling tool call fragments keyed by their stream index.
func (o *Orchestrator) consume(s llm.Stream, sink stream.Sink, content *strings.Builder) ([]llm.ToolCall, error) {
	defer s.Close()

	pending := make(map[int]*llm.ToolCall)

	for {
		delta, err := s.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if delta.Content != "" {
			content.WriteString(delta.Content)
			if err := sink.Write(delta.Content); err != nil {
				return nil, err
			}
		}

		for _, fragment := range delta.ToolCalls {
			call, ok := pending[fragment.Index]
			if !ok {
				call = &llm.ToolCall{Index: fragment.Index}
				pending[fragment.Index] = call
			}
			if fragment.Id != "" {
				call.Id = fragment.Id
			}
			if fragment.Name != "" {
				call.Name = fragment.Name
			}
			call.Arguments += fragment.Arguments
		}
	}

	if len(pending) == 0 {
		return nil, nil
	}

	indices := make([]int, 0, len(pending))
	for i := range pending {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	calls := make([]llm.ToolCall, 0, len(pending))
	for _, i := range indices {
		calls = append(calls, *pending[i])
	}
	return calls, nil
}
