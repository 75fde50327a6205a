package orchestrator

import (
	"context"
	"errors"
	"io"
	"testing"

	"ai-chat-be/pkg/ai/stream"
	"ai-chat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStream struct {
	deltas []llm.Delta
	err    error // returned after deltas are exhausted, instead of io.EOF
	pos    int
	closed bool
}

func (f *fakeStream) Recv() (llm.Delta, error) {
	if f.pos >= len(f.deltas) {
		if f.err != nil {
			return llm.Delta{}, f.err
		}
		return llm.Delta{}, io.EOF
	}
	d := f.deltas[f.pos]
	f.pos++
	return d, nil
}

func (f *fakeStream) Close() error {
	f.closed = true
	return nil
}

type fakeProvider struct {
	streams  []*fakeStream
	requests [][]llm.Message
	tools    [][]llm.Tool
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeProvider) ChatStream(ctx context.Context, history []llm.Message, tools []llm.Tool, opts ...llm.Option) (llm.Stream, error) {
	f.requests = append(f.requests, history)
	f.tools = append(f.tools, tools)
	if len(f.streams) == 0 {
		return nil, errors.New("no stream queued")
	}
	s := f.streams[0]
	f.streams = f.streams[1:]
	return s, nil
}

type fakeSearch struct {
	queries []string
	result  string
}

func (f *fakeSearch) Definition() llm.Tool {
	return llm.Tool{Name: "web_search"}
}

func (f *fakeSearch) Search(ctx context.Context, query string) string {
	f.queries = append(f.queries, query)
	return f.result
}

func TestRun_PlainResponseStreamsInOrder(t *testing.T) {
	provider := &fakeProvider{streams: []*fakeStream{
		{deltas: []llm.Delta{{Content: "Hel"}, {Content: "lo"}}},
	}}
	sink := &stream.BufferSink{}

	result, err := NewOrchestrator(provider, &fakeSearch{}).
		Run(context.Background(), "sys", []llm.Message{{Role: "user", Content: "hi"}}, sink)

	require.NoError(t, err)
	assert.Equal(t, "Hello", result.Content)
	assert.Empty(t, result.ToolCalls)
	assert.Equal(t, "Hello", sink.String())
	assert.True(t, sink.Closed())
	assert.NoError(t, sink.Err())

	// system prompt is prepended, tool advertised on the only pass
	require.Len(t, provider.requests, 1)
	assert.Equal(t, "system", provider.requests[0][0].Role)
	assert.Equal(t, "sys", provider.requests[0][0].Content)
	require.Len(t, provider.tools[0], 1)
}

func TestRun_ToolCallTriggersSecondPass(t *testing.T) {
	provider := &fakeProvider{streams: []*fakeStream{
		{deltas: []llm.Delta{
			{ToolCalls: []llm.ToolCall{{Index: 0, Id: "call_1", Name: "web_search", Arguments: `{"que`}}},
			{ToolCalls: []llm.ToolCall{{Index: 0, Arguments: `ry":"weather"}`}}},
		}},
		{deltas: []llm.Delta{{Content: "Sunny."}}},
	}}
	search := &fakeSearch{result: `[{"title":"forecast"}]`}
	sink := &stream.BufferSink{}

	result, err := NewOrchestrator(provider, search).
		Run(context.Background(), "sys", []llm.Message{{Role: "user", Content: "weather?"}}, sink)

	require.NoError(t, err)
	assert.Equal(t, "Sunny.", result.Content)
	require.Len(t, result.ToolCalls, 1)
	assert.Equal(t, "call_1", result.ToolCalls[0].Id)
	assert.Equal(t, `{"query":"weather"}`, result.ToolCalls[0].Arguments)

	assert.Equal(t, []string{"weather"}, search.queries)
	assert.Equal(t, "Sunny.", sink.String())
	assert.True(t, sink.Closed())

	// second pass history: system, user, assistant(tool calls), tool result
	require.Len(t, provider.requests, 2)
	second := provider.requests[1]
	require.Len(t, second, 4)
	assert.Equal(t, "assistant", second[2].Role)
	require.Len(t, second[2].ToolCalls, 1)
	assert.Equal(t, "tool", second[3].Role)
	assert.Equal(t, "call_1", second[3].ToolCallId)
	assert.Equal(t, `[{"title":"forecast"}]`, second[3].Content)
	// no tools advertised on the grounding pass
	assert.Empty(t, provider.tools[1])
}

func TestRun_ParallelToolCallsReassembledByIndex(t *testing.T) {
	provider := &fakeProvider{streams: []*fakeStream{
		{deltas: []llm.Delta{
			{ToolCalls: []llm.ToolCall{
				{Index: 0, Id: "call_a", Name: "web_search", Arguments: `{"query":"a`},
				{Index: 1, Id: "call_b", Name: "web_search", Arguments: `{"query":"b`},
			}},
			{ToolCalls: []llm.ToolCall{
				{Index: 1, Arguments: `2"}`},
				{Index: 0, Arguments: `1"}`},
			}},
		}},
		{deltas: []llm.Delta{{Content: "done"}}},
	}}
	search := &fakeSearch{result: `[]`}
	sink := &stream.BufferSink{}

	result, err := NewOrchestrator(provider, search).
		Run(context.Background(), "sys", nil, sink)

	require.NoError(t, err)
	require.Len(t, result.ToolCalls, 2)
	assert.Equal(t, `{"query":"a1"}`, result.ToolCalls[0].Arguments)
	assert.Equal(t, `{"query":"b2"}`, result.ToolCalls[1].Arguments)
	assert.Equal(t, []string{"a1", "b2"}, search.queries)
}

func TestRun_StreamErrorReportsExactlyOnce(t *testing.T) {
	boom := errors.New("upstream reset")
	provider := &fakeProvider{streams: []*fakeStream{
		{deltas: []llm.Delta{{Content: "par"}}, err: boom},
	}}
	sink := &stream.BufferSink{}

	result, err := NewOrchestrator(provider, &fakeSearch{}).
		Run(context.Background(), "sys", nil, sink)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, "par", sink.String())
	assert.False(t, sink.Closed())
	assert.ErrorIs(t, sink.Err(), boom)
}

func TestRun_MalformedToolArgumentsFailTheTurn(t *testing.T) {
	provider := &fakeProvider{streams: []*fakeStream{
		{deltas: []llm.Delta{
			{ToolCalls: []llm.ToolCall{{Index: 0, Id: "c", Name: "web_search", Arguments: `{not json`}}},
		}},
	}}
	sink := &stream.BufferSink{}

	_, err := NewOrchestrator(provider, &fakeSearch{}).
		Run(context.Background(), "sys", nil, sink)

	require.Error(t, err)
	assert.Error(t, sink.Err())
	assert.False(t, sink.Closed())
}

func TestRun_ClosesUnderlyingStreams(t *testing.T) {
	first := &fakeStream{deltas: []llm.Delta{{Content: "hi"}}}
	provider := &fakeProvider{streams: []*fakeStream{first}}
	sink := &stream.BufferSink{}

	_, err := NewOrchestrator(provider, &fakeSearch{}).
		Run(context.Background(), "sys", nil, sink)

	require.NoError(t, err)
	assert.True(t, first.closed)
}
