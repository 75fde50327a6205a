package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSearch_MissingKeyReturnsPlaceholder(t *testing.T) {
	tool := NewWebSearchTool("")

	result := tool.Search(context.Background(), "anything")

	var payload struct {
		Results []struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(result), &payload))
	require.Len(t, payload.Results, 1)
	assert.Equal(t, "Web search is not configured.", payload.Results[0].Title)
}

func TestWebSearch_ReturnsTopFiveOrganicResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "golang generics", req["q"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"organic":[
			{"title":"r1"},{"title":"r2"},{"title":"r3"},
			{"title":"r4"},{"title":"r5"},{"title":"r6"},{"title":"r7"}
		]}`))
	}))
	defer srv.Close()

	tool := NewWebSearchTool("test-key").WithEndpoint(srv.URL)

	result := tool.Search(context.Background(), "golang generics")

	var results []map[string]string
	require.NoError(t, json.Unmarshal([]byte(result), &results))
	require.Len(t, results, 5)
	assert.Equal(t, "r1", results[0]["title"])
	assert.Equal(t, "r5", results[4]["title"])
}

func TestWebSearch_UpstreamFailureReturnsErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	tool := NewWebSearchTool("test-key").WithEndpoint(srv.URL)

	result := tool.Search(context.Background(), "query")

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(result), &payload))
	assert.Equal(t, "An exception occurred during the search.", payload["error"])
	assert.NotEmpty(t, payload["message"])
}

func TestWebSearch_Definition(t *testing.T) {
	def := NewWebSearchTool("k").Definition()

	assert.Equal(t, "web_search", def.Name)
	props, ok := def.Parameters["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, props, "query")
	assert.Equal(t, []string{"query"}, def.Parameters["required"])
}
