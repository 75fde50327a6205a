package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-chat-be/pkg/llm"
)

const (
	WebSearchToolName = "web_search"

	defaultSerperURL = "https://google.serper.dev/search"
)

// WebSearchTool performs web searches through the Serper API. The tool
// never returns an error to the orchestrator: failures are encoded as a
// JSON payload so the model can explain the situation to the user.
type WebSearchTool struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewWebSearchTool(apiKey string) *WebSearchTool {
	return &WebSearchTool{
		apiKey:   apiKey,
		endpoint: defaultSerperURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// WithEndpoint overrides the Serper URL. Used by tests.
func (t *WebSearchTool) WithEndpoint(url string) *WebSearchTool {
	t.endpoint = url
	return t
}

// Definition returns the function schema advertised to the model.
func (t *WebSearchTool) Definition() llm.Tool {
	return llm.Tool{
		Name:        WebSearchToolName,
		Description: "Performs a web search for a given query.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The search query.",
				},
			},
			"required": []string{"query"},
		},
	}
}

type serperRequest struct {
	Q string `json:"q"`
}

type serperResponse struct {
	Organic []json.RawMessage `json:"organic"`
}

// Search runs the query and returns a JSON string of the top organic
// results for the model to digest.
func (t *WebSearchTool) Search(ctx context.Context, query string) string {
	if t.apiKey == "" {
		return `{"results":[{"title":"Web search is not configured.","content":"The SERPER_API_KEY is missing."}]}`
	}

	result, err := t.search(ctx, query)
	if err != nil {
		payload, _ := json.Marshal(map[string]string{
			"error":   "An exception occurred during the search.",
			"message": err.Error(),
		})
		return string(payload)
	}
	return result
}

func (t *WebSearchTool) search(ctx context.Context, query string) (string, error) {
	body, err := json.Marshal(serperRequest{Q: query})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-KEY", t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("serper request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("serper error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var parsed serperResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	organic := parsed.Organic
	if len(organic) > 5 {
		organic = organic[:5]
	}

	out, err := json.Marshal(organic)
	if err != nil {
		return "", fmt.Errorf("marshal results: %w", err)
	}
	return string(out), nil
}
