package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Result is one (document, relevance) pair returned by the reranker.
// Index points back into the document slice passed to Rerank.
type Result struct {
	Index int     `json:"index"`
	Score float64 `json:"relevance_score"`
}

// Reranker scores (query, document) pairs with a cross-encoder. Callers
// must treat an error as "keep the original order"; reranking is a
// quality improvement, never a hard dependency.
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []string) ([]Result, error)
	Available() bool
}

type rerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n,omitempty"`
}

type rerankResponse struct {
	Results []Result `json:"results"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// JinaReranker calls a Jina-compatible POST /v1/rerank endpoint.
type JinaReranker struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewJinaReranker(apiKey, baseURL, model string) *JinaReranker {
	if baseURL == "" {
		baseURL = "https://api.jina.ai/v1/rerank"
	}
	if model == "" {
		model = "jina-reranker-v2-base-multilingual"
	}
	return &JinaReranker{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *JinaReranker) Available() bool {
	return r.apiKey != ""
}

func (r *JinaReranker) Rerank(ctx context.Context, query string, documents []string) ([]Result, error) {
	if !r.Available() {
		return nil, fmt.Errorf("reranker is not configured")
	}
	if len(documents) == 0 {
		return nil, nil
	}

	reqBody := rerankRequest{
		Model:     r.model,
		Query:     query,
		Documents: documents,
		TopN:      len(documents),
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", r.apiKey))

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rerank api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var rerankResp rerankResponse
	if err := json.Unmarshal(bodyBytes, &rerankResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if rerankResp.Error != nil {
		return nil, fmt.Errorf("rerank api error: %s", rerankResp.Error.Message)
	}

	for _, res := range rerankResp.Results {
		if res.Index < 0 || res.Index >= len(documents) {
			return nil, fmt.Errorf("rerank api returned out-of-range index %d", res.Index)
		}
	}
	return rerankResp.Results, nil
}

// Disabled is a Reranker that never scores anything. Used when no API
// key is configured so the ranking stage degrades to retrieval order.
type Disabled struct{}

func (Disabled) Available() bool { return false }

func (Disabled) Rerank(ctx context.Context, query string, documents []string) ([]Result, error) {
	return nil, fmt.Errorf("reranker is disabled")
}
