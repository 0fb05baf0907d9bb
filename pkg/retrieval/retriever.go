package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Retriever resolves a query against the event document index.
type Retriever interface {
	Retrieve(ctx context.Context, query, lang string, topK int) ([]Source, float64, error)
}

// HTTPRetriever calls an external retrieval service over HTTP.
type HTTPRetriever struct {
	BaseURL string
	Client  *http.Client
}

var _ Retriever = &HTTPRetriever{}

func NewHTTPRetriever(baseURL string) *HTTPRetriever {
	return &HTTPRetriever{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type retrieveRequest struct {
	Query string `json:"query"`
	Lang  string `json:"lang"`
	TopK  int    `json:"top_k"`
}

type retrieveResponse struct {
	Sources    []Source `json:"sources"`
	Confidence float64  `json:"confidence"`
}

func (r *HTTPRetriever) Retrieve(ctx context.Context, query, lang string, topK int) ([]Source, float64, error) {
	payloadBytes, err := json.Marshal(retrieveRequest{
		Query: query,
		Lang:  lang,
		TopK:  topK,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("marshal request: %w", err)
	}

	url := r.BaseURL + "/retrieve"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("retrieval request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("retrieval error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var parsed retrieveResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return nil, 0, fmt.Errorf("unmarshal response: %w", err)
	}
	return parsed.Sources, parsed.Confidence, nil
}
