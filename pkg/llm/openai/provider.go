// Package openai implements the completion provider contract on top of
// the OpenAI Responses API, with structured output and SSE streaming.
package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"event-kiosk-be/pkg/llm"
)

const defaultBaseURL = "https://api.openai.com/v1"

// retryDelay is the pause before the single retry on 429/5xx.
const retryDelay = 600 * time.Millisecond

type OpenAIProvider struct {
	APIKey  string
	Model   string
	BaseURL string

	// Client bounds non-streaming calls end to end. StreamClient only
	// bounds dial and response headers so long streams are not cut off.
	Client       *http.Client
	StreamClient *http.Client

	RetryDelay time.Duration
}

var _ llm.Provider = &OpenAIProvider{}

func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	dialer := &net.Dialer{Timeout: 5 * time.Second}
	return &OpenAIProvider{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: defaultBaseURL,
		Client: &http.Client{
			Timeout: 12 * time.Second,
			Transport: &http.Transport{
				DialContext: dialer.DialContext,
			},
		},
		StreamClient: &http.Client{
			Transport: &http.Transport{
				DialContext:           dialer.DialContext,
				ResponseHeaderTimeout: 30 * time.Second,
			},
		},
		RetryDelay: retryDelay,
	}
}

// --- Request/Response structs (Internal to this package) ---

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type inputMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type textFormat struct {
	Type   string          `json:"type"`
	Name   string          `json:"name,omitempty"`
	Schema json.RawMessage `json:"schema,omitempty"`
	Strict bool            `json:"strict,omitempty"`
}

type textOptions struct {
	Format textFormat `json:"format"`
}

type responsesRequest struct {
	Model  string         `json:"model"`
	Input  []inputMessage `json:"input"`
	Text   *textOptions   `json:"text,omitempty"`
	Stream bool           `json:"stream,omitempty"`
}

type responsesOutput struct {
	Content []contentPart `json:"content"`
}

type responsesResponse struct {
	OutputText string            `json:"output_text"`
	Output     []responsesOutput `json:"output"`
}

type streamEvent struct {
	Type  string `json:"type"`
	Delta string `json:"delta"`
}

func toInput(history []llm.Message) []inputMessage {
	input := make([]inputMessage, 0, len(history))
	for _, msg := range history {
		partType := "input_text"
		if msg.Role == "assistant" {
			partType = "output_text"
		}
		input = append(input, inputMessage{
			Role:    msg.Role,
			Content: []contentPart{{Type: partType, Text: msg.Content}},
		})
	}
	return input
}

func (p *OpenAIProvider) buildRequest(history []llm.Message, options *llm.Options, stream bool) (*responsesRequest, error) {
	model := p.Model
	if options.Model != "" {
		model = options.Model
	}
	req := &responsesRequest{
		Model:  model,
		Input:  toInput(history),
		Stream: stream,
	}
	if options.SchemaName != "" {
		req.Text = &textOptions{
			Format: textFormat{
				Type:   "json_schema",
				Name:   options.SchemaName,
				Schema: options.Schema,
				Strict: true,
			},
		}
	}
	return req, nil
}

// retryable reports whether a response status warrants one retry.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func (p *OpenAIProvider) post(ctx context.Context, client *http.Client, payload *responsesRequest) (*http.Response, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := p.BaseURL + "/responses"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	if retryable(resp.StatusCode) {
		resp.Body.Close()
		return nil, fmt.Errorf("openai error: status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("openai error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}
	return resp, nil
}

func (p *OpenAIProvider) sleepRetry(ctx context.Context) error {
	delay := p.RetryDelay
	if delay <= 0 {
		delay = retryDelay
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p *OpenAIProvider) Complete(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if p.APIKey == "" {
		return "", llm.ErrMissingAPIKey
	}

	options := &llm.Options{}
	for _, opt := range opts {
		opt(options)
	}
	payload, err := p.buildRequest(history, options, false)
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			if err := p.sleepRetry(ctx); err != nil {
				return "", err
			}
		}
		resp, err := p.post(ctx, p.Client, payload)
		if err != nil {
			lastErr = err
			continue
		}
		bodyBytes, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		var parsed responsesResponse
		if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
			return "", fmt.Errorf("unmarshal response: %w", err)
		}
		return extractOutputText(&parsed), nil
	}
	return "", lastErr
}

// extractOutputText prefers the flattened output_text field and falls
// back to joining the content blocks.
func extractOutputText(resp *responsesResponse) string {
	if resp.OutputText != "" {
		return resp.OutputText
	}
	var parts []string
	for _, item := range resp.Output {
		for _, c := range item.Content {
			if c.Type == "output_text" || c.Type == "text" {
				parts = append(parts, c.Text)
			}
		}
	}
	return strings.Join(parts, "\n")
}

func (p *OpenAIProvider) Stream(ctx context.Context, history []llm.Message, onDelta llm.DeltaFunc, opts ...llm.Option) (string, error) {
	if p.APIKey == "" {
		return "", llm.ErrMissingAPIKey
	}

	options := &llm.Options{}
	for _, opt := range opts {
		opt(options)
	}
	payload, err := p.buildRequest(history, options, true)
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			if err := p.sleepRetry(ctx); err != nil {
				return "", err
			}
		}
		resp, err := p.post(ctx, p.StreamClient, payload)
		if err != nil {
			lastErr = err
			continue
		}

		fullText, emitted, err := consumeStream(resp.Body, onDelta)
		resp.Body.Close()
		if err != nil {
			// Retrying after tokens reached the caller would duplicate them.
			if emitted {
				return fullText, err
			}
			lastErr = err
			continue
		}
		return fullText, nil
	}
	return "", lastErr
}

func consumeStream(body io.Reader, onDelta llm.DeltaFunc) (string, bool, error) {
	var fullText strings.Builder
	emitted := false

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		dataStr := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if dataStr == "[DONE]" {
			break
		}
		var event streamEvent
		if err := json.Unmarshal([]byte(dataStr), &event); err != nil {
			continue
		}
		if event.Type != "response.output_text.delta" || event.Delta == "" {
			continue
		}
		fullText.WriteString(event.Delta)
		emitted = true
		if err := onDelta(event.Delta); err != nil {
			return fullText.String(), emitted, err
		}
	}
	if err := scanner.Err(); err != nil {
		return fullText.String(), emitted, fmt.Errorf("read stream: %w", err)
	}
	return fullText.String(), emitted, nil
}
