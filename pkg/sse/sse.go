// Package sse encodes server-sent events for the kiosk streaming wire:
// any number of token events followed by exactly one meta event.
package sse

import (
	"encoding/json"
	"fmt"
)

// Token encodes one streamed text fragment. The payload is JSON-encoded
// so newlines and special characters survive the SSE framing.
func Token(text string) ([]byte, error) {
	raw, err := json.Marshal(text)
	if err != nil {
		return nil, fmt.Errorf("encode token: %w", err)
	}
	return []byte(fmt.Sprintf("event: token\ndata: %s\n\n", raw)), nil
}

// Meta encodes the terminal metadata event carrying the route outcome.
func Meta(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode meta: %w", err)
	}
	return []byte(fmt.Sprintf("event: meta\ndata: %s\n\n", raw)), nil
}

// ChunkText splits text into fixed-size rune chunks for token framing.
func ChunkText(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = 8
	}
	runes := []rune(text)
	var chunks []string
	for i := 0; i < len(runes); i += chunkSize {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}
