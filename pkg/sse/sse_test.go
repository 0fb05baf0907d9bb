package sse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken(t *testing.T) {
	raw, err := Token("line one\nline two")
	require.NoError(t, err)
	assert.Equal(t, "event: token\ndata: \"line one\\nline two\"\n\n", string(raw))
}

func TestMeta(t *testing.T) {
	raw, err := Meta(map[string]string{"route_used": "offline"})
	require.NoError(t, err)
	s := string(raw)
	assert.True(t, strings.HasPrefix(s, "event: meta\ndata: "))
	assert.True(t, strings.HasSuffix(s, "\n\n"))
	assert.Contains(t, s, `"route_used":"offline"`)
}

func TestChunkText(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		chunkSize int
		want      []string
	}{
		{
			name:      "even split",
			text:      "abcdefgh12345678",
			chunkSize: 8,
			want:      []string{"abcdefgh", "12345678"},
		},
		{
			name:      "remainder chunk",
			text:      "abcdefghij",
			chunkSize: 8,
			want:      []string{"abcdefgh", "ij"},
		},
		{
			name:      "multibyte runes stay intact",
			text:      "مرحبا بكم في الفعالية",
			chunkSize: 8,
			want:      []string{"مرحبا بك", "م في الف", "عالية"},
		},
		{
			name:      "empty text",
			text:      "",
			chunkSize: 8,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChunkText(tt.text, tt.chunkSize))
		})
	}
}

func TestChunkTextTwentyCharsYieldsThreeChunks(t *testing.T) {
	chunks := ChunkText(strings.Repeat("x", 20), 8)
	require.Len(t, chunks, 3)
	assert.Equal(t, "xxxx", chunks[2])
}
