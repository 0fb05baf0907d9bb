package kiosk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOutOfScope(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"Can I get a refund for my ticket?", true},
		{"Where can I get medical help?", true},
		{"What time does the keynote start?", false},
		{"How do I register for a workshop?", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsOutOfScope(tt.query), "query: %s", tt.query)
	}
}

func TestIsVagueQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"short statement", "the schedule", true},
		{"single word", "registration", true},
		{"four words", "need the full schedule", false},
		{"question mark", "schedule?", false},
		{"question word first", "what schedule", false},
		{"question word trailing mark", "when?", false},
		{"empty", "   ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVagueQuery(tt.query))
		})
	}
}

func TestEffectiveQuery(t *testing.T) {
	tests := []struct {
		name     string
		messages []ChatMessage
		latest   string
		want     string
	}{
		{
			name: "merges previous user turn",
			messages: []ChatMessage{
				{Role: "user", Content: "When is the keynote?"},
				{Role: "assistant", Content: "At 9:00 AM."},
				{Role: "user", Content: "tomorrow"},
			},
			latest: "tomorrow",
			want:   "When is the keynote? (tomorrow)",
		},
		{
			name: "identical turns are not merged",
			messages: []ChatMessage{
				{Role: "user", Content: "keynote time"},
				{Role: "user", Content: "Keynote time"},
			},
			latest: "Keynote time",
			want:   "Keynote time",
		},
		{
			name: "first turn passes through",
			messages: []ChatMessage{
				{Role: "user", Content: "When is the keynote?"},
			},
			latest: "When is the keynote?",
			want:   "When is the keynote?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveQuery(tt.messages, tt.latest))
		})
	}
}

func TestHashQueryStable(t *testing.T) {
	a := HashQuery("  When is the Keynote? ")
	b := HashQuery("when is the keynote?")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, HashQuery("different question"))
}

func TestOfflineIntentConflict(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		sourceIDs []string
		want      bool
	}{
		{
			name:      "event query with landmark sources",
			query:     "what time is the keynote",
			sourceIDs: []string{"city_landmarks"},
			want:      true,
		},
		{
			name:      "landmark query with landmark sources",
			query:     "which landmarks should I visit",
			sourceIDs: []string{"city_landmarks"},
			want:      false,
		},
		{
			name:      "landmark query with event sources",
			query:     "which landmarks should I visit",
			sourceIDs: []string{"agenda_v2"},
			want:      true,
		},
		{
			name:      "no sources",
			query:     "anything",
			sourceIDs: nil,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OfflineIntentConflict(tt.query, tt.sourceIDs))
		})
	}
}
