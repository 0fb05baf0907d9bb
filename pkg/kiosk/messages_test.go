package kiosk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalizedMessagesCoverAllLanguages(t *testing.T) {
	for _, lang := range []string{"EN", "AR", "FR"} {
		assert.NotEmpty(t, SafeMessage(lang))
		assert.NotEmpty(t, OutOfScopeMessage(lang))
		assert.NotEmpty(t, InsufficientGroundingMessage(lang))
		assert.NotEmpty(t, EmptyQueryMessage(lang))
		assert.NotEmpty(t, VagueQueryMessage(lang))
		assert.NotEmpty(t, StreamErrorMessage(lang))
		assert.NotEmpty(t, Clarifier("schedule", lang))
		assert.Len(t, ClarifierOptions("schedule", lang), 3)
	}
	// Unknown language falls back to English.
	assert.Equal(t, SafeMessage("EN"), SafeMessage("DE"))
}

func TestSessionLimitMessageIncludesLimit(t *testing.T) {
	assert.Contains(t, SessionLimitMessage(15, "EN"), "15")
	assert.Contains(t, SessionLimitMessage(7, "FR"), "7")
	assert.Contains(t, SessionLimitMessage(15, "AR"), "15")
}

func TestClarifierTopicRouting(t *testing.T) {
	assert.Contains(t, Clarifier("which session is next", "EN"), "session")
	assert.Contains(t, Clarifier("who is the speaker", "EN"), "speaker")
	assert.Contains(t, Clarifier("random words", "EN"), "event schedule")

	assert.Equal(t, []string{"Session schedule", "Session details", "Session timing"},
		ClarifierOptions("session info", "EN"))
}

func TestOfflineToProse(t *testing.T) {
	tests := []struct {
		name   string
		answer AnswerBlock
		lang   string
		want   string
	}{
		{
			name: "direct with steps",
			answer: AnswerBlock{
				Direct: "Doors open at 8:30 AM.",
				Steps:  []string{"Arrive early", "Bring your badge"},
			},
			lang: "EN",
			want: "Doors open at 8:30 AM.\n\n## Details\n\n- Arrive early\n- Bring your badge",
		},
		{
			name: "missing direct promotes first step",
			answer: AnswerBlock{
				Steps: []string{"Go to the registration desk", "Show your ID"},
			},
			lang: "EN",
			want: "Go to the registration desk\n\n## Details\n\n- Show your ID",
		},
		{
			name: "steps capped at four",
			answer: AnswerBlock{
				Direct: "Plan your day.",
				Steps:  []string{"a", "b", "c", "d", "e"},
			},
			lang: "EN",
			want: "Plan your day.\n\n## Details\n\n- a\n- b\n- c\n- d",
		},
		{
			name:   "direct only",
			answer: AnswerBlock{Direct: "Yes."},
			lang:   "EN",
			want:   "Yes.",
		},
		{
			name:   "empty answer",
			answer: AnswerBlock{},
			lang:   "EN",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OfflineToProse(tt.answer, tt.lang))
		})
	}
}

func TestOfflineToProseLocalizedHeading(t *testing.T) {
	answer := AnswerBlock{Direct: "d", Steps: []string{"s"}}
	assert.True(t, strings.Contains(OfflineToProse(answer, "FR"), "## Détails"))
	assert.True(t, strings.Contains(OfflineToProse(answer, "AR"), "## تفاصيل"))
}

func TestParseAnswer(t *testing.T) {
	raw := `{"answer":{"direct":"","steps":["First step","Second"],"mistakes":[]},"refinement_chips":["More info"]}`
	answer, chips, err := ParseAnswer(raw)
	assert.NoError(t, err)
	assert.Equal(t, "First step", answer.Direct)
	assert.Equal(t, []string{"More info"}, chips)
	assert.False(t, answer.IsEmpty())

	_, _, err = ParseAnswer("not json")
	assert.Error(t, err)

	empty, _, err := ParseAnswer(`{"answer":{"direct":"","steps":[],"mistakes":[]},"refinement_chips":[]}`)
	assert.NoError(t, err)
	assert.True(t, empty.IsEmpty())
}
