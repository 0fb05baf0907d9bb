package kiosk

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

var outOfScopeKeywords = []string{
	"medical",
	"vaccine",
	"health",
	"legal",
	"law",
	"lawsuit",
	"court",
	"employment",
	"refund",
	"payment",
	"credit card",
	"hotel booking",
	"flight",
}

// IsOutOfScope flags queries about topics a public kiosk must not
// answer.
func IsOutOfScope(query string) bool {
	q := strings.ToLower(query)
	for _, k := range outOfScopeKeywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}

var questionWords = map[string]struct{}{
	"how": {}, "what": {}, "where": {}, "when": {}, "why": {}, "who": {}, "which": {},
	"can": {}, "does": {}, "do": {}, "is": {}, "are": {}, "should": {}, "will": {}, "tell": {},
}

// IsVagueQuery flags short first messages that are not phrased as a
// question, so the kiosk can ask for specifics instead of failing.
func IsVagueQuery(query string) bool {
	q := strings.TrimSpace(query)
	words := strings.Fields(q)
	if len(words) >= 4 {
		return false
	}
	if strings.Contains(q, "?") {
		return false
	}
	first := ""
	if len(words) > 0 {
		first = strings.TrimRight(strings.ToLower(words[0]), "?")
	}
	if _, ok := questionWords[first]; ok {
		return false
	}
	return true
}

// ChatMessage is one turn of a kiosk conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// EffectiveQuery merges the previous user turn into short follow-ups so
// retrieval sees the conversation topic, e.g. "keynote time (tomorrow)".
func EffectiveQuery(messages []ChatMessage, latestQuery string) string {
	var userMessages []ChatMessage
	for _, m := range messages {
		if m.Role == "user" {
			userMessages = append(userMessages, m)
		}
	}
	if len(userMessages) >= 2 {
		original := userMessages[len(userMessages)-2].Content
		if strings.TrimSpace(strings.ToLower(original)) != strings.TrimSpace(strings.ToLower(latestQuery)) {
			return original + " (" + latestQuery + ")"
		}
	}
	return latestQuery
}

// HashQuery anonymizes query text for analytics.
func HashQuery(query string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(strings.ToLower(query))))
	return hex.EncodeToString(sum[:])
}
