package kiosk

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"event-kiosk-be/pkg/llm"
	"event-kiosk-be/pkg/retrieval"
)

// MaxHistoryMessages bounds the conversation window sent to the model.
const MaxHistoryMessages = 10

// AnswerSchemaName labels the structured output format on ask calls.
const AnswerSchemaName = "kiosk_answer"

// AnswerSchema constrains ask completions to the kiosk answer shape.
var AnswerSchema = json.RawMessage(`{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "answer": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "direct": {"type": "string"},
        "steps": {"type": "array", "items": {"type": "string"}},
        "mistakes": {"type": "array", "items": {"type": "string"}}
      },
      "required": ["direct", "steps", "mistakes"]
    },
    "refinement_chips": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["answer", "refinement_chips"]
}`)

var makkahTZ = time.FixedZone("AST", 3*60*60)

// nowMakkah renders the venue-local time, e.g. "Saturday 15 February 2026, 14:30".
func nowMakkah() string {
	return time.Now().In(makkahTZ).Format("Monday 02 January 2006, 15:04")
}

func langName(lang string) string {
	switch lang {
	case "AR":
		return "Arabic"
	case "FR":
		return "French"
	default:
		return "English"
	}
}

// BuildAskPrompt builds the one-shot structured prompt for the ask flow.
func BuildAskPrompt(query, lang string, sources []retrieval.Source) []llm.Message {
	var snippets []string
	for _, s := range sources {
		snippets = append(snippets, fmt.Sprintf("Title: %s\nURL: %s\nSnippet: %s", s.Title, s.URLOrPath, s.Snippet))
	}

	systemText := fmt.Sprintf(
		"You are an event kiosk assistant. Current date/time in Makkah: %s.\n"+
			"Respond in %s.\n"+
			"Use only the provided snippets. "+
			"Stay factual and helpful. "+
			"Do not include inline source tags like [Source 1] in the answer text. "+
			"Return concise blocks suitable for a kiosk.",
		nowMakkah(), langName(lang),
	)
	userText := fmt.Sprintf(
		"Language: %s\nQuestion: %s\nSnippets:\n%s\n\nReturn JSON only.",
		lang, query, strings.Join(snippets, "\n\n"),
	)

	return []llm.Message{
		{Role: "system", Content: systemText},
		{Role: "user", Content: userText},
	}
}

// BuildChatSystemPrompt builds the conversational system prompt, with
// retrieved sources appended when grounding is available.
func BuildChatSystemPrompt(lang string, sources []retrieval.Source) string {
	var b strings.Builder
	fmt.Fprintf(&b,
		"You are Guide, a friendly and knowledgeable event assistant on a public kiosk. "+
			"Current date/time in Makkah: %s.\n"+
			"You help attendees with event schedules, sessions, speakers, and registration information.\n\n"+
			"Rules:\n"+
			"- Respond in %s.\n"+
			"- Be conversational but concise. This is a kiosk and people are standing.\n"+
			"- Stay factual. Do not give medical or legal advice.\n"+
			"- Use only the provided sources for factual claims.\n"+
			"- For schedule/session/masterclass/exhibition questions, synthesize across all relevant sources before concluding.\n"+
			"- Do not claim an item is only on one day unless the sources explicitly state exclusivity.\n"+
			"- Do not include inline source tags like [Source 1] in answer text.\n"+
			"- If you don't know, say so clearly.\n"+
			"- Keep responses under 200 words unless the user asks for detail.\n\n"+
			"FORMATTING:\n"+
			"- Use markdown with short paragraphs.\n"+
			"- Start with the direct answer immediately.\n"+
			"- If helpful, add a short '## Details' section with up to 4 bullets.\n"+
			"- Do not output sections like '## Steps' or '## Common Mistakes' unless explicitly requested by the user.\n",
		nowMakkah(), langName(lang),
	)
	if len(sources) > 0 {
		b.WriteString("\nAvailable sources:\n")
		for i, s := range sources {
			if i > 0 {
				b.WriteString("\n\n")
			}
			fmt.Fprintf(&b, "[Source %d] Title: %s\nURL: %s\nSnippet: %s", i+1, s.Title, s.URLOrPath, s.Snippet)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// BuildChatInput prepends the system prompt to the trimmed history.
func BuildChatInput(systemPrompt string, history []ChatMessage) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt})
	for _, msg := range history {
		role := msg.Role
		if role != "assistant" {
			role = "user"
		}
		messages = append(messages, llm.Message{Role: role, Content: msg.Content})
	}
	return messages
}

// TrimHistory keeps the most recent conversation turns.
func TrimHistory(messages []ChatMessage, max int) []ChatMessage {
	if max <= 0 || len(messages) <= max {
		return messages
	}
	return messages[len(messages)-max:]
}

type parsedAnswer struct {
	Answer          AnswerBlock `json:"answer"`
	RefinementChips []string    `json:"refinement_chips"`
}

// ParseAnswer decodes a structured completion. An empty direct line is
// backfilled from the first step.
func ParseAnswer(outputText string) (AnswerBlock, []string, error) {
	var parsed parsedAnswer
	if err := json.Unmarshal([]byte(outputText), &parsed); err != nil {
		return AnswerBlock{}, nil, fmt.Errorf("parse answer: %w", err)
	}
	answer := parsed.Answer
	if answer.Direct == "" && len(answer.Steps) > 0 {
		answer.Direct = answer.Steps[0]
	}
	if answer.Steps == nil {
		answer.Steps = []string{}
	}
	if answer.Mistakes == nil {
		answer.Mistakes = []string{}
	}
	return answer, parsed.RefinementChips, nil
}

// IsEmpty reports whether a parsed answer carries no content at all.
func (a AnswerBlock) IsEmpty() bool {
	return a.Direct == "" && len(a.Steps) == 0 && len(a.Mistakes) == 0
}
