// Package kiosk holds the routing domain shared by the ask and chat
// flows: route outcomes, localized kiosk messages, scope heuristics,
// and completion prompt construction.
package kiosk

import (
	"event-kiosk-be/pkg/retrieval"
)

// Routing thresholds.
const (
	OfflineThreshold = 0.25
	RAGThreshold     = 0.35
	MinSources       = 1
	MinSourceScore   = 0.2
)

// Route labels recorded on every outcome.
const (
	RouteOffline  = "offline"
	RouteRAG      = "rag"
	RouteFallback = "fallback"
)

// Error codes attached to fallback outcomes.
const (
	ErrCodeAskError              = "ask_error"
	ErrCodeChatError             = "chat_error"
	ErrCodeInsufficientGrounding = "insufficient_grounding"
	ErrCodeOpenAIUnavailable     = "openai_unavailable"
	ErrCodeSessionLimitReached   = "session_limit_reached"
)

// AnswerBlock is the structured kiosk answer.
type AnswerBlock struct {
	Direct   string   `json:"direct"`
	Steps    []string `json:"steps"`
	Mistakes []string `json:"mistakes"`
}

// SourceView is the attendee-facing citation for one grounded source.
type SourceView struct {
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	Snippet   string  `json:"snippet"`
	Relevance string  `json:"relevance"`
	Page      *int    `json:"page,omitempty"`
	PageLabel *string `json:"page_label,omitempty"`
	PageStart *int    `json:"page_start,omitempty"`
	PageEnd   *int    `json:"page_end,omitempty"`
}

// Outcome is the single routing result produced for an ask request.
type Outcome struct {
	Answer             AnswerBlock  `json:"answer"`
	Sources            []SourceView `json:"sources"`
	Confidence         float64      `json:"confidence"`
	RefinementChips    []string     `json:"refinement_chips"`
	RouteUsed          string       `json:"route_used"`
	LatencyMs          int64        `json:"latency_ms"`
	ClarifyingQuestion string       `json:"clarifying_question,omitempty"`
	ErrorCode          string       `json:"error_code,omitempty"`
	ErrorMessage       string       `json:"error_message,omitempty"`
	DebugNotes         string       `json:"debug_notes,omitempty"`
}

// StreamMeta is the terminal metadata event of a chat stream.
type StreamMeta struct {
	Sources            []SourceView `json:"sources"`
	Confidence         float64      `json:"confidence"`
	RefinementChips    []string     `json:"refinement_chips"`
	RouteUsed          string       `json:"route_used"`
	LatencyMs          int64        `json:"latency_ms"`
	ClarifyingQuestion string       `json:"clarifying_question,omitempty"`
	ErrorCode          string       `json:"error_code,omitempty"`
}

// ToSourceViews converts retrieved sources into citation views. Scores
// stay internal; attendees only see the relevance bucket.
func ToSourceViews(sources []retrieval.Source) []SourceView {
	views := make([]SourceView, 0, len(sources))
	for _, s := range sources {
		relevance := s.Relevance
		if relevance == "" {
			relevance = "Low"
		}
		views = append(views, SourceView{
			Title:     s.Title,
			URL:       s.URLOrPath,
			Snippet:   s.Snippet,
			Relevance: relevance,
			Page:      s.Page,
			PageLabel: s.PageLabel,
			PageStart: s.PageStart,
			PageEnd:   s.PageEnd,
		})
	}
	return views
}

// SafeOutcome is the hard fallback returned when the ask flow itself
// fails.
func SafeOutcome(lang string) *Outcome {
	return &Outcome{
		Answer:             AnswerBlock{Direct: "", Steps: []string{}, Mistakes: []string{}},
		Sources:            []SourceView{},
		Confidence:         0.0,
		RefinementChips:    []string{},
		RouteUsed:          RouteFallback,
		LatencyMs:          0,
		ClarifyingQuestion: SafeMessage(lang),
		ErrorCode:          ErrCodeAskError,
		ErrorMessage:       "The request could not be completed.",
		DebugNotes:         "fallback: exception",
	}
}
