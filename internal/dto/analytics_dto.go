package dto

import "time"

// FeedbackRequest records the visitor's rating for the answer that is
// currently on screen.
type FeedbackRequest struct {
	SessionId      string `json:"session_id" validate:"required,max=128"`
	Lang           string `json:"lang" validate:"omitempty,oneof=EN AR FR"`
	Rating1To5     int    `json:"rating_1_5" validate:"required,min=1,max=5"`
	TimeOnScreenMs *int   `json:"time_on_screen_ms" validate:"omitempty,min=0"`
}

type RouteCount struct {
	Route string `json:"route"`
	Count int64  `json:"count"`
}

// AnalyticsSummaryResponse is the admin rollup of recorded outcomes.
type AnalyticsSummaryResponse struct {
	TotalOutcomes int64        `json:"total_outcomes"`
	Routes        []RouteCount `json:"routes"`
	AvgLatencyMs  float64      `json:"avg_latency_ms"`
	AvgConfidence float64      `json:"avg_confidence"`
	Since         *time.Time   `json:"since,omitempty"`
}

// RouteOutcomeView is one recorded outcome as shown on the admin
// listing.
type RouteOutcomeView struct {
	Id             string    `json:"id"`
	SessionId      string    `json:"session_id"`
	Lang           string    `json:"lang"`
	Mode           string    `json:"mode"`
	Rating1To5     *int      `json:"rating_1_5,omitempty"`
	TimeOnScreenMs *int      `json:"time_on_screen_ms,omitempty"`
	RouteUsed      string    `json:"route_used"`
	Confidence     float64   `json:"confidence"`
	SourcesCount   int       `json:"sources_count"`
	ErrorCode      *string   `json:"error_code,omitempty"`
	LatencyMs      int64     `json:"latency_ms"`
	HashedQuery    string    `json:"hashed_query"`
	Ts             time.Time `json:"ts"`
}

type PackReloadResponse struct {
	Entries int `json:"entries"`
}

// RouteOutcomeMessage is the analytics event published after every
// routed request. The consumer persists it; query text travels only as
// a hash.
type RouteOutcomeMessage struct {
	SessionId      string  `json:"session_id"`
	Lang           string  `json:"lang"`
	Mode           string  `json:"mode"`
	Rating1To5     *int    `json:"rating_1_5,omitempty"`
	TimeOnScreenMs *int    `json:"time_on_screen_ms,omitempty"`
	RouteUsed      string  `json:"route_used"`
	Confidence     float64 `json:"confidence"`
	SourcesCount   int     `json:"sources_count"`
	ErrorCode      *string `json:"error_code,omitempty"`
	LatencyMs      int64   `json:"latency_ms"`
	HashedQuery    string  `json:"hashed_query"`
}
