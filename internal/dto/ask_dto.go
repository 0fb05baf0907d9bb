package dto

// AskRequest is the single-turn question payload sent by the kiosk UI.
type AskRequest struct {
	Query           string `json:"query" validate:"required,min=1,max=2000"`
	Lang            string `json:"lang" validate:"omitempty,oneof=EN AR FR"`
	SessionId       string `json:"session_id" validate:"required,max=128"`
	Clarified       bool   `json:"clarified"`
	ClarifierChoice string `json:"clarifier_choice" validate:"omitempty,max=500"`
}

func (r *AskRequest) LangOrDefault() string {
	if r.Lang == "" {
		return "EN"
	}
	return r.Lang
}

// SuggestionsResponse carries the starter chips for the kiosk home
// screen.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}
