package dto

// ChatTurn is one prior message of the kiosk conversation.
type ChatTurn struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required,max=4000"`
}

// ChatRequest is the streaming chat payload. Messages carry the whole
// visible transcript, latest user turn last.
type ChatRequest struct {
	SessionId string     `json:"session_id" validate:"required,max=128"`
	Lang      string     `json:"lang" validate:"omitempty,oneof=EN AR FR"`
	Messages  []ChatTurn `json:"messages" validate:"dive"`
}

// SessionEndRequest releases a session's message budget when the
// attendee taps End Session.
type SessionEndRequest struct {
	SessionId string `json:"session_id" validate:"required,max=128"`
}

func (r *ChatRequest) LangOrDefault() string {
	if r.Lang == "" {
		return "EN"
	}
	return r.Lang
}
