package contract

import "context"

// SessionCounterRepository enforces the per-session user message limit.
// ConsumeSlot must be atomic under concurrent calls for one session:
// across all callers, at most limit slots are ever granted.
type SessionCounterRepository interface {
	// ConsumeSlot takes one message slot. It returns whether the slot
	// was granted and the session's count after the call.
	ConsumeSlot(ctx context.Context, sessionId string, limit int) (bool, int, error)

	// Reset clears a session's counter when the attendee ends it.
	Reset(ctx context.Context, sessionId string) error
}
