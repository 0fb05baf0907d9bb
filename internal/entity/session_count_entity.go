package entity

import "time"

// SessionMessageCount tracks how many user messages a kiosk session has
// consumed against its limit.
type SessionMessageCount struct {
	SessionId         string
	UserMessagesCount int
	UpdatedAt         time.Time
}
