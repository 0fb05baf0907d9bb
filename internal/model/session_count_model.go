package model

import "time"

type SessionMessageCount struct {
	SessionId         string    `gorm:"type:text;primaryKey"`
	UserMessagesCount int       `gorm:"not null;default:0"`
	UpdatedAt         time.Time `gorm:"not null;autoUpdateTime"`
}

func (SessionMessageCount) TableName() string {
	return "session_message_counts"
}
