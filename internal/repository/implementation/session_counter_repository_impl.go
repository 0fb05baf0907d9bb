package implementation

import (
	"context"
	"strings"
	"time"

	"event-kiosk-be/internal/constant"
	"event-kiosk-be/internal/model"
	"event-kiosk-be/internal/repository/contract"

	"gorm.io/gorm"
)

type SessionCounterRepositoryImpl struct {
	db *gorm.DB
}

func NewSessionCounterRepository(db *gorm.DB) contract.SessionCounterRepository {
	return &SessionCounterRepositoryImpl{db: db}
}

// NormalizeSessionKey guards against blank session ids so the limit
// still applies to malformed clients.
func NormalizeSessionKey(sessionId string) string {
	key := strings.TrimSpace(sessionId)
	if key == "" {
		return "unknown-session"
	}
	return key
}

// NormalizeLimit replaces non-positive limits with the default.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return constant.DefaultMaxMessagesPerSession
	}
	return limit
}

// ConsumeSlot increments the counter only while it is below the limit.
// The conditional UPDATE makes the grant decision atomic; its affected
// row count is the verdict.
func (r *SessionCounterRepositoryImpl) ConsumeSlot(ctx context.Context, sessionId string, limit int) (bool, int, error) {
	key := NormalizeSessionKey(sessionId)
	max := NormalizeLimit(limit)
	now := time.Now().UTC()

	db := r.db.WithContext(ctx)

	err := db.Exec(
		`INSERT INTO session_message_counts (session_id, user_messages_count, updated_at)
		 VALUES (?, 0, ?)
		 ON CONFLICT (session_id) DO NOTHING`,
		key, now,
	).Error
	if err != nil {
		return false, 0, err
	}

	res := db.Exec(
		`UPDATE session_message_counts
		 SET user_messages_count = user_messages_count + 1,
		     updated_at = ?
		 WHERE session_id = ?
		   AND user_messages_count < ?`,
		now, key, max,
	)
	if res.Error != nil {
		return false, 0, res.Error
	}

	var m model.SessionMessageCount
	if err := db.Where("session_id = ?", key).Take(&m).Error; err != nil {
		return false, 0, err
	}
	return res.RowsAffected == 1, m.UserMessagesCount, nil
}

func (r *SessionCounterRepositoryImpl) Reset(ctx context.Context, sessionId string) error {
	key := NormalizeSessionKey(sessionId)
	return r.db.WithContext(ctx).
		Where("session_id = ?", key).
		Delete(&model.SessionMessageCount{}).Error
}
