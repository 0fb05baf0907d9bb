package memory

import (
	"context"
	"sync"
	"time"

	"event-kiosk-be/internal/entity"
	"event-kiosk-be/internal/repository/contract"
	"event-kiosk-be/internal/repository/implementation"

	"github.com/patrickmn/go-cache"
)

// SessionCounterRepository keeps session message counts in process
// memory. Used for single-instance kiosks and tests; counters expire
// with the cache so abandoned sessions don't accumulate.
type SessionCounterRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

var _ contract.SessionCounterRepository = &SessionCounterRepository{}

func NewSessionCounterRepository() *SessionCounterRepository {
	// Counters live for an hour past the last message, purged every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionCounterRepository{
		cache: c,
	}
}

func (r *SessionCounterRepository) ConsumeSlot(_ context.Context, sessionId string, limit int) (bool, int, error) {
	key := implementation.NormalizeSessionKey(sessionId)
	max := implementation.NormalizeLimit(limit)

	r.mu.Lock()
	defer r.mu.Unlock()

	var count *entity.SessionMessageCount
	if x, found := r.cache.Get(key); found {
		count = x.(*entity.SessionMessageCount)
	} else {
		count = &entity.SessionMessageCount{SessionId: key}
	}

	if count.UserMessagesCount >= max {
		return false, count.UserMessagesCount, nil
	}

	count.UserMessagesCount++
	count.UpdatedAt = time.Now().UTC()
	r.cache.Set(key, count, cache.DefaultExpiration)
	return true, count.UserMessagesCount, nil
}

func (r *SessionCounterRepository) Reset(_ context.Context, sessionId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Delete(implementation.NormalizeSessionKey(sessionId))
	return nil
}
