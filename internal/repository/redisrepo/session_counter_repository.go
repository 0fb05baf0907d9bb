// Package redisrepo backs the session message counter with Redis so
// multiple kiosk backends can share one limit per session.
package redisrepo

import (
	"context"
	"fmt"

	"event-kiosk-be/internal/repository/contract"
	"event-kiosk-be/internal/repository/implementation"

	"github.com/redis/go-redis/v9"
)

// consumeScript grants a slot only while the counter is below the
// limit. Running as a script keeps check and increment atomic.
var consumeScript = redis.NewScript(`
local count = tonumber(redis.call('GET', KEYS[1]) or '0')
if count >= tonumber(ARGV[1]) then
  return {0, count}
end
count = redis.call('INCR', KEYS[1])
redis.call('EXPIRE', KEYS[1], ARGV[2])
return {1, count}
`)

const counterTTLSeconds = 3600

type SessionCounterRepository struct {
	rdb *redis.Client
}

var _ contract.SessionCounterRepository = &SessionCounterRepository{}

func NewSessionCounterRepository(rdb *redis.Client) *SessionCounterRepository {
	return &SessionCounterRepository{rdb: rdb}
}

func counterKey(sessionId string) string {
	return "kiosk:session_messages:" + implementation.NormalizeSessionKey(sessionId)
}

func (r *SessionCounterRepository) ConsumeSlot(ctx context.Context, sessionId string, limit int) (bool, int, error) {
	max := implementation.NormalizeLimit(limit)

	res, err := consumeScript.Run(ctx, r.rdb, []string{counterKey(sessionId)}, max, counterTTLSeconds).Result()
	if err != nil {
		return false, 0, fmt.Errorf("consume session slot: %w", err)
	}

	values, ok := res.([]interface{})
	if !ok || len(values) != 2 {
		return false, 0, fmt.Errorf("unexpected script result: %v", res)
	}
	allowed, _ := values[0].(int64)
	count, _ := values[1].(int64)
	return allowed == 1, int(count), nil
}

func (r *SessionCounterRepository) Reset(ctx context.Context, sessionId string) error {
	return r.rdb.Del(ctx, counterKey(sessionId)).Err()
}
