package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"event-kiosk-be/internal/entity"
	"event-kiosk-be/internal/repository/implementation"
	"event-kiosk-be/internal/repository/specification"
	"event-kiosk-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	outcomeRepo := implementation.NewRouteOutcomeRepository(gormDB)
	counterRepo := implementation.NewSessionCounterRepository(gormDB)

	t.Run("Check Route Outcome Repository", func(t *testing.T) {
		sessionId := "it-" + uuid.New().String()
		errCode := "insufficient_grounding"
		record := &entity.RouteOutcomeRecord{
			Id:           uuid.New(),
			SessionId:    sessionId,
			Lang:         "EN",
			Mode:         "chat",
			RouteUsed:    "fallback",
			Confidence:   0.1,
			SourcesCount: 0,
			ErrorCode:    &errCode,
			LatencyMs:    42,
			HashedQuery:  "deadbeef",
			Ts:           time.Now().UTC(),
		}
		assert.NoError(t, outcomeRepo.Create(context.Background(), record))

		found, err := outcomeRepo.FindAll(context.Background(), specification.BySession{SessionId: sessionId})
		assert.NoError(t, err)
		if assert.Len(t, found, 1) {
			assert.Equal(t, "fallback", found[0].RouteUsed)
			assert.Equal(t, int64(42), found[0].LatencyMs)
		}

		breakdown, err := outcomeRepo.RouteBreakdown(context.Background(), specification.BySession{SessionId: sessionId})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), breakdown["fallback"])
	})

	t.Run("Check Session Counter Atomic Grant", func(t *testing.T) {
		sessionId := "it-counter-" + uuid.New().String()
		defer func() {
			assert.NoError(t, counterRepo.Reset(context.Background(), sessionId))
		}()

		for i := 1; i <= 3; i++ {
			allowed, count, err := counterRepo.ConsumeSlot(context.Background(), sessionId, 3)
			assert.NoError(t, err)
			assert.True(t, allowed)
			assert.Equal(t, i, count)
		}

		allowed, count, err := counterRepo.ConsumeSlot(context.Background(), sessionId, 3)
		assert.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, 3, count)
	})
}
