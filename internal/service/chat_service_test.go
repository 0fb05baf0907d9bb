package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"event-kiosk-be/internal/dto"
	"event-kiosk-be/pkg/kiosk"
	"event-kiosk-be/pkg/retrieval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCounter struct {
	allowed  bool
	count    int
	err      error
	consumes []string
	resets   []string
}

func (c *stubCounter) ConsumeSlot(ctx context.Context, sessionId string, limit int) (bool, int, error) {
	c.consumes = append(c.consumes, sessionId)
	return c.allowed, c.count, c.err
}

func (c *stubCounter) Reset(ctx context.Context, sessionId string) error {
	c.resets = append(c.resets, sessionId)
	return nil
}

type streamResult struct {
	text       string
	tokenCount int
	meta       kiosk.StreamMeta
	metaCount  int
}

// runStream drives one chat turn and decodes the emitted SSE frames back
// into the full token text and the terminal meta event.
func runStream(t *testing.T, svc IChatService, req *dto.ChatRequest) streamResult {
	t.Helper()
	var frames [][]byte
	svc.StreamChat(context.Background(), req, func(frame []byte) error {
		frames = append(frames, append([]byte(nil), frame...))
		return nil
	})

	var res streamResult
	for _, frame := range frames {
		raw := string(frame)
		require.True(t, strings.HasSuffix(raw, "\n\n"), "frame missing terminator: %q", raw)

		var event, data string
		for _, line := range strings.Split(strings.TrimSuffix(raw, "\n\n"), "\n") {
			switch {
			case strings.HasPrefix(line, "event: "):
				event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			}
		}

		switch event {
		case "token":
			var chunk string
			require.NoError(t, json.Unmarshal([]byte(data), &chunk))
			res.text += chunk
			res.tokenCount++
		case "meta":
			require.NoError(t, json.Unmarshal([]byte(data), &res.meta))
			res.metaCount++
		default:
			t.Fatalf("unexpected event %q", event)
		}
	}
	require.Equal(t, 1, res.metaCount, "stream must end with exactly one meta frame")
	return res
}

func userTurns(contents ...string) []dto.ChatTurn {
	turns := make([]dto.ChatTurn, 0, len(contents))
	for _, c := range contents {
		turns = append(turns, dto.ChatTurn{Role: "user", Content: c})
	}
	return turns
}

func chunkCount(text string) int {
	runes := len([]rune(text))
	return (runes + 7) / 8
}

func TestChatEmptyMessagesDoesNotConsumeSlot(t *testing.T) {
	counter := &stubCounter{allowed: true}
	svc := NewChatService(emptyPack(t), &stubRetriever{}, &stubProvider{}, counter, &capturedPublisher{}, nopLogger{}, 0, false)

	res := runStream(t, svc, &dto.ChatRequest{SessionId: "c1", Lang: "EN"})

	assert.Equal(t, kiosk.EmptyQueryMessage("EN"), res.text)
	assert.Equal(t, kiosk.RouteFallback, res.meta.RouteUsed)
	assert.Empty(t, res.meta.ErrorCode)
	assert.Empty(t, counter.consumes)
}

func TestChatSessionLimitReached(t *testing.T) {
	counter := &stubCounter{allowed: false, count: 15}
	retriever := &stubRetriever{}
	pub := &capturedPublisher{}
	svc := NewChatService(emptyPack(t), retriever, &stubProvider{}, counter, pub, nopLogger{}, 15, false)

	res := runStream(t, svc, &dto.ChatRequest{
		SessionId: "c2",
		Lang:      "EN",
		Messages:  userTurns("When is the keynote?"),
	})

	limitText := kiosk.SessionLimitMessage(15, "EN")
	assert.Equal(t, limitText, res.text)
	assert.Equal(t, chunkCount(limitText), res.tokenCount)
	assert.Equal(t, kiosk.ErrCodeSessionLimitReached, res.meta.ErrorCode)
	assert.Equal(t, limitText, res.meta.ClarifyingQuestion)
	assert.Empty(t, retriever.calls)

	msg := pub.last(t)
	assert.Equal(t, "chat", msg.Mode)
	require.NotNil(t, msg.ErrorCode)
	assert.Equal(t, kiosk.ErrCodeSessionLimitReached, *msg.ErrorCode)
}

func TestChatOutOfScope(t *testing.T) {
	counter := &stubCounter{allowed: true}
	retriever := &stubRetriever{}
	svc := NewChatService(emptyPack(t), retriever, &stubProvider{}, counter, &capturedPublisher{}, nopLogger{}, 0, false)

	res := runStream(t, svc, &dto.ChatRequest{
		SessionId: "c3",
		Lang:      "EN",
		Messages:  userTurns("How do I get a refund?"),
	})

	assert.Equal(t, kiosk.OutOfScopeMessage("EN"), res.text)
	assert.Equal(t, kiosk.RouteFallback, res.meta.RouteUsed)
	assert.Empty(t, res.meta.ErrorCode)
	assert.Empty(t, retriever.calls)
	// the slot is spent before scope is checked
	assert.Equal(t, []string{"c3"}, counter.consumes)
}

func TestChatOfflineRouteRendersProse(t *testing.T) {
	counter := &stubCounter{allowed: true}
	retriever := &stubRetriever{sources: []retrieval.Source{agendaSource(0.9)}}
	provider := &stubProvider{}
	pub := &capturedPublisher{}
	svc := NewChatService(schedulePack(t), retriever, provider, counter, pub, nopLogger{}, 0, false)

	res := runStream(t, svc, &dto.ChatRequest{
		SessionId: "c4",
		Lang:      "EN",
		Messages:  userTurns("What sessions are happening today?"),
	})

	assert.Equal(t, kiosk.RouteOffline, res.meta.RouteUsed)
	assert.Contains(t, res.text, "Sessions run from 9 AM to 6 PM.")
	assert.Contains(t, res.text, "## Details")
	assert.Contains(t, res.text, "- Check the main hall board")
	assert.Equal(t, 1.0, res.meta.Confidence)
	assert.Len(t, res.meta.Sources, 1)
	assert.Zero(t, provider.streamCalls)

	require.Len(t, retriever.calls, 1)
	assert.Equal(t, 5, retriever.calls[0].topK)
	assert.Equal(t, kiosk.RouteOffline, pub.last(t).RouteUsed)
}

func TestChatRAGRouteStreams(t *testing.T) {
	counter := &stubCounter{allowed: true}
	retriever := &stubRetriever{sources: []retrieval.Source{agendaSource(0.8)}}
	provider := &stubProvider{streamText: "Doors open at 9 AM sharp."}
	pub := &capturedPublisher{}
	svc := NewChatService(emptyPack(t), retriever, provider, counter, pub, nopLogger{}, 0, false)

	res := runStream(t, svc, &dto.ChatRequest{
		SessionId: "c5",
		Lang:      "EN",
		Messages:  userTurns("When do doors open tomorrow morning?"),
	})

	assert.Equal(t, kiosk.RouteRAG, res.meta.RouteUsed)
	assert.Equal(t, "Doors open at 9 AM sharp.", res.text)
	assert.Equal(t, 0.8, res.meta.Confidence)
	assert.Len(t, res.meta.Sources, 1)
	assert.Equal(t, 1, provider.streamCalls)

	require.Len(t, retriever.calls, 1)
	assert.Equal(t, 12, retriever.calls[0].topK)
}

func TestChatMergesPreviousUserTurnIntoRetrieval(t *testing.T) {
	counter := &stubCounter{allowed: true}
	retriever := &stubRetriever{sources: []retrieval.Source{agendaSource(0.8)}}
	provider := &stubProvider{streamText: "It starts at 10 AM."}
	svc := NewChatService(emptyPack(t), retriever, provider, counter, &capturedPublisher{}, nopLogger{}, 0, false)

	runStream(t, svc, &dto.ChatRequest{
		SessionId: "c6",
		Lang:      "EN",
		Messages:  userTurns("When is the keynote scheduled?", "and tomorrow"),
	})

	require.Len(t, retriever.calls, 1)
	assert.Equal(t, "When is the keynote scheduled? (and tomorrow)", retriever.calls[0].query)
}

func TestChatVagueFirstMessage(t *testing.T) {
	counter := &stubCounter{allowed: true}
	svc := NewChatService(emptyPack(t), &stubRetriever{}, &stubProvider{}, counter, &capturedPublisher{}, nopLogger{}, 0, false)

	res := runStream(t, svc, &dto.ChatRequest{
		SessionId: "c7",
		Lang:      "EN",
		Messages:  userTurns("parking"),
	})

	assert.Equal(t, kiosk.VagueQueryMessage("EN"), res.text)
	assert.Equal(t, kiosk.RouteFallback, res.meta.RouteUsed)
	assert.Empty(t, res.meta.ErrorCode)
}

func TestChatWeakGroundingAfterFirstTurn(t *testing.T) {
	counter := &stubCounter{allowed: true}
	pub := &capturedPublisher{}
	svc := NewChatService(emptyPack(t), &stubRetriever{}, &stubProvider{}, counter, pub, nopLogger{}, 0, false)

	res := runStream(t, svc, &dto.ChatRequest{
		SessionId: "c8",
		Lang:      "EN",
		Messages: []dto.ChatTurn{
			{Role: "user", Content: "Tell me about the exhibition"},
			{Role: "assistant", Content: "The exhibition hall is open all day."},
			{Role: "user", Content: "parking"},
		},
	})

	assert.Equal(t, kiosk.InsufficientGroundingMessage("EN"), res.text)
	assert.Equal(t, kiosk.ErrCodeInsufficientGrounding, res.meta.ErrorCode)
	require.NotNil(t, pub.last(t).ErrorCode)
	assert.Equal(t, kiosk.ErrCodeInsufficientGrounding, *pub.last(t).ErrorCode)
}

func TestChatStreamFailureRendersErrorOntoStream(t *testing.T) {
	counter := &stubCounter{allowed: true}
	retriever := &stubRetriever{sources: []retrieval.Source{agendaSource(0.8)}}
	provider := &stubProvider{streamErr: errors.New("upstream reset")}
	pub := &capturedPublisher{}
	svc := NewChatService(emptyPack(t), retriever, provider, counter, pub, nopLogger{}, 0, false)

	res := runStream(t, svc, &dto.ChatRequest{
		SessionId: "c9",
		Lang:      "EN",
		Messages:  userTurns("When do doors open tomorrow morning?"),
	})

	assert.Equal(t, kiosk.StreamErrorMessage("EN"), res.text)
	assert.Equal(t, kiosk.ErrCodeChatError, res.meta.ErrorCode)
	assert.Equal(t, kiosk.RouteFallback, res.meta.RouteUsed)
	require.NotNil(t, pub.last(t).ErrorCode)
	assert.Equal(t, kiosk.ErrCodeChatError, *pub.last(t).ErrorCode)
}

func TestChatSessionCounterFailure(t *testing.T) {
	counter := &stubCounter{err: errors.New("store down")}
	svc := NewChatService(emptyPack(t), &stubRetriever{}, &stubProvider{}, counter, &capturedPublisher{}, nopLogger{}, 0, false)

	res := runStream(t, svc, &dto.ChatRequest{
		SessionId: "c10",
		Lang:      "EN",
		Messages:  userTurns("When is the keynote?"),
	})

	assert.Equal(t, kiosk.StreamErrorMessage("EN"), res.text)
	assert.Equal(t, kiosk.ErrCodeChatError, res.meta.ErrorCode)
}

func TestEndSessionResetsCounter(t *testing.T) {
	counter := &stubCounter{allowed: true}
	svc := NewChatService(emptyPack(t), &stubRetriever{}, &stubProvider{}, counter, &capturedPublisher{}, nopLogger{}, 0, false)

	require.NoError(t, svc.EndSession(context.Background(), "c11"))
	assert.Equal(t, []string{"c11"}, counter.resets)
}
