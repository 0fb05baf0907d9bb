// FILE: internal/service/chat_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"event-kiosk-be/internal/constant"
	"event-kiosk-be/internal/dto"
	"event-kiosk-be/internal/pkg/logger"
	"event-kiosk-be/internal/repository/contract"
	"event-kiosk-be/pkg/kiosk"
	"event-kiosk-be/pkg/llm"
	"event-kiosk-be/pkg/offlinepack"
	"event-kiosk-be/pkg/retrieval"
	"event-kiosk-be/pkg/sse"
)

// EmitFunc delivers one encoded SSE frame to the client. Returning an
// error aborts the stream.
type EmitFunc func(frame []byte) error

type IChatService interface {
	// StreamChat answers the latest user turn as a token stream followed
	// by exactly one meta frame. It never returns an error to the
	// transport; failures are rendered onto the stream itself.
	StreamChat(ctx context.Context, req *dto.ChatRequest, emit EmitFunc)

	// EndSession releases the attendee's message budget.
	EndSession(ctx context.Context, sessionId string) error
}

type chatService struct {
	pack             *offlinepack.Cache
	retriever        retrieval.Retriever
	provider         llm.Provider
	sessionCounter   contract.SessionCounterRepository
	publisherService IPublisherService
	logger           logger.ILogger
	maxMessages      int
	eventMode        bool
}

func NewChatService(
	pack *offlinepack.Cache,
	retriever retrieval.Retriever,
	provider llm.Provider,
	sessionCounter contract.SessionCounterRepository,
	publisherService IPublisherService,
	logger logger.ILogger,
	maxMessages int,
	eventMode bool,
) IChatService {
	if maxMessages <= 0 {
		maxMessages = constant.DefaultMaxMessagesPerSession
	}
	return &chatService{
		pack:             pack,
		retriever:        retriever,
		provider:         provider,
		sessionCounter:   sessionCounter,
		publisherService: publisherService,
		logger:           logger,
		maxMessages:      maxMessages,
		eventMode:        eventMode,
	}
}

func (s *chatService) StreamChat(ctx context.Context, req *dto.ChatRequest, emit EmitFunc) {
	start := time.Now()
	lang := req.LangOrDefault()
	latestQuery := ""

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("CHAT_SERVICE", "chat stream panicked", map[string]interface{}{
				"panic": fmt.Sprint(r),
			})
			s.failStream(ctx, req, lang, latestQuery, start, emit)
		}
	}()

	messages := toChatMessages(req.Messages)

	latestMsg := latestUserMessage(messages)
	if latestMsg == nil {
		_ = s.emitText(emit, kiosk.EmptyQueryMessage(lang))
		_ = emitMeta(emit, &kiosk.StreamMeta{
			Sources:         []kiosk.SourceView{},
			Confidence:      0.0,
			RefinementChips: []string{},
			RouteUsed:       kiosk.RouteFallback,
			LatencyMs:       0,
		})
		return
	}
	latestQuery = latestMsg.Content

	allowed, _, err := s.sessionCounter.ConsumeSlot(ctx, req.SessionId, s.maxMessages)
	if err != nil {
		s.logger.Error("CHAT_SERVICE", "session counter failed", map[string]interface{}{
			"error": err.Error(),
		})
		s.failStream(ctx, req, lang, latestQuery, start, emit)
		return
	}
	if !allowed {
		limitText := kiosk.SessionLimitMessage(s.maxMessages, lang)
		_ = s.emitText(emit, limitText)
		latencyMs := time.Since(start).Milliseconds()
		_ = emitMeta(emit, &kiosk.StreamMeta{
			Sources:            []kiosk.SourceView{},
			Confidence:         0.0,
			RefinementChips:    []string{},
			RouteUsed:          kiosk.RouteFallback,
			LatencyMs:          latencyMs,
			ClarifyingQuestion: limitText,
			ErrorCode:          kiosk.ErrCodeSessionLimitReached,
		})
		s.recordChat(ctx, req, lang, kiosk.RouteFallback, 0.0, 0, kiosk.ErrCodeSessionLimitReached, latencyMs, latestQuery)
		return
	}

	ragQuery := kiosk.EffectiveQuery(messages, latestQuery)

	if kiosk.IsOutOfScope(latestQuery) {
		_ = s.emitText(emit, kiosk.OutOfScopeMessage(lang))
		latencyMs := time.Since(start).Milliseconds()
		_ = emitMeta(emit, &kiosk.StreamMeta{
			Sources:         []kiosk.SourceView{},
			Confidence:      0.0,
			RefinementChips: []string{},
			RouteUsed:       kiosk.RouteFallback,
			LatencyMs:       latencyMs,
		})
		s.recordChat(ctx, req, lang, kiosk.RouteFallback, 0.0, 0, "", latencyMs, latestQuery)
		return
	}

	if match, offlineConf := s.pack.Match(ragQuery, lang); match != nil && offlineConf >= kiosk.OfflineThreshold {
		sourceIDs := nonEmptyStrings(match.SourceIDs)
		if kiosk.OfflineIntentConflict(ragQuery, sourceIDs) {
			sourceIDs = nil
		}
		validation := s.retrieve(ctx, ragQuery, lang, constant.OfflineValidateTopK)
		validation = retrieval.FilterForQuery(ragQuery, validation)
		filtered := retrieval.FilterByIDs(validation, sourceIDs, kiosk.MinSourceScore)
		if len(filtered) >= kiosk.MinSources {
			prose := kiosk.OfflineToProse(kiosk.AnswerBlock{
				Direct:   match.Answer.Direct,
				Steps:    match.Answer.Steps,
				Mistakes: match.Answer.Mistakes,
			}, lang)
			_ = s.emitText(emit, prose)
			latencyMs := time.Since(start).Milliseconds()
			_ = emitMeta(emit, &kiosk.StreamMeta{
				Sources:         kiosk.ToSourceViews(filtered),
				Confidence:      offlineConf,
				RefinementChips: []string{},
				RouteUsed:       kiosk.RouteOffline,
				LatencyMs:       latencyMs,
			})
			s.logInfo("branch=offline", map[string]interface{}{"sources": len(filtered)})
			s.recordChat(ctx, req, lang, kiosk.RouteOffline, offlineConf, len(filtered), "", latencyMs, latestQuery)
			return
		}
	}

	retrieved := s.retrieve(ctx, ragQuery, lang, constant.ChatTopK)
	retrieved = retrieval.FilterForQuery(ragQuery, retrieved)
	ragConf := retrieval.ConfidenceFromSources(retrieved)
	strong := retrieval.Strong(retrieved, kiosk.MinSourceScore)

	history := kiosk.TrimHistory(messages, kiosk.MaxHistoryMessages)
	chips := suggestionChips(s.pack, latestQuery, lang, retrieved)

	routeUsed := kiosk.RouteFallback
	clarifyingQuestion := ""
	errorCode := ""
	var sourcesList []retrieval.Source

	if len(strong) >= kiosk.MinSources && ragConf >= kiosk.RAGThreshold {
		systemPrompt := kiosk.BuildChatSystemPrompt(lang, strong)
		input := kiosk.BuildChatInput(systemPrompt, history)
		_, err := s.provider.Stream(ctx, input, func(delta string) error {
			frame, encErr := sse.Token(delta)
			if encErr != nil {
				return encErr
			}
			return emit(frame)
		})
		if err != nil {
			s.logger.Warn("CHAT_SERVICE", "completion stream failed", map[string]interface{}{
				"error": err.Error(),
			})
			s.failStream(ctx, req, lang, latestQuery, start, emit)
			return
		}
		routeUsed = kiosk.RouteRAG
		sourcesList = strong
		s.logInfo("branch=rag", map[string]interface{}{"sources": len(strong)})
	} else {
		var text string
		if len(messages) <= 1 && kiosk.IsVagueQuery(latestQuery) {
			text = kiosk.VagueQueryMessage(lang)
		} else {
			text = kiosk.InsufficientGroundingMessage(lang)
			errorCode = kiosk.ErrCodeInsufficientGrounding
		}
		clarifyingQuestion = text
		_ = s.emitText(emit, text)
	}

	latencyMs := time.Since(start).Milliseconds()
	_ = emitMeta(emit, &kiosk.StreamMeta{
		Sources:            kiosk.ToSourceViews(sourcesList),
		Confidence:         ragConf,
		RefinementChips:    chips,
		RouteUsed:          routeUsed,
		LatencyMs:          latencyMs,
		ClarifyingQuestion: clarifyingQuestion,
		ErrorCode:          errorCode,
	})
	s.recordChat(ctx, req, lang, routeUsed, ragConf, len(sourcesList), errorCode, latencyMs, latestQuery)
}

func (s *chatService) EndSession(ctx context.Context, sessionId string) error {
	return s.sessionCounter.Reset(ctx, sessionId)
}

// failStream renders a hard failure onto the stream: apology tokens,
// then a chat_error meta frame.
func (s *chatService) failStream(ctx context.Context, req *dto.ChatRequest, lang, latestQuery string, start time.Time, emit EmitFunc) {
	_ = s.emitText(emit, kiosk.StreamErrorMessage(lang))
	latencyMs := time.Since(start).Milliseconds()
	_ = emitMeta(emit, &kiosk.StreamMeta{
		Sources:         []kiosk.SourceView{},
		Confidence:      0.0,
		RefinementChips: []string{},
		RouteUsed:       kiosk.RouteFallback,
		LatencyMs:       latencyMs,
		ErrorCode:       kiosk.ErrCodeChatError,
	})
	s.recordChat(ctx, req, lang, kiosk.RouteFallback, 0.0, 0, kiosk.ErrCodeChatError, latencyMs, latestQuery)
}

func (s *chatService) retrieve(ctx context.Context, query, lang string, topK int) []retrieval.Source {
	sources, _, err := s.retriever.Retrieve(ctx, query, lang, topK)
	if err != nil {
		s.logger.Warn("CHAT_SERVICE", "retrieval failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return sources
}

func (s *chatService) logInfo(message string, details map[string]interface{}) {
	if s.eventMode {
		return
	}
	s.logger.Info("CHAT_SERVICE", message, details)
}

func (s *chatService) emitText(emit EmitFunc, text string) error {
	for _, chunk := range sse.ChunkText(text, constant.StreamChunkSize) {
		frame, err := sse.Token(chunk)
		if err != nil {
			return err
		}
		if err := emit(frame); err != nil {
			return err
		}
	}
	return nil
}

func emitMeta(emit EmitFunc, meta *kiosk.StreamMeta) error {
	frame, err := sse.Meta(meta)
	if err != nil {
		return err
	}
	return emit(frame)
}

func (s *chatService) recordChat(ctx context.Context, req *dto.ChatRequest, lang, routeUsed string, confidence float64, sourcesCount int, errorCode string, latencyMs int64, query string) {
	msg := &dto.RouteOutcomeMessage{
		SessionId:    req.SessionId,
		Lang:         lang,
		Mode:         constant.AnalyticsModeChat,
		RouteUsed:    routeUsed,
		Confidence:   confidence,
		SourcesCount: sourcesCount,
		ErrorCode:    optionalString(errorCode),
		LatencyMs:    latencyMs,
		HashedQuery:  kiosk.HashQuery(query),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("CHAT_SERVICE", "failed to encode outcome event", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Error("CHAT_SERVICE", "failed to publish outcome event", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func toChatMessages(turns []dto.ChatTurn) []kiosk.ChatMessage {
	messages := make([]kiosk.ChatMessage, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, kiosk.ChatMessage{Role: t.Role, Content: t.Content})
	}
	return messages
}

func latestUserMessage(messages []kiosk.ChatMessage) *kiosk.ChatMessage {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == constant.ChatMessageRoleUser {
			return &messages[i]
		}
	}
	return nil
}

func nonEmptyStrings(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
