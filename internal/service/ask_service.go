// FILE: internal/service/ask_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"event-kiosk-be/internal/constant"
	"event-kiosk-be/internal/dto"
	"event-kiosk-be/internal/pkg/logger"
	"event-kiosk-be/pkg/kiosk"
	"event-kiosk-be/pkg/llm"
	"event-kiosk-be/pkg/offlinepack"
	"event-kiosk-be/pkg/retrieval"
)

type IAskService interface {
	// Ask routes one question and always returns a usable outcome, even
	// when every upstream dependency failed.
	Ask(ctx context.Context, req *dto.AskRequest) *kiosk.Outcome

	// Suggestions returns lexical starter chips from the offline pack.
	Suggestions(query, lang string) []string
}

type askService struct {
	pack             *offlinepack.Cache
	retriever        retrieval.Retriever
	provider         llm.Provider
	publisherService IPublisherService
	logger           logger.ILogger
	eventMode        bool
}

func NewAskService(
	pack *offlinepack.Cache,
	retriever retrieval.Retriever,
	provider llm.Provider,
	publisherService IPublisherService,
	logger logger.ILogger,
	eventMode bool,
) IAskService {
	return &askService{
		pack:             pack,
		retriever:        retriever,
		provider:         provider,
		publisherService: publisherService,
		logger:           logger,
		eventMode:        eventMode,
	}
}

func (s *askService) Ask(ctx context.Context, req *dto.AskRequest) *kiosk.Outcome {
	start := time.Now()
	lang := req.LangOrDefault()

	outcome := s.route(ctx, req, lang)
	outcome.LatencyMs = time.Since(start).Milliseconds()

	s.publishOutcome(ctx, &dto.RouteOutcomeMessage{
		SessionId:    req.SessionId,
		Lang:         lang,
		Mode:         constant.AnalyticsModeAsk,
		RouteUsed:    outcome.RouteUsed,
		Confidence:   outcome.Confidence,
		SourcesCount: len(outcome.Sources),
		ErrorCode:    optionalString(outcome.ErrorCode),
		LatencyMs:    outcome.LatencyMs,
		HashedQuery:  kiosk.HashQuery(req.Query),
	})
	return outcome
}

func (s *askService) Suggestions(query, lang string) []string {
	if lang == "" {
		lang = "EN"
	}
	chips := s.pack.Suggestions(query, lang, 3)
	if chips == nil {
		return []string{}
	}
	return chips
}

// route walks the decision ladder: scope check, offline pack, retrieval
// grounding, completion. A panic anywhere degrades to the safe outcome.
func (s *askService) route(ctx context.Context, req *dto.AskRequest, lang string) (outcome *kiosk.Outcome) {
	originalQuery := req.Query

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("ASK_SERVICE", "ask flow panicked", map[string]interface{}{
				"panic": fmt.Sprint(r),
			})
			outcome = kiosk.SafeOutcome(lang)
		}
	}()

	effectiveQuery := originalQuery
	if choice := strings.TrimSpace(req.ClarifierChoice); req.Clarified && choice != "" {
		effectiveQuery = originalQuery + "\nClarifier choice: " + choice
	}

	if kiosk.IsOutOfScope(originalQuery) && !req.Clarified {
		s.logInfo("branch=fallback out_of_scope=true", nil)
		return &kiosk.Outcome{
			Answer:             emptyAnswer(),
			Sources:            []kiosk.SourceView{},
			Confidence:         0.0,
			RefinementChips:    []string{},
			RouteUsed:          kiosk.RouteFallback,
			ClarifyingQuestion: kiosk.OutOfScopeMessage(lang),
			DebugNotes:         "fallback: out_of_scope",
		}
	}

	if match, offlineConf := s.pack.Match(effectiveQuery, lang); match != nil && offlineConf >= kiosk.OfflineThreshold {
		validation := s.retrieve(ctx, effectiveQuery, lang, constant.OfflineValidateTopK)
		filtered := retrieval.FilterByIDs(validation, match.SourceIDs, kiosk.MinSourceScore)
		if len(filtered) >= kiosk.MinSources {
			s.logInfo("branch=offline", map[string]interface{}{"sources": len(filtered)})
			return &kiosk.Outcome{
				Answer: kiosk.AnswerBlock{
					Direct:   match.Answer.Direct,
					Steps:    orEmptyStrings(match.Answer.Steps),
					Mistakes: orEmptyStrings(match.Answer.Mistakes),
				},
				Sources:         kiosk.ToSourceViews(filtered),
				Confidence:      offlineConf,
				RefinementChips: []string{},
				RouteUsed:       kiosk.RouteOffline,
			}
		}
	}

	retrieved, ragConf := s.retrieveWithConfidence(ctx, effectiveQuery, lang, constant.AskTopK)
	strong := retrieval.Strong(retrieved, kiosk.MinSourceScore)
	weakRAG := len(strong) < kiosk.MinSources || ragConf < kiosk.RAGThreshold
	chips := suggestionChips(s.pack, originalQuery, lang, retrieved)

	if weakRAG {
		if req.Clarified {
			s.logInfo("branch=fallback insufficient_grounding", nil)
			return &kiosk.Outcome{
				Answer:             emptyAnswer(),
				Sources:            []kiosk.SourceView{},
				Confidence:         ragConf,
				RefinementChips:    chips,
				RouteUsed:          kiosk.RouteFallback,
				ClarifyingQuestion: kiosk.InsufficientGroundingMessage(lang),
				ErrorCode:          kiosk.ErrCodeInsufficientGrounding,
				ErrorMessage:       "No verified answer in official documents.",
				DebugNotes:         "fallback: insufficient_grounding",
			}
		}
		s.logInfo("branch=fallback rag_low_clarify", nil)
		return &kiosk.Outcome{
			Answer:             emptyAnswer(),
			Sources:            []kiosk.SourceView{},
			Confidence:         ragConf,
			RefinementChips:    chips,
			RouteUsed:          kiosk.RouteFallback,
			ClarifyingQuestion: kiosk.Clarifier(originalQuery, lang),
			DebugNotes:         "fallback: rag_low_clarify",
		}
	}

	s.logInfo("openai_start", nil)
	output, err := s.provider.Complete(ctx,
		kiosk.BuildAskPrompt(effectiveQuery, lang, strong),
		llm.WithJSONSchema(kiosk.AnswerSchemaName, kiosk.AnswerSchema),
	)
	var answer kiosk.AnswerBlock
	if err == nil {
		answer, _, err = kiosk.ParseAnswer(output)
	}
	if err != nil {
		debug := "fallback: openai_error"
		switch {
		case errors.Is(err, llm.ErrMissingAPIKey):
			debug = "fallback: openai_missing_key"
		case llm.IsTimeout(err):
			debug = "fallback: openai_timeout"
		}
		s.logger.Warn("ASK_SERVICE", "completion step failed", map[string]interface{}{
			"error": err.Error(),
		})
		return &kiosk.Outcome{
			Answer:             emptyAnswer(),
			Sources:            []kiosk.SourceView{},
			Confidence:         ragConf,
			RefinementChips:    chips,
			RouteUsed:          kiosk.RouteFallback,
			ClarifyingQuestion: kiosk.Clarifier(originalQuery, lang),
			ErrorCode:          kiosk.ErrCodeOpenAIUnavailable,
			ErrorMessage:       "LLM step unavailable; using clarifier",
			DebugNotes:         debug,
		}
	}
	s.logInfo("openai_success", nil)

	if answer.IsEmpty() {
		return &kiosk.Outcome{
			Answer:             emptyAnswer(),
			Sources:            []kiosk.SourceView{},
			Confidence:         ragConf,
			RefinementChips:    chips,
			RouteUsed:          kiosk.RouteFallback,
			ClarifyingQuestion: kiosk.Clarifier(originalQuery, lang),
			DebugNotes:         "fallback: empty_answer",
		}
	}

	s.logInfo("branch=rag", map[string]interface{}{"sources": len(strong)})
	return &kiosk.Outcome{
		Answer:          answer,
		Sources:         kiosk.ToSourceViews(strong),
		Confidence:      ragConf,
		RefinementChips: chips,
		RouteUsed:       kiosk.RouteRAG,
	}
}

// retrieve fetches validation sources; a retrieval failure counts as no
// grounding rather than a hard error.
func (s *askService) retrieve(ctx context.Context, query, lang string, topK int) []retrieval.Source {
	sources, _, err := s.retriever.Retrieve(ctx, query, lang, topK)
	if err != nil {
		s.logger.Warn("ASK_SERVICE", "retrieval failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return sources
}

func (s *askService) retrieveWithConfidence(ctx context.Context, query, lang string, topK int) ([]retrieval.Source, float64) {
	sources, conf, err := s.retriever.Retrieve(ctx, query, lang, topK)
	if err != nil {
		s.logger.Warn("ASK_SERVICE", "retrieval failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, 0.0
	}
	return sources, conf
}

// logInfo suppresses info noise while the kiosk runs on the event floor.
func (s *askService) logInfo(message string, details map[string]interface{}) {
	if s.eventMode {
		return
	}
	s.logger.Info("ASK_SERVICE", message, details)
}

func (s *askService) publishOutcome(ctx context.Context, msg *dto.RouteOutcomeMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("ASK_SERVICE", "failed to encode outcome event", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Error("ASK_SERVICE", "failed to publish outcome event", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// suggestionChips offers refinement chips only when retrieval evidence
// backs them.
func suggestionChips(pack *offlinepack.Cache, query, lang string, retrieved []retrieval.Source) []string {
	if len(retrieved) == 0 {
		return []string{}
	}
	scores := make([]offlinepack.SourceScore, 0, len(retrieved))
	for _, src := range retrieved {
		scores = append(scores, offlinepack.SourceScore{SourceID: src.SourceID, Score: src.Score})
	}
	chips := pack.ConfidentSuggestions(query, lang, scores, 3, offlinepack.ChipConfidenceThreshold)
	if chips == nil {
		return []string{}
	}
	return chips
}

func emptyAnswer() kiosk.AnswerBlock {
	return kiosk.AnswerBlock{Direct: "", Steps: []string{}, Mistakes: []string{}}
}

func orEmptyStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
