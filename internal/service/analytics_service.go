// FILE: internal/service/analytics_service.go
package service

import (
	"context"
	"sort"
	"time"

	"event-kiosk-be/internal/constant"
	"event-kiosk-be/internal/dto"
	"event-kiosk-be/internal/entity"
	"event-kiosk-be/internal/repository/contract"
	"event-kiosk-be/internal/repository/specification"

	"github.com/google/uuid"
)

type IAnalyticsService interface {
	RecordFeedback(ctx context.Context, req *dto.FeedbackRequest) error
	Summary(ctx context.Context, since *time.Time) (*dto.AnalyticsSummaryResponse, error)
	RecentOutcomes(ctx context.Context, mode, route string, limit, offset int) ([]dto.RouteOutcomeView, error)
}

type analyticsService struct {
	outcomeRepository contract.RouteOutcomeRepository
}

func NewAnalyticsService(outcomeRepository contract.RouteOutcomeRepository) IAnalyticsService {
	return &analyticsService{
		outcomeRepository: outcomeRepository,
	}
}

func (s *analyticsService) RecordFeedback(ctx context.Context, req *dto.FeedbackRequest) error {
	lang := req.Lang
	if lang == "" {
		lang = "EN"
	}
	rating := req.Rating1To5
	record := &entity.RouteOutcomeRecord{
		Id:             uuid.New(),
		SessionId:      req.SessionId,
		Lang:           lang,
		Mode:           constant.AnalyticsModeFeedback,
		Rating1To5:     &rating,
		TimeOnScreenMs: req.TimeOnScreenMs,
		Ts:             time.Now().UTC(),
	}
	return s.outcomeRepository.Create(ctx, record)
}

func (s *analyticsService) Summary(ctx context.Context, since *time.Time) (*dto.AnalyticsSummaryResponse, error) {
	var specs []specification.Specification
	if since != nil {
		specs = append(specs, specification.Since{T: *since})
	}

	total, err := s.outcomeRepository.Count(ctx, specs...)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.outcomeRepository.RouteBreakdown(ctx, specs...)
	if err != nil {
		return nil, err
	}
	aggregates, err := s.outcomeRepository.Aggregates(ctx, specs...)
	if err != nil {
		return nil, err
	}

	routes := make([]dto.RouteCount, 0, len(breakdown))
	for route, count := range breakdown {
		if route == "" {
			continue
		}
		routes = append(routes, dto.RouteCount{Route: route, Count: count})
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Count != routes[j].Count {
			return routes[i].Count > routes[j].Count
		}
		return routes[i].Route < routes[j].Route
	})

	return &dto.AnalyticsSummaryResponse{
		TotalOutcomes: total,
		Routes:        routes,
		AvgLatencyMs:  aggregates.AvgLatencyMs,
		AvgConfidence: aggregates.AvgConfidence,
		Since:         since,
	}, nil
}

func (s *analyticsService) RecentOutcomes(ctx context.Context, mode, route string, limit, offset int) ([]dto.RouteOutcomeView, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	var specs []specification.Specification
	if mode != "" {
		specs = append(specs, specification.Filter("mode", mode))
	}
	if route != "" {
		specs = append(specs, specification.Filter("route_used", route))
	}
	specs = append(specs,
		specification.OrderBy{Field: "ts", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)

	records, err := s.outcomeRepository.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	views := make([]dto.RouteOutcomeView, 0, len(records))
	for _, rec := range records {
		views = append(views, dto.RouteOutcomeView{
			Id:             rec.Id.String(),
			SessionId:      rec.SessionId,
			Lang:           rec.Lang,
			Mode:           rec.Mode,
			Rating1To5:     rec.Rating1To5,
			TimeOnScreenMs: rec.TimeOnScreenMs,
			RouteUsed:      rec.RouteUsed,
			Confidence:     rec.Confidence,
			SourcesCount:   rec.SourcesCount,
			ErrorCode:      rec.ErrorCode,
			LatencyMs:      rec.LatencyMs,
			HashedQuery:    rec.HashedQuery,
			Ts:             rec.Ts,
		})
	}
	return views, nil
}
