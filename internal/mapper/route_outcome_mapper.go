package mapper

import (
	"event-kiosk-be/internal/entity"
	"event-kiosk-be/internal/model"
)

type RouteOutcomeMapper struct{}

func NewRouteOutcomeMapper() *RouteOutcomeMapper {
	return &RouteOutcomeMapper{}
}

func (m *RouteOutcomeMapper) ToModel(e *entity.RouteOutcomeRecord) *model.RouteOutcome {
	if e == nil {
		return nil
	}
	return &model.RouteOutcome{
		Id:             e.Id,
		SessionId:      e.SessionId,
		Lang:           e.Lang,
		Mode:           e.Mode,
		Rating1To5:     e.Rating1To5,
		TimeOnScreenMs: e.TimeOnScreenMs,
		RouteUsed:      e.RouteUsed,
		Confidence:     e.Confidence,
		SourcesCount:   e.SourcesCount,
		ErrorCode:      e.ErrorCode,
		LatencyMs:      e.LatencyMs,
		HashedQuery:    e.HashedQuery,
		Ts:             e.Ts,
	}
}

func (m *RouteOutcomeMapper) ToEntity(mod *model.RouteOutcome) *entity.RouteOutcomeRecord {
	if mod == nil {
		return nil
	}
	return &entity.RouteOutcomeRecord{
		Id:             mod.Id,
		SessionId:      mod.SessionId,
		Lang:           mod.Lang,
		Mode:           mod.Mode,
		Rating1To5:     mod.Rating1To5,
		TimeOnScreenMs: mod.TimeOnScreenMs,
		RouteUsed:      mod.RouteUsed,
		Confidence:     mod.Confidence,
		SourcesCount:   mod.SourcesCount,
		ErrorCode:      mod.ErrorCode,
		LatencyMs:      mod.LatencyMs,
		HashedQuery:    mod.HashedQuery,
		Ts:             mod.Ts,
	}
}

func (m *RouteOutcomeMapper) ToEntities(models []*model.RouteOutcome) []*entity.RouteOutcomeRecord {
	entities := make([]*entity.RouteOutcomeRecord, len(models))
	for i, mod := range models {
		entities[i] = m.ToEntity(mod)
	}
	return entities
}
