package contract

import (
	"context"

	"event-kiosk-be/internal/entity"
	"event-kiosk-be/internal/repository/specification"
)

// RouteAggregates are the rollups behind the operator summary view.
type RouteAggregates struct {
	AvgLatencyMs  float64
	AvgConfidence float64
}

type RouteOutcomeRepository interface {
	Create(ctx context.Context, record *entity.RouteOutcomeRecord) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RouteOutcomeRecord, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	RouteBreakdown(ctx context.Context, specs ...specification.Specification) (map[string]int64, error)
	Aggregates(ctx context.Context, specs ...specification.Specification) (*RouteAggregates, error)
}
