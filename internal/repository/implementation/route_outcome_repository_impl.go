package implementation

import (
	"context"

	"event-kiosk-be/internal/entity"
	"event-kiosk-be/internal/mapper"
	"event-kiosk-be/internal/model"
	"event-kiosk-be/internal/repository/contract"
	"event-kiosk-be/internal/repository/specification"

	"gorm.io/gorm"
)

type RouteOutcomeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RouteOutcomeMapper
}

func NewRouteOutcomeRepository(db *gorm.DB) contract.RouteOutcomeRepository {
	return &RouteOutcomeRepositoryImpl{
		db:     db,
		mapper: mapper.NewRouteOutcomeMapper(),
	}
}

func (r *RouteOutcomeRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *RouteOutcomeRepositoryImpl) Create(ctx context.Context, record *entity.RouteOutcomeRecord) error {
	m := r.mapper.ToModel(record)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.ToEntity(m)
	return nil
}

func (r *RouteOutcomeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RouteOutcomeRecord, error) {
	var models []*model.RouteOutcome
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *RouteOutcomeRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.RouteOutcome{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *RouteOutcomeRepositoryImpl) RouteBreakdown(ctx context.Context, specs ...specification.Specification) (map[string]int64, error) {
	type row struct {
		RouteUsed string
		Total     int64
	}
	var rows []row
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.RouteOutcome{}), specs...)
	err := query.
		Select("route_used, COUNT(*) AS total").
		Group("route_used").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	breakdown := make(map[string]int64, len(rows))
	for _, rw := range rows {
		breakdown[rw.RouteUsed] = rw.Total
	}
	return breakdown, nil
}

func (r *RouteOutcomeRepositoryImpl) Aggregates(ctx context.Context, specs ...specification.Specification) (*contract.RouteAggregates, error) {
	type row struct {
		AvgLatencyMs  float64
		AvgConfidence float64
	}
	var rw row
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.RouteOutcome{}), specs...)
	err := query.
		Select("COALESCE(AVG(latency_ms), 0) AS avg_latency_ms, COALESCE(AVG(confidence), 0) AS avg_confidence").
		Scan(&rw).Error
	if err != nil {
		return nil, err
	}
	return &contract.RouteAggregates{
		AvgLatencyMs:  rw.AvgLatencyMs,
		AvgConfidence: rw.AvgConfidence,
	}, nil
}
