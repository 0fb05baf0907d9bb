package model

import (
	"time"

	"github.com/google/uuid"
)

type RouteOutcome struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId      string    `gorm:"type:text;not null;index"`
	Lang           string    `gorm:"type:text"`
	Mode           string    `gorm:"type:text;not null;index"`
	Rating1To5     *int      `gorm:"column:rating_1_5"`
	TimeOnScreenMs *int
	RouteUsed      string `gorm:"type:text;index"`
	Confidence     float64
	SourcesCount   int
	ErrorCode      *string `gorm:"type:text"`
	LatencyMs      int64
	HashedQuery    string    `gorm:"type:text"`
	Ts             time.Time `gorm:"not null;index;autoCreateTime"`
}

func (RouteOutcome) TableName() string {
	return "route_outcomes"
}
