package entity

import (
	"time"

	"github.com/google/uuid"
)

// RouteOutcomeRecord is one analytics row: what route a request took,
// how confident it was, and how long it took. Query text is stored only
// as a hash.
type RouteOutcomeRecord struct {
	Id             uuid.UUID
	SessionId      string
	Lang           string
	Mode           string
	Rating1To5     *int
	TimeOnScreenMs *int
	RouteUsed      string
	Confidence     float64
	SourcesCount   int
	ErrorCode      *string
	LatencyMs      int64
	HashedQuery    string
	Ts             time.Time
}
