package specification

import (
	"time"

	"gorm.io/gorm"
)

// ByMode filters outcomes by interaction mode ("ask", "chat", "feedback").
type ByMode struct {
	Mode string
}

func (s ByMode) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("mode = ?", s.Mode)
}

// ByRoute filters outcomes by the route that served them.
type ByRoute struct {
	Route string
}

func (s ByRoute) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("route_used = ?", s.Route)
}

// BySession filters outcomes belonging to one kiosk session.
type BySession struct {
	SessionId string
}

func (s BySession) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionId)
}

// Since keeps outcomes recorded at or after the given time.
type Since struct {
	T time.Time
}

func (s Since) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("ts >= ?", s.T)
}
