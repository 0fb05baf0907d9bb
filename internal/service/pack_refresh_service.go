// FILE: internal/service/pack_refresh_service.go
package service

import (
	"context"

	"event-kiosk-be/internal/pkg/logger"
	"event-kiosk-be/pkg/events"
	pktNats "event-kiosk-be/pkg/nats"
	"event-kiosk-be/pkg/offlinepack"
)

// IPackRefreshService reloads the offline pack when the content
// pipeline announces an update on the event bus.
type IPackRefreshService interface {
	Start() error
}

type packRefreshService struct {
	pack    *offlinepack.Cache
	natsSub *pktNats.Subscriber
	logger  logger.ILogger
}

func NewPackRefreshService(pack *offlinepack.Cache, natsSub *pktNats.Subscriber, logger logger.ILogger) IPackRefreshService {
	return &packRefreshService{
		pack:    pack,
		natsSub: natsSub,
		logger:  logger,
	}
}

func (s *packRefreshService) Start() error {
	return s.natsSub.Subscribe("events.PACK_UPDATED", "kiosk-pack-refresh", func(ctx context.Context, event events.Event) error {
		if err := s.pack.Reload(); err != nil {
			s.logger.Error("PACK_REFRESH", "failed to reload offline pack", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}
		s.logger.Info("PACK_REFRESH", "offline pack reloaded", map[string]interface{}{
			"entries": len(s.pack.Entries()),
		})
		return nil
	})
}
