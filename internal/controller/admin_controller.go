package controller

import (
	"time"

	"event-kiosk-be/internal/dto"
	"event-kiosk-be/internal/pkg/serverutils"
	"event-kiosk-be/internal/service"
	"event-kiosk-be/pkg/offlinepack"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	AnalyticsSummary(ctx *fiber.Ctx) error
	AnalyticsOutcomes(ctx *fiber.Ctx) error
	ReloadPack(ctx *fiber.Ctx) error
}

type adminController struct {
	analyticsService service.IAnalyticsService
	pack             *offlinepack.Cache
	adminToken       string
}

func NewAdminController(analyticsService service.IAnalyticsService, pack *offlinepack.Cache, adminToken string) IAdminController {
	return &adminController{
		analyticsService: analyticsService,
		pack:             pack,
		adminToken:       adminToken,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/api/admin")
	h.Use(serverutils.AdminMiddleware(c.adminToken))
	h.Get("/analytics/summary", c.AnalyticsSummary)
	h.Get("/analytics/outcomes", c.AnalyticsOutcomes)
	h.Post("/pack/reload", c.ReloadPack)
}

func (c *adminController) AnalyticsSummary(ctx *fiber.Ctx) error {
	var since *time.Time
	if raw := ctx.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "since must be RFC3339")
		}
		since = &parsed
	}

	res, err := c.analyticsService.Summary(ctx.Context(), since)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get analytics summary", res))
}

// AnalyticsOutcomes lists recorded outcomes newest first, optionally
// filtered by mode or route.
func (c *adminController) AnalyticsOutcomes(ctx *fiber.Ctx) error {
	res, err := c.analyticsService.RecentOutcomes(
		ctx.Context(),
		ctx.Query("mode"),
		ctx.Query("route"),
		ctx.QueryInt("limit", 50),
		ctx.QueryInt("offset", 0),
	)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get analytics outcomes", res))
}

// ReloadPack re-reads the offline pack from disk so content updates do
// not require a restart.
func (c *adminController) ReloadPack(ctx *fiber.Ctx) error {
	if err := c.pack.Reload(); err != nil {
		return err
	}

	res := dto.PackReloadResponse{Entries: len(c.pack.Entries())}
	return ctx.JSON(serverutils.SuccessResponse("Offline pack reloaded", res))
}
