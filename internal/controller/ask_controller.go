package controller

import (
	"event-kiosk-be/internal/dto"
	"event-kiosk-be/internal/pkg/serverutils"
	"event-kiosk-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAskController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
	Suggestions(ctx *fiber.Ctx) error
}

type askController struct {
	service service.IAskService
}

func NewAskController(service service.IAskService) IAskController {
	return &askController{service: service}
}

func (c *askController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/api")
	h.Post("/ask", c.Ask)
	h.Get("/suggestions", c.Suggestions)
}

// Ask returns the routing outcome as a bare JSON body. The kiosk UI
// consumes this shape directly, so it is not wrapped in the standard
// response envelope.
func (c *askController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	outcome := c.service.Ask(ctx.Context(), &req)
	return ctx.JSON(outcome)
}

// Suggestions serves the starter chips shown on the kiosk home screen.
func (c *askController) Suggestions(ctx *fiber.Ctx) error {
	chips := c.service.Suggestions(ctx.Query("query"), ctx.Query("lang"))
	return ctx.JSON(dto.SuggestionsResponse{Suggestions: chips})
}
