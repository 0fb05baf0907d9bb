package controller

import (
	"bufio"
	"context"

	"event-kiosk-be/internal/dto"
	"event-kiosk-be/internal/pkg/serverutils"
	"event-kiosk-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	EndSession(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/api")
	h.Post("/chat", c.Chat)
	h.Post("/session/end", c.EndSession)
}

// Chat streams the answer as server-sent events: token frames followed
// by one meta frame.
func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	// The stream writer runs after this handler returns, so the fiber
	// context must not be touched inside it.
	streamCtx := context.Background()
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		c.service.StreamChat(streamCtx, &req, func(frame []byte) error {
			if _, err := w.Write(frame); err != nil {
				return err
			}
			return w.Flush()
		})
	}))
	return nil
}

func (c *chatController) EndSession(ctx *fiber.Ctx) error {
	var req dto.SessionEndRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.EndSession(ctx.Context(), req.SessionId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Session ended", nil))
}
