package serverutils

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// AdminMiddleware guards operator endpoints (pack reload, analytics
// export) with a static bearer token. An empty configured token
// disables the endpoints entirely.
func AdminMiddleware(adminToken string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if adminToken == "" {
			return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse("Admin access disabled"))
		}
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("Missing token"))
		}
		token := authHeader[7:]
		if subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("Invalid token"))
		}
		return ctx.Next()
	}
}
