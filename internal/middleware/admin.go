package middleware

import (
	"github.com/gofiber/fiber/v2"

	"skatepark/internal/platform/skater"
	"skatepark/pkg/logger"
)

const MsgForbidden = "Acceso restringido a administradores."

// AdminMiddleware lets the request through only when the token owner has an
// active administrator link. Must run after AuthMiddleware.
func AdminMiddleware(c *fiber.Ctx) error {
	skaters := c.Locals("skaters").(*skater.Service)

	claims, ok := Claims(c)
	if !ok {
		return deny(c, fiber.StatusUnauthorized, MsgUnauthorized)
	}

	admin, err := skaters.IsAdmin(c.UserContext(), claims.ID)
	if err != nil {
		log := logger.Get()
		log.Error().Err(err).Uint("skater_id", claims.ID).Msg("failed to check admin link")
		return deny(c, fiber.StatusInternalServerError, "Error al verificar permisos de administrador.")
	}

	if !admin {
		return deny(c, fiber.StatusUnauthorized, MsgForbidden)
	}

	return c.Next()
}
