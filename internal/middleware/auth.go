package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"skatepark/internal/auth"
)

const (
	TokenQueryParam = "token"
	TokenCookie     = "token"
)

const MsgUnauthorized = "Debe iniciar sesión para acceder a este recurso."

// TokenFromRequest looks for a token in the Authorization header, then the
// token query parameter, then the token cookie.
func TokenFromRequest(c *fiber.Ctx) string {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		if strings.HasPrefix(authHeader, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		}
		return ""
	}
	if token := c.Query(TokenQueryParam); token != "" {
		return token
	}
	return c.Cookies(TokenCookie)
}

func AuthMiddleware(c *fiber.Ctx) error {
	tokens := c.Locals("tokens").(*auth.Issuer)

	token := TokenFromRequest(c)
	if token == "" {
		return deny(c, fiber.StatusUnauthorized, MsgUnauthorized)
	}

	claims, err := tokens.VerifyJWT(token)
	if err != nil {
		return deny(c, fiber.StatusUnauthorized, MsgUnauthorized)
	}

	c.Locals("claims", claims)

	return c.Next()
}

// Claims returns the verified claims stored by AuthMiddleware.
func Claims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals("claims").(*auth.Claims)
	return claims, ok && claims != nil
}

// IsAPI reports whether the request targets the JSON API.
func IsAPI(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/")
}

// deny answers JSON on API routes and renders the login page elsewhere.
func deny(c *fiber.Ctx, status int, message string) error {
	if IsAPI(c) {
		return c.Status(status).JSON(fiber.Map{"message": message})
	}
	return c.Status(status).Render("login", fiber.Map{
		"Error":     message,
		"LoginView": true,
	})
}
