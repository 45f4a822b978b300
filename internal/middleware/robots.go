package middleware

import (
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
)

const defaultRobots = "User-agent: *\nDisallow: /api/\nDisallow: /admin\nDisallow: /perfil\n"

// RobotsMiddleware serves robots.txt from publicDir, falling back to a policy
// that keeps crawlers out of the API and the private pages.
func RobotsMiddleware(publicDir string) fiber.Handler {
	robotsPath := filepath.Join(publicDir, "robots.txt")

	return func(c *fiber.Ctx) error {
		if c.Path() != "/robots.txt" {
			return c.Next()
		}

		c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
		if _, err := os.Stat(robotsPath); err == nil {
			return c.SendFile(robotsPath)
		}
		c.Type("txt")
		return c.SendString(defaultRobots)
	}
}
