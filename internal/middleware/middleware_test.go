package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skatepark/internal/auth"
)

func TestTokenFromRequest(t *testing.T) {
	testCases := []struct {
		name     string
		header   string
		query    string
		cookie   string
		expected string
	}{
		{"bearer header", "Bearer abc", "", "", "abc"},
		{"header wins over query", "Bearer abc", "def", "ghi", "abc"},
		{"non bearer header", "Basic abc", "def", "", ""},
		{"query", "", "def", "ghi", "def"},
		{"cookie", "", "", "ghi", "ghi"},
		{"nothing", "", "", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			var got string
			app.Get("/", func(c *fiber.Ctx) error {
				got = TokenFromRequest(c)
				return nil
			})

			target := "/"
			if tc.query != "" {
				target += "?token=" + tc.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tc.cookie})
			}

			_, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func newAuthApp(issuer *auth.Issuer) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("tokens", issuer)
		return c.Next()
	})
	app.Get("/api/v1/me", AuthMiddleware, func(c *fiber.Ctx) error {
		claims, ok := Claims(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(claims)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	issuer := auth.NewIssuer("secret", time.Minute)
	other := auth.NewIssuer("other-secret", time.Minute)
	app := newAuthApp(issuer)

	valid, _, err := issuer.GenerateJWT(7, "Tony", "tony@skate.cl", false)
	require.NoError(t, err)
	forged, _, err := other.GenerateJWT(7, "Tony", "tony@skate.cl", true)
	require.NoError(t, err)

	testCases := []struct {
		name   string
		token  string
		status int
	}{
		{"valid", valid, fiber.StatusOK},
		{"missing", "", fiber.StatusUnauthorized},
		{"garbage", "not-a-jwt", fiber.StatusUnauthorized},
		{"wrong secret", forged, fiber.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			if tc.token != "" {
				req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tc.token)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			var out map[string]any
			require.NoError(t, json.Unmarshal(body, &out))
			if tc.status == fiber.StatusOK {
				assert.Equal(t, float64(7), out["id"])
			} else {
				assert.Equal(t, MsgUnauthorized, out["message"])
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	app := fiber.New()
	app.Use(RequestLogger(log))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "teapot") })

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"status":200`)
	assert.Contains(t, buf.String(), `"path":"/ok"`)

	buf.Reset()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestRobotsMiddleware(t *testing.T) {
	dir := t.TempDir()

	app := fiber.New()
	app.Use(RobotsMiddleware(dir))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, defaultRobots, string(body))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "robots.txt"), []byte("User-agent: *\nAllow: /\n"), 0o644))
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "User-agent: *\nAllow: /\n", string(body))
}
