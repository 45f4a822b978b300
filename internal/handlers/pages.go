package handlers

import (
	"errors"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"skatepark/internal/database"
	"skatepark/internal/middleware"
	"skatepark/internal/platform/skater"
)

func Home(c *fiber.Ctx) error {
	skaters := c.Locals("skaters").(*skater.Service)

	overview, err := skaters.Overview(c.UserContext())
	if err != nil {
		logRequestError(c, err)
		return c.Render("home", fiber.Map{
			"Error":    MsgHomeError,
			"Skaters":  []database.Skater{},
			"HomeView": true,
		})
	}

	return c.Render("home", fiber.Map{
		"Skaters":    overview.Skaters,
		"Aprobados":  overview.Aprobados,
		"EnRevision": overview.EnRevision,
		"HomeView":   true,
	})
}

func RegistroPage(c *fiber.Ctx) error {
	return c.Render("registro", fiber.Map{"RegistroView": true})
}

func LoginPage(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{"LoginView": true})
}

// Perfil renders the token owner's profile.
func Perfil(c *fiber.Ctx) error {
	skaters := c.Locals("skaters").(*skater.Service)

	claims, ok := middleware.Claims(c)
	if !ok {
		return c.Render("datos", fiber.Map{"Error": MsgUserNotFound, "DatosView": true})
	}

	usuario, err := skaters.Profile(c.UserContext(), claims.ID)
	if err != nil {
		if errors.Is(err, skater.ErrNotFound) {
			return c.Render("datos", fiber.Map{"Error": MsgUserNotFound, "DatosView": true})
		}
		logRequestError(c, err)
		return c.Render("datos", fiber.Map{"Error": MsgPageError, "DatosView": true})
	}

	return c.Render("datos", fiber.Map{
		"Usuario":   usuario,
		"DatosView": true,
	})
}

func Admin(c *fiber.Ctx) error {
	skaters := c.Locals("skaters").(*skater.Service)

	list, err := skaters.List(c.UserContext())
	if err != nil {
		logRequestError(c, err)
		return c.Render("admin", fiber.Map{"Error": MsgAdminError, "AdminView": true})
	}

	return c.Render("admin", fiber.Map{
		"Skaters":   list,
		"AdminView": true,
	})
}

// NotFound answers JSON on API routes and renders the not-found page elsewhere.
func NotFound(c *fiber.Ctx) error {
	if middleware.IsAPI(c) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": MsgNotFound})
	}
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{
		"Title": MsgNotFound,
	})
}

// GetPhoto serves a stored photo from the media store.
func GetPhoto(c *fiber.Ctx) error {
	skaters := c.Locals("skaters").(*skater.Service)

	key := c.Params("key")
	content, err := skaters.Photo(key)
	if err != nil {
		if errors.Is(err, skater.ErrNotFound) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		logRequestError(c, err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	c.Type(filepath.Ext(key))
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Send(content)
}
