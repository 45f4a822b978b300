package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"skatepark/internal/auth"
	"skatepark/internal/config"
	"skatepark/internal/middleware"
	"skatepark/internal/platform/skater"
)

func registerErrors(maxUpload int64) []errorCase {
	return []errorCase{
		{skater.ErrValidation, fiber.StatusBadRequest, MsgMissingData},
		{skater.ErrImageTooLarge, fiber.StatusBadRequest, ImageTooLargeMessage(maxUpload)},
		{skater.ErrUnsupportedImage, fiber.StatusBadRequest, MsgUnsupportedImage},
		{skater.ErrEmailTaken, fiber.StatusBadRequest, MsgEmailTaken},
		{skater.ErrMedia, fiber.StatusInternalServerError, MsgImageSaveFailed},
	}
}

// Register handles the multipart registration form.
func Register(c *fiber.Ctx) error {
	cfg := c.Locals("config").(*config.Config)
	skaters := c.Locals("skaters").(*skater.Service)

	input := skater.RegisterInput{
		Email:        c.FormValue("email"),
		Nombre:       c.FormValue("nombre"),
		Password:     c.FormValue("password"),
		Especialidad: c.FormValue("especialidad"),
	}

	anos, err := strconv.Atoi(strings.TrimSpace(c.FormValue("anos_experiencia")))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": MsgMissingData})
	}
	input.AnosExperiencia = anos

	file, err := c.FormFile("imagen")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": MsgMissingData})
	}
	if file.Size > cfg.MaxUploadSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": ImageTooLargeMessage(cfg.MaxUploadSize)})
	}

	content, err := readUpload(file)
	if err != nil {
		return respondError(c, err, nil, MsgImageSaveFailed)
	}

	id, err := skaters.Register(c.UserContext(), input, &skater.Upload{
		Filename: file.Filename,
		Content:  content,
	})
	if err != nil {
		return respondError(c, err, registerErrors(cfg.MaxUploadSize), MsgRegisterFailed)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": fmt.Sprintf(MsgRegisterOK, id),
		"id":      id,
	})
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, file.Size+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return content, nil
}

var loginErrors = []errorCase{
	{skater.ErrValidation, fiber.StatusBadRequest, MsgMissingCredentials},
	{skater.ErrInvalidCredentials, fiber.StatusBadRequest, MsgInvalidCredentials},
}

// Login accepts JSON or form credentials and answers with a token. The token
// is also set as a cookie so page routes can use it.
func Login(c *fiber.Ctx) error {
	skaters := c.Locals("skaters").(*skater.Service)
	tokens := c.Locals("tokens").(*auth.Issuer)

	type LoginInput struct {
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}

	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": MsgMissingCredentials})
	}

	identity, err := skaters.Login(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return respondError(c, err, loginErrors, MsgLoginFailed)
	}

	token, expiresAt, err := tokens.GenerateJWT(identity.ID, identity.Nombre, identity.Email, identity.Admin)
	if err != nil {
		return respondError(c, err, nil, MsgLoginFailed)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{
		"message": MsgLoginOK,
		"token":   token,
		"usuario": identity,
	})
}
