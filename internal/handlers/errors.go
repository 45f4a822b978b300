package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"skatepark/internal/middleware"
	"skatepark/pkg/logger"
)

type errorCase struct {
	target  error
	status  int
	message string
}

// respondError answers with the first case matching err, or a 500 with
// fallback. Server errors are logged with the request context.
func respondError(c *fiber.Ctx, err error, cases []errorCase, fallback string) error {
	status, message := fiber.StatusInternalServerError, fallback
	for _, ec := range cases {
		if errors.Is(err, ec.target) {
			status, message = ec.status, ec.message
			break
		}
	}

	if status >= fiber.StatusInternalServerError {
		logRequestError(c, err)
	}

	return c.Status(status).JSON(fiber.Map{"message": message})
}

func logRequestError(c *fiber.Ctx, err error) {
	log := logger.Get()
	log.Error().
		Err(err).
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("request failed")
}

// RegisterPath is the multipart registration endpoint.
const RegisterPath = "/api/v1/registro"

// NewErrorHandler handles errors escaping the handler chain. Bodies above
// fiber's BodyLimit are refused before any handler runs; on the registration
// endpoint that refusal is answered like any other oversized photo.
func NewErrorHandler(maxUploadSize int64) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := MsgInternalError

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			if code < fiber.StatusInternalServerError {
				message = fe.Message
			}
		}

		if code == fiber.StatusRequestEntityTooLarge && c.Path() == RegisterPath {
			code, message = fiber.StatusBadRequest, ImageTooLargeMessage(maxUploadSize)
		}

		if code >= fiber.StatusInternalServerError {
			logRequestError(c, err)
		}

		if middleware.IsAPI(c) {
			return c.Status(code).JSON(fiber.Map{"message": message})
		}

		if code == fiber.StatusNotFound {
			return NotFound(c)
		}

		if renderErr := c.Status(code).Render("notfound", fiber.Map{
			"Title": MsgPageError,
			"Error": message,
		}); renderErr != nil {
			return c.Status(code).SendString(message)
		}
		return nil
	}
}
