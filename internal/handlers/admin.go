package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"skatepark/internal/platform/skater"
)

var statusErrors = []errorCase{
	{skater.ErrValidation, fiber.StatusBadRequest, MsgMissingID},
	{skater.ErrNotFound, fiber.StatusNotFound, MsgStatusNotFound},
}

// ChangeStatus approves or un-approves a skater. Query id is required; an
// optional estado sets the target state, otherwise the state is flipped.
func ChangeStatus(c *fiber.Ctx) error {
	skaters := c.Locals("skaters").(*skater.Service)

	idParam := c.Query("id")
	if idParam == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": MsgMissingID})
	}

	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": MsgInvalidID})
	}

	var target *bool
	if raw := c.Query("estado"); raw != "" {
		estado, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": MsgInvalidEstado})
		}
		target = &estado
	}

	estado, err := skaters.SetStatus(c.UserContext(), uint(id), target)
	if err != nil {
		return respondError(c, err, statusErrors, MsgStatusFailed)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": MsgStatusOK,
		"estado":  estado,
	})
}
