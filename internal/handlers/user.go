package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"skatepark/internal/middleware"
	"skatepark/internal/platform/skater"
)

var updateErrors = []errorCase{
	{skater.ErrValidation, fiber.StatusBadRequest, MsgMissingData},
	{skater.ErrEmailTaken, fiber.StatusBadRequest, MsgEmailTaken},
	{skater.ErrNotFound, fiber.StatusNotFound, MsgUserNotFound},
}

// UpdateSkater overwrites the profile of the token owner.
func UpdateSkater(c *fiber.Ctx) error {
	skaters := c.Locals("skaters").(*skater.Service)

	claims, ok := middleware.Claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": middleware.MsgUnauthorized})
	}

	type UpdateSkaterInput struct {
		Email           string      `json:"email" form:"email"`
		Nombre          string      `json:"nombre" form:"nombre"`
		Password        string      `json:"password" form:"password"`
		AnosExperiencia json.Number `json:"anos_experiencia" form:"anos_experiencia"`
		Especialidad    string      `json:"especialidad" form:"especialidad"`
	}

	var input UpdateSkaterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": MsgMissingData})
	}

	anos, err := strconv.Atoi(strings.TrimSpace(input.AnosExperiencia.String()))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": MsgMissingData})
	}

	err = skaters.UpdateProfile(c.UserContext(), claims.ID, skater.UpdateInput{
		Email:           input.Email,
		Nombre:          input.Nombre,
		Password:        input.Password,
		AnosExperiencia: anos,
		Especialidad:    input.Especialidad,
	})
	if err != nil {
		return respondError(c, err, updateErrors, MsgUpdateFailed)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": MsgUpdateOK})
}

var deleteErrors = []errorCase{
	{skater.ErrValidation, fiber.StatusBadRequest, MsgMissingPassword},
	{skater.ErrInvalidCredentials, fiber.StatusBadRequest, MsgDeleteRejected},
}

// DeleteSkater removes the token owner's account after confirming the password.
func DeleteSkater(c *fiber.Ctx) error {
	skaters := c.Locals("skaters").(*skater.Service)

	claims, ok := middleware.Claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": middleware.MsgUnauthorized})
	}

	type DeleteSkaterInput struct {
		Password string `json:"password" form:"password"`
	}

	var input DeleteSkaterInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": MsgMissingPassword})
		}
	}

	if err := skaters.Delete(c.UserContext(), claims.ID, input.Password); err != nil {
		return respondError(c, err, deleteErrors, MsgDeleteFailed)
	}

	c.ClearCookie(middleware.TokenCookie)

	return c.JSON(fiber.Map{"message": MsgDeleteOK})
}

// ListSkaters returns the public listing with approval counts.
func ListSkaters(c *fiber.Ctx) error {
	skaters := c.Locals("skaters").(*skater.Service)

	overview, err := skaters.Overview(c.UserContext())
	if err != nil {
		return respondError(c, err, nil, MsgListFailed)
	}

	return c.JSON(overview)
}
