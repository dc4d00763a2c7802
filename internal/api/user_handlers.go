package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/erfrost/playreal-backend/internal/apperrors"
	"github.com/erfrost/playreal-backend/internal/users"
)

func (s *Server) profile(c *fiber.Ctx) error {
	u, err := s.deps.Users.Profile(c.Context(), callerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"user": u})
}

func (s *Server) userByID(c *fiber.Ctx) error {
	u, err := s.deps.Users.Profile(c.Context(), c.Params("userId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"user": u})
}

func (s *Server) userPresence(c *fiber.Ctx) error {
	snap, err := s.deps.Presence.Presence(c.Context(), c.Params("userId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"presence": snap})
}

func (s *Server) baseInfo(c *fiber.Ctx) error {
	u, err := s.deps.Users.Profile(c.Context(), callerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"user": fiber.Map{
		"id":         u.ID,
		"nickname":   u.Nickname,
		"avatar_url": u.AvatarURL,
		"role":       u.Role,
	}})
}

func (s *Server) role(c *fiber.Ctx) error {
	u, err := s.deps.Users.Profile(c.Context(), callerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"role": u.Role})
}

func (s *Server) updateProfile(c *fiber.Ctx) error {
	var in users.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, apperrors.ErrInvalidPayload)
	}
	u, err := s.deps.Users.Update(c.Context(), callerID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"user": u})
}

func (s *Server) boostersByGame(c *fiber.Ctx) error {
	boosters, err := s.deps.Users.BoostersByGame(c.Context(), c.Params("gameId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"boosters": boosters})
}
