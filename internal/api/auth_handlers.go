package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/erfrost/playreal-backend/internal/apperrors"
	"github.com/erfrost/playreal-backend/internal/auth"
)

func (s *Server) signUp(c *fiber.Ctx) error {
	var in auth.SignUpInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, apperrors.ErrInvalidPayload)
	}
	res, err := s.deps.Auth.SignUp(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(res)
}

func (s *Server) signIn(c *fiber.Ctx) error {
	var in auth.SignInInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, apperrors.ErrInvalidPayload)
	}
	res, err := s.deps.Auth.SignIn(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(res)
}

func (s *Server) refresh(c *fiber.Ctx) error {
	var in struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, apperrors.ErrInvalidPayload)
	}
	res, err := s.deps.Auth.Refresh(c.Context(), in.RefreshToken)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(res)
}

func (s *Server) logout(c *fiber.Ctx) error {
	if err := s.deps.Auth.Logout(c.Context(), callerID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
