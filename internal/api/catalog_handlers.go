package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/erfrost/playreal-backend/internal/apperrors"
	"github.com/erfrost/playreal-backend/internal/catalog"
)

func (s *Server) listGames(c *fiber.Ctx) error {
	games, err := s.deps.Catalog.Games(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"games": games})
}

func (s *Server) servicesByGame(c *fiber.Ctx) error {
	list, err := s.deps.Catalog.ServicesByGame(c.Context(), c.Params("gameId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"services": list})
}

func (s *Server) serviceByID(c *fiber.Ctx) error {
	svc, err := s.deps.Catalog.ServiceByID(c.Context(), c.Params("serviceId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"service": svc})
}

func (s *Server) cartItemPrice(c *fiber.Ctx) error {
	var in struct {
		Service catalog.CartItem `json:"service"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, apperrors.ErrInvalidPayload)
	}
	q, err := s.deps.Catalog.QuoteCartItem(c.Context(), in.Service)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"price": q.Price, "title": q.Title})
}
