package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/erfrost/playreal-backend/internal/apperrors"
	"github.com/erfrost/playreal-backend/internal/offers"
)

func (s *Server) createOffers(c *fiber.Ctx) error {
	var in struct {
		Services []offers.CreateInput `json:"services"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, apperrors.ErrInvalidPayload)
	}
	created, err := s.deps.Offers.Create(c.Context(), callerID(c), in.Services)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"offers": created})
}

func (s *Server) pendingOffers(c *fiber.Ctx) error {
	var in struct {
		SelectedGames []string `json:"selectedGames"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, apperrors.ErrInvalidPayload)
	}
	list, err := s.deps.Offers.ListPending(c.Context(), callerID(c), in.SelectedGames)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"offers": list})
}

func (s *Server) personalOffers(c *fiber.Ctx) error {
	list, err := s.deps.Offers.ListPersonal(c.Context(), callerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"offers": list})
}

func (s *Server) acceptOffer(c *fiber.Ctx) error {
	var in struct {
		OfferID string `json:"offerId"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, apperrors.ErrInvalidPayload)
	}
	res, err := s.deps.Offers.Accept(c.Context(), callerID(c), in.OfferID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(res)
}
