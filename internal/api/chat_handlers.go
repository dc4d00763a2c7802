package api

import (
	"github.com/gofiber/fiber/v2"
)

func (s *Server) listChats(c *fiber.Ctx) error {
	chats, err := s.deps.Chat.ListChats(c.Context(), callerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"chats": chats})
}

func (s *Server) chatID(c *fiber.Ctx) error {
	id, err := s.deps.Chat.ChatIDWith(c.Context(), callerID(c), c.Query("boosterId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"chatId": id})
}

func (s *Server) chatMessages(c *fiber.Ctx) error {
	msgs, err := s.deps.Chat.Messages(c.Context(), callerID(c), c.Params("chatId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"messages": msgs})
}

func (s *Server) supportHistory(c *fiber.Ctx) error {
	msgs, err := s.deps.Support.History(c.Context(), callerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"messages": msgs})
}
