package server

import (
	"quadside/internal/models"
	"quadside/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateConversation handles POST /api/conversations. The caller is the
// buyer; the seller is resolved from the product when one is given.
func (s *Server) CreateConversation(c *fiber.Ctx) error {
	var req struct {
		SellerID  uint  `json:"seller_id"`
		ProductID *uint `json:"product_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	conversation, err := s.messageService.StartConversation(c.Context(), service.StartConversationInput{
		BuyerID:   currentUserID(c),
		SellerID:  req.SellerID,
		ProductID: req.ProductID,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(conversation)
}

// GetConversations handles GET /api/conversations
func (s *Server) GetConversations(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	conversations, err := s.messageService.ListConversations(c.Context(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"conversations": conversations})
}

// GetMessages handles GET /api/conversations/:id/messages. Fetching messages
// marks the other party's messages as read.
func (s *Server) GetMessages(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)

	messages, err := s.messageService.ListMessages(c.Context(), currentUserID(c), id, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

// SendMessage handles POST /api/conversations/:id/messages
func (s *Server) SendMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.messageService.SendMessage(c.Context(), service.SendMessageInput{
		SenderID:       currentUserID(c),
		ConversationID: id,
		Content:        req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}
