package service

import (
	"context"
	"encoding/json"
	"strings"

	"quadside/internal/models"
	"quadside/internal/repository"
)

// UserNotifier pushes a notification payload to one user's channel.
type UserNotifier interface {
	PublishUser(ctx context.Context, userID uint, payload string) error
}

// MessageService manages buyer/seller direct messaging.
type MessageService struct {
	messageRepo repository.MessageRepository
	productRepo repository.ProductRepository
	notifier    UserNotifier
}

// StartConversationInput opens (or finds) a thread about a listing.
type StartConversationInput struct {
	BuyerID   uint
	SellerID  uint
	ProductID *uint
}

// SendMessageInput carries one outgoing message.
type SendMessageInput struct {
	SenderID       uint
	ConversationID uint
	Content        string
}

// NewMessageService creates a MessageService. notifier may be nil.
func NewMessageService(messageRepo repository.MessageRepository, productRepo repository.ProductRepository, notifier UserNotifier) *MessageService {
	return &MessageService{messageRepo: messageRepo, productRepo: productRepo, notifier: notifier}
}

func (s *MessageService) StartConversation(ctx context.Context, in StartConversationInput) (*models.Conversation, error) {
	sellerID := in.SellerID

	// When the thread is about a listing, the seller is always the listing
	// owner regardless of what the client sent.
	if in.ProductID != nil {
		product, err := s.productRepo.GetByID(ctx, *in.ProductID)
		if err != nil {
			return nil, err
		}
		sellerID = product.UserID
	}

	if sellerID == 0 {
		return nil, models.NewValidationError("seller_id or product_id is required")
	}
	if sellerID == in.BuyerID {
		return nil, models.NewValidationError("You cannot message yourself")
	}

	return s.messageRepo.GetOrCreateConversation(ctx, in.BuyerID, sellerID, in.ProductID)
}

func (s *MessageService) ListConversations(ctx context.Context, userID uint, limit, offset int) ([]*models.Conversation, error) {
	return s.messageRepo.ListConversations(ctx, userID, limit, offset)
}

func (s *MessageService) SendMessage(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	const maxMessageLen = 4000

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Message content is required")
	}
	if len(content) > maxMessageLen {
		return nil, models.NewValidationError("Message too long (max 4000 characters)")
	}

	conv, err := s.messageRepo.GetConversation(ctx, in.ConversationID)
	if err != nil {
		return nil, err
	}
	if conv.BuyerID != in.SenderID && conv.SellerID != in.SenderID {
		return nil, models.NewUnauthorizedError("You are not part of this conversation")
	}

	message := &models.Message{
		ConversationID: in.ConversationID,
		SenderID:       in.SenderID,
		Content:        content,
	}
	if err := s.messageRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		recipient := conv.BuyerID
		if in.SenderID == conv.BuyerID {
			recipient = conv.SellerID
		}
		payload, _ := json.Marshal(map[string]any{
			"type":            "message",
			"conversation_id": message.ConversationID,
			"message_id":      message.ID,
			"sender_id":       message.SenderID,
		})
		// Delivery is best-effort; a lost push never fails the send.
		_ = s.notifier.PublishUser(ctx, recipient, string(payload))
	}

	return message, nil
}

// ListMessages returns a conversation page and marks the other side's
// messages as read for the requester.
func (s *MessageService) ListMessages(ctx context.Context, userID, conversationID uint, limit, offset int) ([]*models.Message, error) {
	conv, err := s.messageRepo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.BuyerID != userID && conv.SellerID != userID {
		return nil, models.NewUnauthorizedError("You are not part of this conversation")
	}

	messages, err := s.messageRepo.ListMessages(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, err
	}

	if err := s.messageRepo.MarkRead(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	return messages, nil
}
