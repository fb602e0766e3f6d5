package repository

import (
	"context"
	"errors"
	"time"

	"quadside/internal/models"

	"gorm.io/gorm"
)

// MessageRepository persists buyer/seller conversations and their messages.
type MessageRepository interface {
	GetOrCreateConversation(ctx context.Context, buyerID, sellerID uint, productID *uint) (*models.Conversation, error)
	GetConversation(ctx context.Context, id uint) (*models.Conversation, error)
	ListConversations(ctx context.Context, userID uint, limit, offset int) ([]*models.Conversation, error)
	CreateMessage(ctx context.Context, message *models.Message) error
	ListMessages(ctx context.Context, conversationID uint, limit, offset int) ([]*models.Message, error)
	MarkRead(ctx context.Context, conversationID, readerID uint) error
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository returns a new MessageRepository implementation.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) GetOrCreateConversation(ctx context.Context, buyerID, sellerID uint, productID *uint) (*models.Conversation, error) {
	var conv models.Conversation
	q := r.db.WithContext(ctx).Where("buyer_id = ? AND seller_id = ?", buyerID, sellerID)
	if productID != nil {
		q = q.Where("product_id = ?", *productID)
	} else {
		q = q.Where("product_id IS NULL")
	}

	err := q.First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	conv = models.Conversation{BuyerID: buyerID, SellerID: sellerID, ProductID: productID}
	if err := r.db.WithContext(ctx).Create(&conv).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &conv, nil
}

func (r *messageRepository) GetConversation(ctx context.Context, id uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.WithContext(ctx).
		Preload("Buyer").
		Preload("Seller").
		Preload("Product").
		First(&conv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Conversation", id)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &conv, nil
}

func (r *messageRepository) ListConversations(ctx context.Context, userID uint, limit, offset int) ([]*models.Conversation, error) {
	var convs []*models.Conversation
	err := r.db.WithContext(ctx).
		Preload("Buyer").
		Preload("Seller").
		Preload("Product").
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&convs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return convs, nil
}

func (r *messageRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		// Bump the conversation so it sorts to the top of the inbox.
		return tx.Model(&models.Conversation{}).
			Where("id = ?", message.ConversationID).
			Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *messageRepository) ListMessages(ctx context.Context, conversationID uint, limit, offset int) ([]*models.Message, error) {
	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, conversationID, readerID uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, readerID).
		Update("read_at", time.Now()).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
