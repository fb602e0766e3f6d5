package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation is a direct message thread between a buyer and a seller,
// optionally anchored to a product listing.
type Conversation struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProductID *uint          `gorm:"index" json:"product_id,omitempty"`
	Product   *Product       `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	BuyerID   uint           `gorm:"not null;index:idx_conv_pair" json:"buyer_id"`
	SellerID  uint           `gorm:"not null;index:idx_conv_pair" json:"seller_id"`
	Buyer     User           `gorm:"foreignKey:BuyerID" json:"buyer"`
	Seller    User           `gorm:"foreignKey:SellerID" json:"seller"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Message is a single message inside a conversation.
type Message struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ConversationID uint           `gorm:"not null;index" json:"conversation_id"`
	SenderID       uint           `gorm:"not null" json:"sender_id"`
	Sender         User           `gorm:"foreignKey:SenderID" json:"sender"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	ReadAt         *time.Time     `json:"read_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
