package models

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a marketplace listing.
type Product struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	// PriceCents avoids floating point money.
	PriceCents int    `gorm:"not null" json:"price_cents"`
	Category   string `gorm:"index" json:"category"`
	Condition  string `json:"condition"`
	Campus     string `gorm:"index" json:"campus"`
	// Photo URLs are opaque references owned by the upload pipeline.
	PhotoURLs []string       `gorm:"serializer:json" json:"photo_urls"`
	Sold      bool           `gorm:"default:false" json:"sold"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
