package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is an append-only comment on a post or reel. Insertion order is
// preserved by (created_at, id); edits and deletes are not exposed through
// the engagement surface.
type Comment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	ContentType ContentType    `gorm:"not null;index:idx_comment_content" json:"content_type"`
	ContentID   uint           `gorm:"not null;index:idx_comment_content" json:"content_id"`
	User        User           `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
