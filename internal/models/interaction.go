package models

import "time"

// ContentType discriminates which table a ContentRef points at.
type ContentType string

const (
	ContentTypePost ContentType = "post"
	ContentTypeReel ContentType = "reel"
)

// InteractionKind is one of the toggleable interaction sets on a content item.
type InteractionKind string

const (
	InteractionLike   InteractionKind = "like"
	InteractionSave   InteractionKind = "save"
	InteractionRepost InteractionKind = "repost"
)

// Interaction is one user's membership in an interaction set (like, save or
// repost) on a post or reel. The composite unique index enforces set
// semantics: at most one row per user per set per item.
type Interaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;uniqueIndex:idx_user_content_kind" json:"user_id"`
	ContentType ContentType     `gorm:"not null;uniqueIndex:idx_user_content_kind" json:"content_type"`
	ContentID   uint            `gorm:"not null;uniqueIndex:idx_user_content_kind;index" json:"content_id"`
	Kind        InteractionKind `gorm:"not null;uniqueIndex:idx_user_content_kind" json:"kind"`
	CreatedAt   time.Time       `json:"created_at"`
}
