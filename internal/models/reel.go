package models

import (
	"time"

	"gorm.io/gorm"
)

// Reel represents a short video published by a user. ShareSlug is an opaque
// public identifier used in share links so numeric IDs are not exposed.
type Reel struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	ShareSlug    string `gorm:"uniqueIndex;not null" json:"share_slug"`
	Caption      string `gorm:"type:text" json:"caption"`
	VideoURL     string `gorm:"not null" json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	// DurationSeconds is set at upload time by the media pipeline.
	DurationSeconds float64        `json:"duration_seconds"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	User            User           `gorm:"foreignKey:UserID" json:"user"`
	Liked           bool           `gorm:"->" json:"liked"`
	Saved           bool           `gorm:"->" json:"saved"`
	Analytics       Analytics      `gorm:"embedded;embeddedPrefix:analytics_" json:"analytics"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
