package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a social post in the Quadside feed.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	ImageURL string `json:"image_url"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`
	// Liked/Saved/Reposted indicate whether the current requesting user has
	// the corresponding interaction on this post (computed at query time).
	Liked     bool           `gorm:"->" json:"liked"`
	Saved     bool           `gorm:"->" json:"saved"`
	Reposted  bool           `gorm:"->" json:"reposted"`
	Analytics Analytics      `gorm:"embedded;embeddedPrefix:analytics_" json:"analytics"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
