package database

import "quadside/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Product{},
		&models.Post{},
		&models.Reel{},
		&models.Comment{},
		&models.Interaction{},
		&models.Conversation{},
		&models.Message{},
	}
}
