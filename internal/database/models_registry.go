package database

import "campusvibe/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Parents come before children so foreign keys resolve in order.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Vote{},
		&models.Story{},
		&models.Poll{},
		&models.PollOption{},
		&models.PollVote{},
	}
}
