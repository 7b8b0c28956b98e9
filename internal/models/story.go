package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoryTTL is how long a story stays visible after creation.
const StoryTTL = 24 * time.Hour

// Story is an image post visible for StoryTTL. Expired stories stay in the
// table and are filtered out at read time.
type Story struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ImageURL  string    `gorm:"type:text;not null" json:"imageUrl"`
	Caption   *string   `gorm:"type:text" json:"caption"`
	ViewCount int       `gorm:"not null;default:0" json:"viewCount"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expiresAt"`
}

// BeforeCreate assigns a UUID when the caller did not.
func (s *Story) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Active reports whether the story is still visible at now.
func (s *Story) Active(now time.Time) bool {
	return s.ExpiresAt.After(now)
}
