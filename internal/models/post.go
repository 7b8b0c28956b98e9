// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is the board a post or poll is filed under.
type Category string

// Supported categories.
const (
	CategoryConfession Category = "confession"
	CategoryCrush      Category = "crush"
	CategoryMeme       Category = "meme"
	CategoryRant       Category = "rant"
	CategoryCompliment Category = "compliment"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryConfession,
	CategoryCrush,
	CategoryMeme,
	CategoryRant,
	CategoryCompliment,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Post is an anonymous post. Upvotes, Downvotes and CommentCount are
// denormalized counters kept in step with the votes and comments tables.
type Post struct {
	ID           string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID       string     `gorm:"type:varchar(36);not null;index" json:"userId"`
	User         *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	Category     Category   `gorm:"type:varchar(20);not null;index" json:"category"`
	ImageURL     *string    `gorm:"type:text" json:"imageUrl"`
	VideoURL     *string    `gorm:"type:text" json:"videoUrl"`
	Upvotes      int        `gorm:"not null;default:0" json:"upvotes"`
	Downvotes    int        `gorm:"not null;default:0" json:"downvotes"`
	CommentCount int        `gorm:"not null;default:0" json:"commentCount"`
	CreatedAt    time.Time  `gorm:"not null;index" json:"createdAt"`
	ExpiresAt    *time.Time `gorm:"index" json:"expiresAt"`
	Comments     []Comment  `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Votes        []Vote     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate assigns a UUID when the caller did not.
func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Expired reports whether the post's TTL has passed at now. Posts without a TTL never expire.
func (p *Post) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && p.ExpiresAt.Before(now)
}

// Comment is a reply to a post.
type Comment struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	PostID    string    `gorm:"type:varchar(36);not null;index" json:"postId"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Upvotes   int       `gorm:"not null;default:0" json:"upvotes"`
	Downvotes int       `gorm:"not null;default:0" json:"downvotes"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	Votes     []Vote    `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate assigns a UUID when the caller did not.
func (c *Comment) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
