package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an anonymous account bound to a device. DeviceID holds a keyed
// digest of the device identifier, never the raw value.
type User struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	DeviceID  string    `gorm:"type:varchar(128);not null;uniqueIndex" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

// BeforeCreate assigns a UUID when the caller did not.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
