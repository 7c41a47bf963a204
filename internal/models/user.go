// Package models contains data structures for the application's domain models.
package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DefaultImageURL is used for accounts that signed up without a profile image.
const DefaultImageURL = "/static/images/default-pic.png"

// User represents an account in the Warbler application.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Username       string         `gorm:"unique;not null" json:"username"`
	Email          string         `gorm:"unique;not null" json:"email"`
	Password       string         `gorm:"not null" json:"-"`
	ImageURL       string         `json:"image_url"`
	HeaderImageURL string         `json:"header_image_url"`
	Bio            string         `json:"bio"`
	Location       string         `json:"location"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Messages       []Message      `gorm:"foreignKey:UserID" json:"messages,omitempty"`
}

// Handle returns the user's public @-handle.
func (u *User) Handle() string {
	return "@" + u.Username
}

func (u *User) String() string {
	return fmt.Sprintf("<User #%d: %s, %s>", u.ID, u.Username, u.Email)
}
