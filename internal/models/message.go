package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxMessageLength caps the text of a single message.
const MaxMessageLength = 140

// Message is a short text post owned by a user.
// Text and UserID are NOT NULL at the storage layer; a message without a
// body or an author is a constraint violation and never becomes visible.
type Message struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Text      string         `gorm:"not null" json:"text"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
