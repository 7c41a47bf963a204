package models

import "time"

// Like marks that a user liked a message.
// The (user, message) pair is unique. Like Follow, edges are hard-deleted.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_message" json:"user_id"`
	MessageID uint      `gorm:"not null;uniqueIndex:idx_user_message" json:"message_id"`
	CreatedAt time.Time `json:"created_at"`

	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Message Message `gorm:"foreignKey:MessageID" json:"message,omitempty"`
}
