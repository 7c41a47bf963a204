package models

import "time"

// Follow is a directed edge: FollowerID follows FollowedID.
// The ordered pair is unique. Edges are hard-deleted so that an
// unfollow/refollow cycle never trips the unique index.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follower_followed" json:"follower_id"`
	FollowedID uint      `gorm:"not null;uniqueIndex:idx_follower_followed" json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`

	Follower User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Followed User `gorm:"foreignKey:FollowedID" json:"followed,omitempty"`
}
