package models

import (
	"time"
)

// Follow is a directed edge: FollowerID follows FollowedID.
type Follow struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follows_pair" json:"follower_id"`
	FollowedID uint      `gorm:"not null;uniqueIndex:idx_follows_pair" json:"followed_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	Follower User `gorm:"foreignKey:FollowerID" json:"follower"`
	Followed User `gorm:"foreignKey:FollowedID" json:"followed"`
}
