package models

import (
	"time"
)

// Favorite marks a place a user wants to come back to. One row per
// user and place; the place's favorite count is COUNT(*) over these rows.
type Favorite struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorites_user_place" json:"user_id"`
	PlaceID   uint      `gorm:"not null;uniqueIndex:idx_favorites_user_place" json:"place_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User  User  `gorm:"foreignKey:UserID" json:"user"`
	Place Place `gorm:"foreignKey:PlaceID" json:"place"`
}
