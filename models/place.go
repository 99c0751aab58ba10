package models

import (
	"time"
)

// Place is a photo spot. Rating is derived from the ratings of the
// place's posts and recomputed whenever a post changes; it stays nil
// until the first rated post arrives. FavoriteCount is never stored,
// it is counted from the favorites table on every read.
type Place struct {
	ID        uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string     `json:"name" gorm:"not null;index"`
	Latitude  float64    `json:"latitude" gorm:"not null;type:decimal(10,8);index"`
	Longitude float64    `json:"longitude" gorm:"not null;type:decimal(11,8);index"`
	Rating    *float64   `json:"rating" gorm:"type:decimal(3,2)"`
	Posts     []Post     `json:"posts" gorm:"foreignKey:PlaceID;constraint:OnDelete:CASCADE"`
	Favorites []Favorite `json:"favorites" gorm:"foreignKey:PlaceID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Filled by radius queries, not persisted.
	Distance float64 `json:"distance,omitempty" gorm:"-"`
}
