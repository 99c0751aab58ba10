package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Post is a geotagged photo attached to a place. PhotoSpotLatitude and
// PhotoSpotLongitude record where the camera stood, which can differ
// from the place's own coordinates. LikeCount is adjusted by exactly
// one on every like toggle and is never recounted from the likes table.
type Post struct {
	ID                 uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID             uint           `json:"user_id" gorm:"not null;index"`
	User               User           `json:"user" gorm:"foreignKey:UserID"`
	PlaceID            uint           `json:"place_id" gorm:"not null;index"`
	Place              Place          `json:"place" gorm:"foreignKey:PlaceID"`
	PhotoSpotLatitude  *float64       `json:"photo_spot_latitude" gorm:"type:decimal(10,8)"`
	PhotoSpotLongitude *float64       `json:"photo_spot_longitude" gorm:"type:decimal(11,8)"`
	PhotoImage         string         `json:"photo_image" gorm:"not null"`
	Description        string         `json:"description" gorm:"type:text"`
	Rating             *float64       `json:"rating" gorm:"type:decimal(2,1)"`
	Weather            string         `json:"weather" gorm:"type:varchar(100)"`
	Season             string         `json:"season" gorm:"type:varchar(100)"`
	Hashtags           pq.StringArray `json:"hashtags" gorm:"type:text[]"`
	LikeCount          int            `json:"like_count" gorm:"not null;default:0"`
	Comments           []Comment      `json:"comments" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Likes              []Like         `json:"likes" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}
