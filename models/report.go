package models

import (
	"time"
)

type PostReport struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Post      Post      `gorm:"foreignKey:PostID" json:"post"`
	Reason    string    `gorm:"type:text;not null" json:"reason"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type UserReport struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint      `gorm:"not null" json:"user_id"`
	User           User      `gorm:"foreignKey:UserID" json:"user"`
	ReportedUserID uint      `gorm:"not null;index" json:"reported_user_id"`
	ReportedUser   User      `gorm:"foreignKey:ReportedUserID" json:"reported_user"`
	Reason         string    `gorm:"type:text;not null" json:"reason"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}
