package models

import (
	"time"
)

type RefreshToken struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	User           User      `gorm:"foreignKey:UserID" json:"user"`
	Token          string    `gorm:"not null;uniqueIndex" json:"token"`
	ExpirationDate time.Time `gorm:"not null" json:"expiry"`
	CreatedAt      time.Time `json:"created_at"`
}
