package models

import "time"

type User struct {
	ID             uint      `gorm:"primaryKey"`
	Email          string    `gorm:"uniqueIndex;not null"`
	DisplayName    string    `gorm:"not null;default:''"`
	PasswordHash   string    `gorm:"not null"`
	TelegramChatID int64     `gorm:"not null;default:0"`
	CreatedAt      time.Time `gorm:"not null"`
}
