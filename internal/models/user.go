package models

import "time"

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"type:varchar(64);uniqueIndex;not null"`
	Email        *string   `json:"email,omitempty" gorm:"type:varchar(255)"`
	IsAdmin      bool      `json:"isAdmin" gorm:"not null;default:false"`
	PasswordHash string    `json:"-" gorm:"type:text;not null"`
	APIToken     *string   `json:"apiToken,omitempty" gorm:"type:text;uniqueIndex"`
	CreatedAt    time.Time `json:"createdAt"`
	Files        []File    `json:"-" gorm:"foreignKey:UploadedBy"`
}
