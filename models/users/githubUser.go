package users

import (
	"time"

	"gorm.io/gorm"
)

// GithubUser хранит привязку GitHub-аккаунта: OAuth-токен провайдера
// одновременно служит bearer-токеном для запросов к GitHub API
type GithubUser struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   // Foreign Key к User
	User        User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	GithubID    int64  `gorm:"uniqueIndex"`
	Login       string `json:"login" gorm:"not null"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatar_url"`
	AccessToken string `json:"access_token"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}
