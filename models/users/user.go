package users

import (
	"time"

	"gorm.io/gorm"

	"internfolio-backend/config"
)

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"unique;not null"`
	Password     string `json:"-"`
	AvatarURL    string `json:"avatarUrl"`
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Provider     string `json:"provider"` // local, google или github
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func GetUserByID(userID interface{}) (*User, error) {
	var user User
	result := config.DB.First(&user, userID)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}
