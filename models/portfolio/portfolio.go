package portfolio

import (
	"time"

	"gorm.io/gorm"
)

// Portfolio связывает пользователя с публичным идентификатором.
// PublicID — непрозрачный uuid, по нему портфолио читают без авторизации.
// Резолвер никогда не пишет в черновик, доступ только на чтение.
type Portfolio struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"uniqueIndex;not null"`
	PublicID    string `json:"publicId" gorm:"type:uuid;uniqueIndex;not null"`
	IsPublished bool   `json:"isPublished" gorm:"default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// Feedback — отзыв о платформе от стажера
type Feedback struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   `json:"userId" gorm:"index;not null"`
	AuthorName string `json:"authorName"`
	Text       string `json:"text" gorm:"type:text;not null"`
	Rating     int    `json:"rating"`
	CreatedAt  time.Time
}
