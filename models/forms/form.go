package forms

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Form — строка таблицы forms: черновик одного пользователя.
// Уникальный индекс по user_id гарантирует ровно один черновик на пользователя.
type Form struct {
	ID             uint           `gorm:"primaryKey"`
	UserID         uint           `gorm:"uniqueIndex;not null"`
	FormData       datatypes.JSON `gorm:"type:jsonb"` // сериализованный Draft
	CurrentStep    int            `gorm:"default:1"`
	MaxStepReached int            `gorm:"default:1"`
	IsCompleted    bool           `gorm:"default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}
