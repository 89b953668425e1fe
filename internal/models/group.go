package models

import (
	"github.com/google/uuid"
	"time"
)

// Group это созданная пользователями комната. Комната по умолчанию
// ("general") существует неявно и в справочнике не хранится.
type Group struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
