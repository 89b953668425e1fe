package models

import (
	"time"
)

// Виды сообщений
const (
	KindText  = "text"
	KindImage = "image"
	KindAudio = "audio"
)

// Message хранит одно сообщение чата. ID приходит от клиента и
// уникален глобально; CreatedAt задаёт порядок в истории комнаты.
type Message struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Room         string    `gorm:"index;not null" json:"room"`
	Author       string    `gorm:"not null" json:"author"`
	AuthorAvatar string    `json:"authorPic"`
	Kind         string    `gorm:"default:'text'" json:"type"`
	Body         string    `gorm:"not null" json:"message"`
	SentAt       string    `json:"time"`
	Edited       bool      `gorm:"default:false" json:"isEdited"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HasAsset сообщает, ссылается ли сообщение на загруженный файл
func (m *Message) HasAsset() bool {
	return m.Kind == KindImage || m.Kind == KindAudio
}
