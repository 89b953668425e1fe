package database

import (
	"errors"

	"github.com/thereayou/echochat/internal/models"
	"gorm.io/gorm"
)

// SaveMessage сохраняет новое сообщение. Повторный id отклоняется
// уникальностью первичного ключа.
func (d *Database) SaveMessage(message *models.Message) error {
	if err := d.db.Create(message).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateID
		}
		return err
	}
	return nil
}

// RoomMessages возвращает историю комнаты, старые сообщения первыми
func (d *Database) RoomMessages(room string) ([]models.Message, error) {
	var messages []models.Message

	err := d.db.
		Where("room = ?", room).
		Order("created_at ASC").
		Find(&messages).Error

	if err != nil {
		return nil, err
	}

	return messages, nil
}

// UpdateMessageBody меняет текст сообщения и помечает его отредактированным.
// id, комната и автор не меняются.
func (d *Database) UpdateMessageBody(id, body string) error {
	res := d.db.
		Model(&models.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"body": body, "edited": true})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// DeleteMessage удаляет сообщение и возвращает удаленную запись,
// чтобы вызывающий мог почистить связанный файл
func (d *Database) DeleteMessage(id string) (*models.Message, error) {
	var message models.Message
	if err := d.db.First(&message, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	if err := d.db.Delete(&models.Message{}, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &message, nil
}
