package database

import (
	"errors"
	"time"

	"github.com/thereayou/echochat/internal/models"
	"gorm.io/gorm"
)

func (d *Database) SaveUser(user *models.User) error {
	if err := d.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return err
	}
	return nil
}

func (d *Database) FindUserByUsername(username string) (*models.User, error) {
	user := models.User{}
	if err := d.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Users возвращает всех пользователей для списка контактов
func (d *Database) Users() ([]models.User, error) {
	var users []models.User
	err := d.db.
		Select("id", "username", "avatar_url").
		Order("username ASC").
		Find(&users).Error

	if err != nil {
		return nil, err
	}

	return users, nil
}

func (d *Database) UpdateLastSeen(username string) error {
	return d.db.Model(&models.User{}).Where("username = ?", username).Update("last_seen_at", time.Now()).Error
}
