package database

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/echochat/internal/models"
	"gorm.io/gorm"
)

// Groups возвращает все созданные группы, отсортированные по имени
func (d *Database) Groups() ([]models.Group, error) {
	var groups []models.Group
	if err := d.db.Order("name ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// CreateGroup создает группу с уникальным именем
func (d *Database) CreateGroup(name string) (*models.Group, error) {
	group := &models.Group{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}

	if err := d.db.Create(group).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrGroupExists
		}
		return nil, err
	}

	return group, nil
}
