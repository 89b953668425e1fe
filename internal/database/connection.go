package database

import (
	"errors"

	"github.com/thereayou/echochat/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func (d *Database) Connect(dsn string) error {
	if dsn == "" {
		return errors.New("database DSN is not set")
	}

	// TranslateError нужен, чтобы конфликт первичного ключа приходил
	// как gorm.ErrDuplicatedKey независимо от драйвера
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		return err
	}

	d.db = db

	return nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Group{}, &models.Message{})
}
