package database

import "gorm.io/gorm"

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// Migrate создает схему для всех моделей
func (d *Database) Migrate() error {
	return migrate(d.db)
}
