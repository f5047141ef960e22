package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = gorm.ErrRecordNotFound
	ErrRoomFull = errors.New("room is full")
)

type Database struct {
	db *gorm.DB
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping проверяет доступность БД
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
