package database

import (
	"context"

	"github.com/thereayou/anonchat/internal/models"
	"gorm.io/gorm"
)

// CreateRoom создаёт комнату и сразу добавляет создателя
func (d *Database) CreateRoom(ctx context.Context, room *models.Room, creator *models.Participation) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		if creator == nil {
			return nil
		}
		return tx.Omit("Identity", "Room").Create(creator).Error
	})
}

func (d *Database) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	if err := d.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (d *Database) RoomExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.Room{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (d *Database) FindRoomsByName(ctx context.Context, name string) ([]models.Room, error) {
	var rooms []models.Room
	err := d.db.WithContext(ctx).
		Where("name = ?", name).
		Order("created_at ASC").
		Find(&rooms).Error
	return rooms, err
}
