package database

import (
	"context"
	"errors"
	"time"

	"github.com/thereayou/anonchat/internal/models"
	"gorm.io/gorm"
)

// JoinRoom открывает интервал участия. Если активный интервал уже есть,
// возвращает его без изменений.
func (d *Database) JoinRoom(ctx context.Context, p *models.Participation) (*models.Participation, error) {
	var result *models.Participation

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.First(&room, "id = ?", p.RoomID).Error; err != nil {
			return err
		}

		var active models.Participation
		err := tx.Where("room_id = ? AND identity_id = ? AND left_at IS NULL", p.RoomID, p.IdentityID).
			First(&active).Error
		if err == nil {
			result = &active
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var count int64
		if err := tx.Model(&models.Participation{}).
			Where("room_id = ? AND left_at IS NULL", p.RoomID).
			Count(&count).Error; err != nil {
			return err
		}
		if room.MaxParticipants > 0 && count >= int64(room.MaxParticipants) {
			return ErrRoomFull
		}

		if err := tx.Omit("Identity", "Room").Create(p).Error; err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// LeaveRoom закрывает активный интервал
func (d *Database) LeaveRoom(ctx context.Context, roomID, identityID string, at time.Time) error {
	res := d.db.WithContext(ctx).Model(&models.Participation{}).
		Where("room_id = ? AND identity_id = ? AND left_at IS NULL", roomID, identityID).
		Update("left_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ActiveParticipants возвращает активных участников комнаты
func (d *Database) ActiveParticipants(ctx context.Context, roomID string) ([]models.Participation, error) {
	var participants []models.Participation
	err := d.db.WithContext(ctx).
		Preload("Identity").
		Where("room_id = ? AND left_at IS NULL", roomID).
		Order("joined_at ASC").
		Find(&participants).Error
	return participants, err
}

func (d *Database) ParticipationHistory(ctx context.Context, roomID, identityID string) ([]models.Participation, error) {
	var history []models.Participation
	err := d.db.WithContext(ctx).
		Where("room_id = ? AND identity_id = ?", roomID, identityID).
		Order("joined_at ASC").
		Find(&history).Error
	return history, err
}
