package database

import (
	"context"

	"github.com/thereayou/anonchat/internal/models"
	"gorm.io/gorm"
)

// AppendMessage сохраняет сообщение и обновляет last_active_at автора
func (d *Database) AppendMessage(ctx context.Context, message *models.Message) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Identity", "Room").Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&models.Identity{}).
			Where("id = ?", message.IdentityID).
			Update("last_active_at", message.CreatedAt).Error
	})
}

func (d *Database) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	var message models.Message
	if err := d.db.WithContext(ctx).First(&message, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// ListRoomMessages возвращает сообщения комнаты по возрастанию (created_at, id).
// after != nil отдаёт только сообщения строго после курсора, limit <= 0 без ограничения.
func (d *Database) ListRoomMessages(ctx context.Context, roomID string, after *models.Message, limit int) ([]models.MessageView, error) {
	query := d.db.WithContext(ctx).
		Table("messages AS m").
		Select("m.id, m.identity_id, i.display_name, m.content, m.created_at").
		Joins("LEFT JOIN identities AS i ON i.id = m.identity_id").
		Where("m.room_id = ?", roomID)

	if after != nil {
		query = query.Where(
			"(m.created_at > ? OR (m.created_at = ? AND m.id > ?))",
			after.CreatedAt, after.CreatedAt, after.ID,
		)
	}

	query = query.Order("m.created_at ASC").Order("m.id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	views := make([]models.MessageView, 0)
	if err := query.Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}
