package database

import (
	"context"

	"github.com/thereayou/anonchat/internal/models"
)

// FindSessionByToken ищет сессию по токену вместе с identity
func (d *Database) FindSessionByToken(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	err := d.db.WithContext(ctx).
		Preload("Identity").
		Where("token = ?", token).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (d *Database) ListIdentitySessions(ctx context.Context, identityID string) ([]models.Session, error) {
	var sessions []models.Session
	err := d.db.WithContext(ctx).
		Where("identity_id = ?", identityID).
		Order("created_at ASC").
		Find(&sessions).Error
	return sessions, err
}
