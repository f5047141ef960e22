package database

import (
	"context"

	"github.com/thereayou/anonchat/internal/models"
	"gorm.io/gorm"
)

// CreateIdentityWithSession пишет identity и сессию одной транзакцией
func (d *Database) CreateIdentityWithSession(ctx context.Context, identity *models.Identity, session *models.Session) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(identity).Error; err != nil {
			return err
		}
		return tx.Omit("Identity").Create(session).Error
	})
}

func (d *Database) GetIdentity(ctx context.Context, id string) (*models.Identity, error) {
	var identity models.Identity
	if err := d.db.WithContext(ctx).First(&identity, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &identity, nil
}

func (d *Database) IdentityExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.Identity{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
