package models

import "time"

// GlobalRoomID комната, создаваемая при миграции
const GlobalRoomID = "global"

const DefaultMaxParticipants = 50

type Room struct {
	ID              string `gorm:"primaryKey;size:64"`
	Name            string `gorm:"size:50;not null;index"`
	Description     *string
	IsPrivate       bool    `gorm:"not null"`
	MaxParticipants int     `gorm:"not null"`
	CreatedBy       *string `gorm:"size:64"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Participation один интервал участия. LeftAt == nil пока интервал активен;
// частичный уникальный индекс допускает один активный интервал на (room, identity).
type Participation struct {
	ID         string     `gorm:"primaryKey;size:64"`
	RoomID     string     `gorm:"size:64;not null;index;uniqueIndex:idx_participations_active,where:left_at IS NULL"`
	IdentityID string     `gorm:"size:64;not null;index;uniqueIndex:idx_participations_active,where:left_at IS NULL"`
	JoinedAt   time.Time  `gorm:"not null"`
	LeftAt     *time.Time

	Identity Identity `gorm:"foreignKey:IdentityID"`
	Room     Room     `gorm:"foreignKey:RoomID"`
}
