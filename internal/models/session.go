package models

import "time"

// Session связывает bearer-токен с identity до ExpiresAt.
// После истечения строка остаётся как история.
type Session struct {
	ID         string    `gorm:"primaryKey;size:64"`
	IdentityID string    `gorm:"size:64;not null;index"`
	Token      string    `gorm:"uniqueIndex;not null"`
	ExpiresAt  time.Time `gorm:"not null"`
	CreatedAt  time.Time

	Identity Identity `gorm:"foreignKey:IdentityID"`
}

func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
