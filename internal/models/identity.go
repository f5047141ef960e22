package models

import "time"

// Identity анонимный пользователь. Не удаляется; LastActiveAt
// сдвигается при каждой отправке сообщения.
type Identity struct {
	ID           string `gorm:"primaryKey;size:64"`
	DisplayName  string `gorm:"size:20;not null"`
	IsAnonymous  bool   `gorm:"not null"`
	CreatedAt    time.Time
	LastActiveAt time.Time `gorm:"not null"`
}
