package models

import "time"

type MessageKind string

const (
	KindText  MessageKind = "text"
	KindImage MessageKind = "image"
	KindFile  MessageKind = "file"
)

// Message неизменяемо после записи. ID это UUIDv7, поэтому сортировка
// по (CreatedAt, ID) сохраняет порядок вставки при совпадении времени.
type Message struct {
	ID         string      `gorm:"primaryKey;size:64"`
	RoomID     string      `gorm:"size:64;not null;index:idx_messages_room_created,priority:1"`
	IdentityID string      `gorm:"size:64;not null;index"`
	Content    string      `gorm:"type:text;not null"`
	Kind       MessageKind `gorm:"size:16;not null;default:'text'"`
	CreatedAt  time.Time   `gorm:"not null;index:idx_messages_room_created,priority:2"`

	// Связи
	Identity Identity `gorm:"foreignKey:IdentityID"`
	Room     Room     `gorm:"foreignKey:RoomID"`
}

// MessageView сообщение вместе с текущим именем автора
type MessageView struct {
	ID          string
	IdentityID  string
	DisplayName string
	Content     string
	CreatedAt   time.Time
}
