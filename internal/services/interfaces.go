//go:generate go run go.uber.org/mock/mockgen -source=interfaces.go -destination=../mocks/mock_stores.go -package=mocks
package services

import (
	"context"
	"time"

	"github.com/thereayou/anonchat/internal/cache"
	"github.com/thereayou/anonchat/internal/models"
)

// SessionStore долговременное хранилище identity и сессий
type SessionStore interface {
	CreateIdentityWithSession(ctx context.Context, identity *models.Identity, session *models.Session) error
	FindSessionByToken(ctx context.Context, token string) (*models.Session, error)
	GetIdentity(ctx context.Context, id string) (*models.Identity, error)
	ListIdentitySessions(ctx context.Context, identityID string) ([]models.Session, error)
}

// SessionCache быстрый кеш сессий с TTL
type SessionCache interface {
	Put(ctx context.Context, token string, entry cache.SessionEntry, ttl time.Duration) error
	Get(ctx context.Context, token string) (*cache.SessionEntry, error)
	Delete(ctx context.Context, token string) error
}

type MessageStore interface {
	IdentityExists(ctx context.Context, id string) (bool, error)
	RoomExists(ctx context.Context, id string) (bool, error)
	AppendMessage(ctx context.Context, message *models.Message) error
	GetMessage(ctx context.Context, id string) (*models.Message, error)
	ListRoomMessages(ctx context.Context, roomID string, after *models.Message, limit int) ([]models.MessageView, error)
}

type RoomStore interface {
	CreateRoom(ctx context.Context, room *models.Room, creator *models.Participation) error
	GetRoom(ctx context.Context, id string) (*models.Room, error)
	FindRoomsByName(ctx context.Context, name string) ([]models.Room, error)
	JoinRoom(ctx context.Context, p *models.Participation) (*models.Participation, error)
	LeaveRoom(ctx context.Context, roomID, identityID string, at time.Time) error
	ActiveParticipants(ctx context.Context, roomID string) ([]models.Participation, error)
}
