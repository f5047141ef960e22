package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/thereayou/anonchat/internal/apperrors"
	"github.com/thereayou/anonchat/internal/database"
	"github.com/thereayou/anonchat/internal/models"
)

const (
	DefaultMaxContentLength = 2000
	DefaultListMaxLimit     = 200
)

type MessageConfig struct {
	MaxContentLength int
	ListMaxLimit     int
}

// Page параметры выборки. Нулевое значение отдаёт всю комнату.
type Page struct {
	After string
	Limit int
}

type MessageService struct {
	store MessageStore
	log   *slog.Logger
	cfg   MessageConfig
	now   func() time.Time
}

func NewMessageService(store MessageStore, log *slog.Logger, cfg MessageConfig) *MessageService {
	if cfg.MaxContentLength <= 0 {
		cfg.MaxContentLength = DefaultMaxContentLength
	}
	if cfg.ListMaxLimit <= 0 {
		cfg.ListMaxLimit = DefaultListMaxLimit
	}
	return &MessageService{
		store: store,
		log:   log,
		cfg:   cfg,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Append добавляет текстовое сообщение в комнату. Повторов при ошибке нет.
func (s *MessageService) Append(ctx context.Context, identityID, roomID, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.Validation("content is required")
	}
	if utf8.RuneCountInString(content) > s.cfg.MaxContentLength {
		return nil, apperrors.Validation(fmt.Sprintf("content exceeds %d characters", s.cfg.MaxContentLength))
	}
	if identityID == "" {
		return nil, apperrors.Validation("user id is required")
	}
	if roomID == "" {
		return nil, apperrors.Validation("room id is required")
	}

	exists, err := s.store.IdentityExists(ctx, identityID)
	if err != nil {
		return nil, apperrors.Persistence("failed to send message", err)
	}
	if !exists {
		return nil, apperrors.Validation("unknown user")
	}

	exists, err = s.store.RoomExists(ctx, roomID)
	if err != nil {
		return nil, apperrors.Persistence("failed to send message", err)
	}
	if !exists {
		return nil, apperrors.Validation("unknown room")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Persistence("failed to send message", err)
	}

	message := &models.Message{
		ID:         id.String(),
		RoomID:     roomID,
		IdentityID: identityID,
		Content:    content,
		Kind:       models.KindText,
		CreatedAt:  s.now(),
	}
	if err := s.store.AppendMessage(ctx, message); err != nil {
		s.log.Error("send message failed", "room_id", roomID, "identity_id", identityID, "error", err)
		return nil, apperrors.Persistence("failed to send message", err)
	}
	return message, nil
}

// List возвращает сообщения комнаты по возрастанию времени
func (s *MessageService) List(ctx context.Context, roomID string, page Page) ([]models.MessageView, error) {
	if roomID == "" {
		return nil, apperrors.Validation("room id is required")
	}
	if page.Limit < 0 {
		return nil, apperrors.Validation("limit must not be negative")
	}

	limit := page.Limit
	if limit > s.cfg.ListMaxLimit {
		limit = s.cfg.ListMaxLimit
	}
	if page.After != "" && limit == 0 {
		limit = s.cfg.ListMaxLimit
	}

	var after *models.Message
	if page.After != "" {
		cursor, err := s.store.GetMessage(ctx, page.After)
		if errors.Is(err, database.ErrNotFound) || (err == nil && cursor.RoomID != roomID) {
			return nil, apperrors.Validation("unknown cursor")
		}
		if err != nil {
			return nil, apperrors.Persistence("failed to fetch messages", err)
		}
		after = cursor
	}

	views, err := s.store.ListRoomMessages(ctx, roomID, after, limit)
	if err != nil {
		s.log.Error("fetch messages failed", "room_id", roomID, "error", err)
		return nil, apperrors.Persistence("failed to fetch messages", err)
	}
	return views, nil
}
