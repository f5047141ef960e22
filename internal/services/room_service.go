package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/anonchat/internal/apperrors"
	"github.com/thereayou/anonchat/internal/database"
	"github.com/thereayou/anonchat/internal/models"
)

type CreateRoomInput struct {
	Name            string
	Description     *string
	IsPrivate       bool
	MaxParticipants int
}

type RoomService struct {
	store RoomStore
	log   *slog.Logger
	now   func() time.Time
}

func NewRoomService(store RoomStore, log *slog.Logger) *RoomService {
	return &RoomService{
		store: store,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// CreateRoom создаёт комнату; создатель становится первым участником
func (s *RoomService) CreateRoom(ctx context.Context, creatorID string, in CreateRoomInput) (*models.Room, error) {
	if err := validate.Var(in.Name, roomNameRule); err != nil {
		return nil, apperrors.Validation("room name must be 1-50 characters")
	}
	if err := validate.Var(in.MaxParticipants, roomLimitRule); err != nil {
		return nil, apperrors.Validation("max participants must be between 0 and 1000")
	}

	maxParticipants := in.MaxParticipants
	if maxParticipants == 0 {
		maxParticipants = models.DefaultMaxParticipants
	}

	now := s.now()
	room := &models.Room{
		ID:              uuid.NewString(),
		Name:            in.Name,
		Description:     in.Description,
		IsPrivate:       in.IsPrivate,
		MaxParticipants: maxParticipants,
		CreatedBy:       &creatorID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	creator := &models.Participation{
		ID:         uuid.NewString(),
		RoomID:     room.ID,
		IdentityID: creatorID,
		JoinedAt:   now,
	}

	if err := s.store.CreateRoom(ctx, room, creator); err != nil {
		s.log.Error("create room failed", "creator_id", creatorID, "error", err)
		return nil, apperrors.Persistence("failed to create room", err)
	}
	return room, nil
}

func (s *RoomService) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.store.GetRoom(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperrors.NotFound("room not found")
	}
	if err != nil {
		return nil, apperrors.Persistence("failed to get room", err)
	}
	return room, nil
}

// Join открывает интервал участия, повторный вход не создаёт второй интервал
func (s *RoomService) Join(ctx context.Context, roomID, identityID string) (*models.Participation, error) {
	p, err := s.store.JoinRoom(ctx, &models.Participation{
		ID:         uuid.NewString(),
		RoomID:     roomID,
		IdentityID: identityID,
		JoinedAt:   s.now(),
	})
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, database.ErrNotFound):
		return nil, apperrors.NotFound("room not found")
	case errors.Is(err, database.ErrRoomFull):
		return nil, apperrors.Validation("room is full")
	default:
		s.log.Error("join room failed", "room_id", roomID, "identity_id", identityID, "error", err)
		return nil, apperrors.Persistence("failed to join room", err)
	}
}

func (s *RoomService) Leave(ctx context.Context, roomID, identityID string) error {
	err := s.store.LeaveRoom(ctx, roomID, identityID, s.now())
	if errors.Is(err, database.ErrNotFound) {
		return apperrors.NotFound("not a member of this room")
	}
	if err != nil {
		return apperrors.Persistence("failed to leave room", err)
	}
	return nil
}

// Search ищет комнаты по точному имени
func (s *RoomService) Search(ctx context.Context, name string) ([]models.Room, error) {
	if err := validate.Var(name, roomNameRule); err != nil {
		return nil, apperrors.Validation("room name must be 1-50 characters")
	}
	rooms, err := s.store.FindRoomsByName(ctx, name)
	if err != nil {
		return nil, apperrors.Persistence("failed to search rooms", err)
	}
	return rooms, nil
}

func (s *RoomService) Members(ctx context.Context, roomID string) ([]models.Participation, error) {
	if _, err := s.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}
	members, err := s.store.ActiveParticipants(ctx, roomID)
	if err != nil {
		return nil, apperrors.Persistence("failed to get members", err)
	}
	return members, nil
}
