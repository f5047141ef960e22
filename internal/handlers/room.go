package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/thereayou/anonchat/internal/handlers/dto"
	"github.com/thereayou/anonchat/internal/middleware"
	"github.com/thereayou/anonchat/internal/models"
	"github.com/thereayou/anonchat/internal/services"
)

type RoomHandler struct {
	rooms *services.RoomService
}

func NewRoomHandler(rooms *services.RoomService) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// CreateRoom создает новую комнату, создатель сразу в ней
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	room, err := h.rooms.CreateRoom(c.Request.Context(), identity.ID, services.CreateRoomInput{
		Name:            req.Name,
		Description:     req.Description,
		IsPrivate:       req.IsPrivate,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.RoomResponse{Success: true, Room: roomInfo(room)})
}

// SearchRooms ищет комнаты по имени из ?name=
func (h *RoomHandler) SearchRooms(c *gin.Context) {
	rooms, err := h.rooms.Search(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RoomsResponse{
		Success: true,
		Rooms: lo.Map(rooms, func(room models.Room, _ int) dto.RoomInfo {
			return roomInfo(&room)
		}),
	})
}

// GetRoom получает информацию о конкретной комнате
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.rooms.GetRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RoomResponse{Success: true, Room: roomInfo(room)})
}

// JoinRoom добавляет пользователя в комнату
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	if _, err := h.rooms.Join(c.Request.Context(), c.Param("id"), identity.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Success: true})
}

// LeaveRoom закрывает участие пользователя в комнате
func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	if err := h.rooms.Leave(c.Request.Context(), c.Param("id"), identity.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Success: true})
}

// GetRoomMembers получает список активных участников
func (h *RoomHandler) GetRoomMembers(c *gin.Context) {
	members, err := h.rooms.Members(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MembersResponse{
		Success: true,
		Members: lo.Map(members, func(p models.Participation, _ int) dto.MemberInfo {
			return dto.MemberInfo{
				UserID:   p.IdentityID,
				Nickname: p.Identity.DisplayName,
				JoinedAt: p.JoinedAt,
			}
		}),
	})
}

func roomInfo(room *models.Room) dto.RoomInfo {
	return dto.RoomInfo{
		ID:              room.ID,
		Name:            room.Name,
		Description:     room.Description,
		IsPrivate:       room.IsPrivate,
		MaxParticipants: room.MaxParticipants,
		CreatedBy:       room.CreatedBy,
		CreatedAt:       room.CreatedAt,
	}
}
