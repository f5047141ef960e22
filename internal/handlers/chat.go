package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/thereayou/anonchat/internal/apperrors"
	"github.com/thereayou/anonchat/internal/handlers/dto"
	"github.com/thereayou/anonchat/internal/middleware"
	"github.com/thereayou/anonchat/internal/models"
	"github.com/thereayou/anonchat/internal/services"
)

type ChatHandler struct {
	messages *services.MessageService
}

func NewChatHandler(messages *services.MessageService) *ChatHandler {
	return &ChatHandler{messages: messages}
}

// Send сохраняет сообщение от имени владельца токена
func (h *ChatHandler) Send(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	// userId в теле остался для совместимости клиента и должен совпадать с токеном
	if req.UserID != "" && req.UserID != identity.ID {
		respondError(c, apperrors.Forbidden("user id does not match token"))
		return
	}

	message, err := h.messages.Append(c.Request.Context(), identity.ID, roomOrGlobal(req.RoomID), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SendMessageResponse{Success: true, ID: message.ID})
}

// List возвращает историю комнаты по возрастанию времени
func (h *ChatHandler) List(c *gin.Context) {
	var q dto.ListMessagesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid query")
		return
	}

	views, err := h.messages.List(c.Request.Context(), roomOrGlobal(q.RoomID), services.Page{
		After: q.After,
		Limit: q.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListMessagesResponse{
		Success: true,
		Messages: lo.Map(views, func(v models.MessageView, _ int) dto.MessageItem {
			return dto.MessageItem{
				ID:        v.ID,
				UserID:    v.IdentityID,
				Nickname:  v.DisplayName,
				Content:   v.Content,
				CreatedAt: v.CreatedAt,
			}
		}),
	})
}

func roomOrGlobal(roomID string) string {
	if roomID == "" {
		return models.GlobalRoomID
	}
	return roomID
}
