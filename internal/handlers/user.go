package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/anonchat/internal/handlers/dto"
	"github.com/thereayou/anonchat/internal/middleware"
	"github.com/thereayou/anonchat/internal/services"
)

type UserHandler struct {
	sessions *services.SessionService
}

func NewUserHandler(sessions *services.SessionService) *UserHandler {
	return &UserHandler{sessions: sessions}
}

// GetMe возвращает информацию о текущем пользователе
func (h *UserHandler) GetMe(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	profile, err := h.sessions.Profile(c.Request.Context(), identity.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{
		Success: true,
		User: dto.UserProfile{
			UserInfo: dto.UserInfo{
				ID:          profile.Identity.ID,
				Nickname:    profile.Identity.DisplayName,
				IsAnonymous: profile.Identity.IsAnonymous,
			},
			CreatedAt:      profile.Identity.CreatedAt,
			LastActiveAt:   profile.Identity.LastActiveAt,
			ActiveSessions: profile.ActiveSessions,
		},
	})
}

// GetUser возвращает публичную информацию о пользователе по ID
func (h *UserHandler) GetUser(c *gin.Context) {
	identity, err := h.sessions.GetIdentity(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{
		Success: true,
		User: dto.UserProfile{
			UserInfo: dto.UserInfo{
				ID:          identity.ID,
				Nickname:    identity.DisplayName,
				IsAnonymous: identity.IsAnonymous,
			},
			LastActiveAt: identity.LastActiveAt,
		},
	})
}
