package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/anonchat/internal/handlers/dto"
	"github.com/thereayou/anonchat/internal/middleware"
	"github.com/thereayou/anonchat/internal/services"
)

type AuthHandler struct {
	sessions *services.SessionService
}

func NewAuthHandler(sessions *services.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// AnonymousLogin создаёт анонимного пользователя и выдаёт токен сессии
func (h *AuthHandler) AnonymousLogin(c *gin.Context) {
	var req dto.AnonymousLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "invalid request body")
		return
	}

	res, err := h.sessions.CreateAnonymousSession(c.Request.Context(), req.Nickname)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AnonymousLoginResponse{
		Success: true,
		User: dto.UserInfo{
			ID:          res.Identity.ID,
			Nickname:    res.Identity.DisplayName,
			IsAnonymous: res.Identity.IsAnonymous,
		},
		Session: dto.SessionInfo{
			Token:     res.Token,
			ExpiresAt: res.ExpiresAt,
		},
	})
}

// Verify отдаёт identity токена; сама проверка в AuthMiddleware
func (h *AuthHandler) Verify(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	c.JSON(http.StatusOK, dto.VerifyResponse{
		Success: true,
		User:    userInfo(identity),
	})
}

func userInfo(identity *services.IdentitySummary) dto.UserInfo {
	return dto.UserInfo{
		ID:          identity.ID,
		Nickname:    identity.DisplayName,
		IsAnonymous: identity.IsAnonymous,
	}
}
