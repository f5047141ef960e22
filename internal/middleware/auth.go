package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/anonchat/internal/apperrors"
	"github.com/thereayou/anonchat/internal/services"
	"github.com/thereayou/anonchat/pkg/auth"
)

const IdentityKey = "identity"

type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*services.IdentitySummary, error)
}

// AuthMiddleware проверяет Bearer токен через сессию и кладёт identity в контекст
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// без заголовка токен пустой, VerifyToken ответит "no token"
		token, _ := auth.ExtractTokenFromHeader(c.Request)

		identity, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			status := http.StatusUnauthorized
			if apperrors.KindOf(err) != apperrors.KindUnauthorized {
				status = http.StatusInternalServerError
			}
			c.AbortWithStatusJSON(status, gin.H{"success": false, "error": apperrors.MessageOf(err)})
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// CurrentIdentity возвращает identity, установленную AuthMiddleware
func CurrentIdentity(c *gin.Context) *services.IdentitySummary {
	return c.MustGet(IdentityKey).(*services.IdentitySummary)
}
