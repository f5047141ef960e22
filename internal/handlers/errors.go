package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/anonchat/internal/apperrors"
	"github.com/thereayou/anonchat/internal/handlers/dto"
)

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError единственное место, где ошибка домена превращается в HTTP ответ
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(apperrors.KindOf(err)), dto.ErrorResponse{
		Success: false,
		Error:   apperrors.MessageOf(err),
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: msg})
}
