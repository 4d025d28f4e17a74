package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alert-rca/backend/internal/service"
)

// writeServiceError - 서비스 sentinel 에러를 HTTP 상태 코드로 변환
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrEmptyGroup):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRCAInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
