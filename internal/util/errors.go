package util

import (
	"errors"
	"net/http"

	"onboarding_backend/internal/progression"
	"onboarding_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError 把进度引擎的错误映射为 HTTP 响应
func RespondError(c *gin.Context, err error) {
	var locked *progression.LockedError
	switch {
	case errors.As(err, &locked):
		ErrorWithData(c, http.StatusForbidden, err.Error(), gin.H{
			"moduleId":         locked.ModuleID,
			"redirectModuleId": locked.RedirectModuleID,
		})
	case errors.Is(err, progression.ErrInvalidInput):
		BadRequest(c, err.Error())
	case errors.Is(err, progression.ErrNotFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, progression.ErrPersistence):
		logger.Log.Warn("persistence failure", zap.String("path", c.FullPath()), zap.Error(err))
		Error(c, http.StatusServiceUnavailable, "progress could not be saved, please retry")
	default:
		LogInternalError(c, err)
	}
}
