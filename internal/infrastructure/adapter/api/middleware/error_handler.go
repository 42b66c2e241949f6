package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/mkorolev/ledger-service/internal/domain/error"
	coreport "github.com/mkorolev/ledger-service/internal/domain/port/core"
	"github.com/mkorolev/ledger-service/internal/infrastructure/adapter/api/dto"
)

// ErrorHandler middleware recovers from panics and returns appropriate error responses
func ErrorHandler(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered in API request", map[string]any{
					"error":      err,
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
					"client_ip":  c.ClientIP(),
					"request_id": c.GetHeader("X-Request-ID"),
					"user_agent": c.Request.UserAgent(),
				})

				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Code:    domainerr.ErrorCode(domainerr.ErrInternalServer),
					Message: "Internal server error",
				})
			}
		}()

		c.Next()
	}
}
