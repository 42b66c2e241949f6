package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	coreport "github.com/mkorolev/ledger-service/internal/domain/port/core"
)

// Logger middleware logs incoming requests and their responses
func Logger(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method
		ip := c.ClientIP()

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		logger.Info("Request processed", map[string]any{
			"method":     method,
			"path":       path,
			"status":     statusCode,
			"latency_ms": latency.Milliseconds(),
			"ip":         ip,
			"request_id": c.GetHeader("X-Request-ID"),
			"errors":     c.Errors.Errors(),
		})
	}
}
