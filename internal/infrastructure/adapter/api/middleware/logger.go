package middleware

import (
	"time"

	coreport "github.com/abdelrahman-aldesoky/bank-server/internal/domain/port/core"
	"github.com/gin-gonic/gin"
)

// Logger middleware logs incoming ops requests and their responses
func Logger(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		logger.Info("Ops request processed", map[string]any{
			"method":     method,
			"path":       path,
			"status":     c.Writer.Status(),
			"latency_ms": latency.Milliseconds(),
			"ip":         c.ClientIP(),
		})
	}
}

// Recovery middleware turns panics in ops handlers into 500 responses
func Recovery(logger coreport.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("Panic in ops handler", map[string]any{
			"path":  c.Request.URL.Path,
			"panic": recovered,
		})
		c.AbortWithStatusJSON(500, gin.H{"error": "internal server error"})
	})
}
