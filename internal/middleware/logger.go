package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger logs every request, records handler errors and recovers
// from panics with a JSON 500.
func RequestLogger(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Errorw("panic recovered",
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"client_ip", c.ClientIP(),
					"user_id", c.GetInt64("user_id"),
					"error", fmt.Sprintf("%v", recovered),
					"stack", string(debug.Stack()),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_SERVER_ERROR",
						"message": "Internal Server Error",
					},
				})
				return
			}

			fields := []any{
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"status", c.Writer.Status(),
				"client_ip", c.ClientIP(),
				"user_id", c.GetInt64("user_id"),
				"role", c.GetString("role"),
				"latency", time.Since(start),
			}
			for _, err := range c.Errors {
				fields = append(fields, "error", err.Error())
			}

			switch {
			case c.Writer.Status() >= http.StatusInternalServerError:
				logger.Errorw("request failed", fields...)
			case c.Writer.Status() >= http.StatusBadRequest:
				logger.Warnw("request rejected", fields...)
			default:
				logger.Infow("request", fields...)
			}
		}()

		c.Next()
	}
}
