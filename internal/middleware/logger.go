package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"netrates/internal/pkg/response"
)

// RequestLogger logs every request and recovers panics into a 500 response.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		defer func() {
			if recovered := recover(); recovered != nil {
				log.Error("panic recovered",
					zap.Any("panic", recovered),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.ByteString("stack", debug.Stack()),
				)
				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				c.Abort()
				return
			}

			fields := []zap.Field{
				zap.Int("status", c.Writer.Status()),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("query", c.Request.URL.RawQuery),
				zap.String("client_ip", c.ClientIP()),
				zap.Duration("latency", time.Since(start)),
			}
			for _, e := range c.Errors {
				fields = append(fields, zap.String("error", e.Error()))
			}

			if c.Writer.Status() >= http.StatusInternalServerError {
				log.Error("request failed", fields...)
			} else {
				log.Info("request", fields...)
			}
		}()

		c.Next()
	}
}
