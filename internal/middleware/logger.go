package middleware

import (
	"bytes"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/azhengyongqin/blockedby/internal/logger"
)

// MaxBodyLogSize 5xx 时最多记录的响应体大小（字节）
const MaxBodyLogSize = 4096

// responseWriter 包装 gin.ResponseWriter，统计响应大小并缓存前 4KB 响应体
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
	size int
}

func (w *responseWriter) Write(b []byte) (int, error) {
	size, err := w.ResponseWriter.Write(b)
	w.size += size
	if w.body.Len()+len(b) <= MaxBodyLogSize {
		w.body.Write(b)
	}
	return size, err
}

// LoggingMiddleware 记录请求日志，按状态码选择日志级别
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		blw := &responseWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = blw

		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = logger.L.Error()
		case status >= 400:
			ev = logger.L.Warn()
		default:
			ev = logger.L.Debug()
		}

		if id := GetRequestID(c); id != "" {
			ev = ev.Str("request_id", id)
		}
		ev = ev.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("duration(ms)", time.Since(start)).
			Int("response_size", blw.size).
			Str("client_ip", c.ClientIP())

		if c.Request.URL.RawQuery != "" {
			ev = ev.Str("query", c.Request.URL.RawQuery)
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		if status >= 500 && blw.body.Len() > 0 {
			ev = ev.Str("response_body", blw.body.String())
		}

		ev.Msg("HTTP 请求")
	}
}

// GetRequestID 从上下文中获取请求 ID
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}
