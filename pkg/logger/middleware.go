package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
)

// RequestIDHeader carries the per-request id assigned (or echoed) by
// RequestLogger.
const RequestIDHeader = "X-Request-ID"

// RequestLogger returns a gin middleware that tags every request with an
// id and logs method, path, status and latency through zerolog.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(RequestIDHeader, reqID)

		start := time.Now()
		c.Next()

		ev := zlog.Info()
		if c.Writer.Status() >= 500 {
			ev = zlog.Error()
		}
		ev.Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}
