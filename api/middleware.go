package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HeaderRequestID carries the request ID in both directions
const HeaderRequestID = "X-Request-ID"

const ctxRequestID = "requestId"

// requestIDMiddleware accepts a caller-supplied request ID or generates one
func requestIDMiddleware(c *gin.Context) {
	id := c.GetHeader(HeaderRequestID)
	if id == "" || len(id) > 128 {
		id = uuid.NewString()
	}
	c.Set(ctxRequestID, id)
	c.Header(HeaderRequestID, id)
	c.Next()
}

func requestID(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}

// accessLog logs one line per request
func (s *Server) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()

	fields := []zap.Field{
		zap.String("request_id", requestID(c)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("duration", time.Since(start)),
		zap.String("client_ip", c.ClientIP()),
	}
	if c.Writer.Status() >= 500 {
		s.logger.Warn("request", fields...)
		return
	}
	s.logger.Debug("request", fields...)
}
