package server

import (
	"net/http"
	"strings"
	"time"

	"modelexplorer/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	startTimeKey    = "start_time"
)

// requestIDMiddleware 沿用客户端的X-Request-ID，没有则生成
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Set(startTimeKey, time.Now())
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// accessLogMiddleware 请求完成后写一条访问日志
func accessLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		fields := addReqFields(c,
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("latency", requestTimer(c)),
			logger.String("client_ip", c.ClientIP()))

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("请求失败", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn("请求被拒绝", fields...)
		default:
			logger.Debug("请求完成", fields...)
		}
	}
}

// tokenAuthMiddleware token为空时不校验
func tokenAuthMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		provided := extractToken(c)
		if provided == "" {
			logger.Warn("请求缺少Authorization头", addReqFields(c)...)
			respondError(c, http.StatusUnauthorized, "%s", "401")
			c.Abort()
			return
		}
		if provided != token {
			logger.Error("token验证失败", addReqFields(c, logger.String("provided", "***"))...)
			respondError(c, http.StatusUnauthorized, "%s", "401")
			c.Abort()
			return
		}

		c.Next()
	}
}

// requestTimer 访问日志耗时
func requestTimer(c *gin.Context) time.Duration {
	if start, ok := c.Get(startTimeKey); ok {
		if t, ok := start.(time.Time); ok {
			return time.Since(t)
		}
	}
	return 0
}

func extractToken(c *gin.Context) string {
	return strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
}

// addReqFields 附加请求ID
func addReqFields(c *gin.Context, fields ...logger.Field) []logger.Field {
	if id := c.GetString(requestIDKey); id != "" {
		fields = append(fields, logger.String("request_id", id))
	}
	return fields
}
