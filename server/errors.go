package server

import (
	"errors"
	"fmt"
	"net/http"

	"modelexplorer/catalog"
	"modelexplorer/logger"

	"github.com/gin-gonic/gin"
)

// respondError 统一错误响应
func respondError(c *gin.Context, status int, format string, args ...any) {
	c.JSON(status, gin.H{"error": fmt.Sprintf(format, args...)})
}

// handleBadRequest 参数错误
func handleBadRequest(c *gin.Context, err error) {
	logger.Warn("请求参数错误", addReqFields(c, logger.Err(err))...)
	respondError(c, http.StatusBadRequest, "%v", err)
}

// handleFetchError 上游目录拉取失败
func handleFetchError(c *gin.Context, err error) {
	kind := "FetchError"
	var fe *catalog.FetchError
	if errors.As(err, &fe) {
		kind = string(fe.Kind)
	}

	logger.Error("刷新模型目录失败", addReqFields(c, logger.String("kind", kind), logger.Err(err))...)
	c.JSON(http.StatusBadGateway, gin.H{
		"error": err.Error(),
		"kind":  kind,
	})
}
