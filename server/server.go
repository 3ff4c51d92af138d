package server

import (
	"context"
	"errors"
	"net/http"
	"os"

	"modelexplorer/config"
	"modelexplorer/explorer"
	"modelexplorer/logger"

	"github.com/gin-gonic/gin"
)

// Options 路由参数
type Options struct {
	// RefreshToken 非空时保护 POST /api/refresh
	RefreshToken string
}

// NewRouter 注册所有端点
func NewRouter(ex *explorer.Explorer, opts Options) *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "" {
		ginMode = gin.ReleaseMode
	}
	gin.SetMode(ginMode)

	r := gin.New()
	r.Use(requestIDMiddleware())
	r.Use(accessLogMiddleware())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	h := &handlers{ex: ex}

	r.GET("/health", h.health)

	api := r.Group("/api")
	{
		api.GET("/status", h.status)
		api.GET("/columns", h.columns)
		api.GET("/models", h.listModels)
		api.GET("/model/*id", h.getModel)
		api.GET("/providers", h.providers)
		api.GET("/modalities", h.modalities)
		api.POST("/refresh", tokenAuthMiddleware(opts.RefreshToken), h.refresh)

		view := api.Group("/view")
		view.GET("", h.view)
		view.PATCH("/filter", h.patchFilter)
		view.POST("/sort/:field", h.sortBy)
		view.POST("/quick/:provider", h.quickFilter)
		view.POST("/reset", h.resetFilters)
	}

	r.NoRoute(func(c *gin.Context) {
		logger.Warn("访问未知端点", addReqFields(c,
			logger.String("path", c.Request.URL.Path),
			logger.String("method", c.Request.Method))...)
		respondError(c, http.StatusNotFound, "%s", "404 未找到")
	})

	return r
}

// Run 启动HTTP服务器，ctx结束时优雅关闭
func Run(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:           ":" + port,
		Handler:        handler,
		ReadTimeout:    config.ServerReadTimeout,
		WriteTimeout:   config.ServerWriteTimeout,
		IdleTimeout:    config.ServerIdleTimeout,
		MaxHeaderBytes: config.MaxHeaderBytes,
	}

	logger.Info("启动模型目录服务", logger.String("port", port))
	logger.Info("可用端点:")
	logger.Info("  GET   /health                   - 健康检查")
	logger.Info("  GET   /api/status               - 拉取状态")
	logger.Info("  GET   /api/models               - 过滤/排序后的模型列表")
	logger.Info("  GET   /api/model/*id            - 模型详情")
	logger.Info("  GET   /api/providers            - 提供商列表")
	logger.Info("  GET   /api/modalities           - 模态列表")
	logger.Info("  POST  /api/refresh              - 立即刷新")
	logger.Info("  *     /api/view                 - 会话视图")
	logger.Info("按Ctrl+C停止服务器")

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("启动服务器失败", logger.Err(err), logger.String("port", port))
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("正在关闭服务器", logger.Duration("timeout", config.ServerShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// corsMiddleware CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}
