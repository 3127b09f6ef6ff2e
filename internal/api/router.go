// internal/api/router.go
package api

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/Corphon/ReviewForgeMCP/internal/config"
	"github.com/Corphon/ReviewForgeMCP/internal/di"
	"github.com/Corphon/ReviewForgeMCP/internal/services"
	"github.com/Corphon/ReviewForgeMCP/internal/storage"
	"github.com/gin-gonic/gin"
)

// SetupRouter 配置HTTP路由
func SetupRouter(cfg *config.Config) (*gin.Engine, error) {
	// 只从容器获取服务，不再创建新实例
	container := di.GetContainer()

	reviewService, ok := container.Get("review").(*services.ReviewService)
	if !ok {
		return nil, fmt.Errorf("综述服务未正确初始化")
	}

	store, ok := container.Get("store").(*storage.ExportStore)
	if !ok {
		return nil, fmt.Errorf("导出存储未正确初始化")
	}

	handler := NewHandler(cfg, reviewService, store)

	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// 启用CORS
	r.Use(corsMiddleware())

	// 静态文件服务
	r.Static("/static", cfg.StaticDir)

	// HTML模板
	r.LoadHTMLGlob(filepath.Join(cfg.TemplatesDir, "*.html"))

	// ===============================
	// 页面路由
	// ===============================
	r.GET("/", handler.IndexPage)
	r.POST("/", handler.GenerateFormPage)

	// WebSocket 支持：逐章节进度流
	r.GET("/ws/reviews", handler.ReviewWebSocket)

	// ===============================
	// JSON API
	// ===============================
	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/reviews", handler.GenerateReview)
		apiGroup.GET("/providers", handler.ListProviders)
		apiGroup.GET("/exports", handler.ListExports)
		apiGroup.GET("/exports/:name", handler.GetExport)
	}

	return r, nil
}

// corsMiddleware 跨域中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
