package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/azhengyongqin/blockedby/docs" // Swagger docs
	"github.com/azhengyongqin/blockedby/internal/healthcheck"
	"github.com/azhengyongqin/blockedby/internal/middleware"
	"github.com/azhengyongqin/blockedby/internal/server/handler"
)

type Deps struct {
	// Progress 进度快照来源（progress.Tracker）
	Progress handler.ProgressSource

	// HealthChecker 健康检查器
	HealthChecker *healthcheck.HealthChecker
}

// NewRouter 提供只读的爬取状态 HTTP API
// @title blockedby API
// @version 1.0.0
// @description 二度拉黑检测爬虫的状态 API
// @BasePath /api/v1
// @schemes http
func NewRouter(deps Deps) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	// 全局中间件
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.PrometheusMiddleware())

	healthHandler := handler.NewHealthHandler(deps.HealthChecker, deps.Progress)
	crawlHandler := handler.NewCrawlHandler(deps.Progress)

	// 健康检查路由
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// Prometheus metrics 端点
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger API 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		api.GET("/progress", crawlHandler.Progress)
		api.GET("/blocked-users", crawlHandler.BlockedUsers)
		api.GET("/failed-tasks", crawlHandler.FailedTasks)
	}

	return r
}
