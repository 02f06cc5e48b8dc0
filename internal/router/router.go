package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/user/movieapi/internal/handler"
	"github.com/user/movieapi/internal/middleware"
	"github.com/user/movieapi/internal/utils"
)

// NewEngine 创建 gin 引擎，挂载中间件并注册路由
func NewEngine(h *handler.Handler, log *slog.Logger) *gin.Engine {
	if h.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// 中间件
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if rl := h.Config.RateLimit; rl.Enabled {
		r.Use(middleware.NewRateLimiter(rl.RPS, rl.Burst).Middleware())
	}

	r.NoRoute(utils.NotFound)
	r.NoMethod(utils.MethodNotAllowed)

	RegisterRoutes(r, h)
	return r
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", h.Health)

	movies := r.Group(h.Config.APIPrefix + "/movies")
	{
		movies.GET("/", h.ListMovies)
		movies.POST("/", h.CreateMovie)
		movies.GET("/:id/", h.GetMovie)
		movies.PUT("/:id/", h.UpdateMovie)
		movies.DELETE("/:id/", h.DeleteMovie)
	}
}
