package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/movieapi/internal/config"
	"github.com/user/movieapi/internal/model"
	"github.com/user/movieapi/internal/repository"
	"github.com/user/movieapi/internal/utils"
)

// MovieStore 电影记录存储
type MovieStore interface {
	Insert(ctx context.Context, title, genre, year string) (*model.Movie, error)
	Get(ctx context.Context, id int64) (*model.Movie, error)
	ListAll(ctx context.Context) ([]model.Movie, error)
	Update(ctx context.Context, id int64, title, genre, year string) (*model.Movie, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// Handler HTTP 处理器
type Handler struct {
	Movies MovieStore
	Config *config.Config
	Logger *slog.Logger
}

// NewHandler 创建处理器
func NewHandler(movies MovieStore, cfg *config.Config, log *slog.Logger) (*Handler, error) {
	if err := registerValidation(); err != nil {
		return nil, err
	}

	return &Handler{
		Movies: movies,
		Config: cfg,
		Logger: log,
	}, nil
}

// Health 健康检查，顺带确认数据库可用
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	count, err := h.Movies.Count(ctx)
	if err != nil {
		h.logError(c, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "movies": count})
}

// storeError 将存储层错误映射为响应：不存在为 404，其余为 500
func (h *Handler) storeError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrMovieNotFound) {
		utils.NotFound(c)
		return
	}
	h.logError(c, err)
	utils.InternalServerError(c)
}

func (h *Handler) logError(c *gin.Context, err error) {
	_ = c.Error(err)
	h.Logger.Error(err.Error(),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)
}
