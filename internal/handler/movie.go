package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/movieapi/internal/utils"
)

// ListMovies 电影列表，按创建顺序返回
func (h *Handler) ListMovies(c *gin.Context) {
	movies, err := h.Movies.ListAll(c.Request.Context())
	if err != nil {
		h.storeError(c, err)
		return
	}
	utils.OK(c, movies)
}

// CreateMovie 创建电影
func (h *Handler) CreateMovie(c *gin.Context) {
	in, errs := bindMovie(c)
	if errs != nil {
		utils.BadRequest(c, errs)
		return
	}

	title, genre, year := in.values()
	movie, err := h.Movies.Insert(c.Request.Context(), title, genre, year)
	if err != nil {
		h.storeError(c, err)
		return
	}
	utils.Created(c, movie)
}

// GetMovie 电影详情
func (h *Handler) GetMovie(c *gin.Context) {
	id, ok := movieID(c)
	if !ok {
		utils.NotFound(c)
		return
	}

	movie, err := h.Movies.Get(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err)
		return
	}
	utils.OK(c, movie)
}

// UpdateMovie 整体更新电影，先确认记录存在再校验请求体
func (h *Handler) UpdateMovie(c *gin.Context) {
	id, ok := movieID(c)
	if !ok {
		utils.NotFound(c)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Movies.Get(ctx, id); err != nil {
		h.storeError(c, err)
		return
	}

	in, errs := bindMovie(c)
	if errs != nil {
		utils.BadRequest(c, errs)
		return
	}

	title, genre, year := in.values()
	movie, err := h.Movies.Update(ctx, id, title, genre, year)
	if err != nil {
		h.storeError(c, err)
		return
	}
	utils.OK(c, movie)
}

// DeleteMovie 删除电影
func (h *Handler) DeleteMovie(c *gin.Context) {
	id, ok := movieID(c)
	if !ok {
		utils.NotFound(c)
		return
	}

	if err := h.Movies.Delete(c.Request.Context(), id); err != nil {
		h.storeError(c, err)
		return
	}
	utils.NoContent(c)
}

// movieID 解析路径中的 ID，只接受正整数，不合法的 ID 一律视为不存在
func movieID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	if raw == "" || strings.Trim(raw, "0123456789") != "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
