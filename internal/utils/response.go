package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FieldErrors 字段名到错误信息列表的映射，例如 {"title": ["This field is required."]}
type FieldErrors map[string][]string

// Add 为字段追加一条错误信息
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// ErrorDetail 非字段类错误的响应体
type ErrorDetail struct {
	Detail string `json:"detail"`
}

// OK 返回200
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 返回201
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent 返回204，空响应体，不声明压缩编码
func NoContent(c *gin.Context) {
	c.Writer.Header().Del("Content-Encoding")
	c.Status(http.StatusNoContent)
}

// Error 返回错误响应
func Error(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorDetail{Detail: message})
}

// BadRequest 返回400错误，响应体为字段错误映射
func BadRequest(c *gin.Context, errs FieldErrors) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errs)
}

// NotFound 返回404错误
func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Not found.")
}

// MethodNotAllowed 返回405错误
func MethodNotAllowed(c *gin.Context) {
	Error(c, http.StatusMethodNotAllowed, `Method "`+c.Request.Method+`" not allowed.`)
}

// TooManyRequests 返回429错误
func TooManyRequests(c *gin.Context) {
	Error(c, http.StatusTooManyRequests, "Request was throttled.")
}

// InternalServerError 返回500错误，不向客户端暴露内部细节
func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "A server error occurred.")
}
