package util

import (
	"campus_quest_backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 所有接口共用的外层结构；失败时 data 只带 {"kind": ...}
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// PageResponse 列表接口的 data
type PageResponse struct {
	List  any   `json:"list"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

func write(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Code: status, Message: message, Data: data})
}

func Success(c *gin.Context, data any) {
	write(c, http.StatusOK, "success", data)
}

func Page(c *gin.Context, list any, total int64, page, limit int) {
	Success(c, PageResponse{List: list, Total: total, Page: page, Limit: limit})
}

func Created(c *gin.Context, data any) {
	write(c, http.StatusCreated, "created", data)
}

// Error 用于没有对应 ErrorKind 的参数类错误
func Error(c *gin.Context, status int, message string) {
	write(c, status, message, nil)
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 上下文里没有登录用户
func Unauthorized(c *gin.Context) {
	Fail(c, ErrUnauthorized)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

// Fail 将业务错误映射为对应状态码，其他错误记录日志后按 500 处理
func Fail(c *gin.Context, err error) {
	if appErr := AsAppError(err); appErr != nil {
		write(c, appErr.Status, appErr.Message, gin.H{"kind": appErr.Kind})
		return
	}
	LogInternalError(c, err)
}

// LogInternalError 记录原始错误，客户端只看到通用 500
func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("unhandled error",
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
		zap.Error(err))
	InternalServerError(c)
}
