package util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// MustParseUint 将字符串转换为无符号整数，解析失败时返回 0
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// ParamID 读取路径参数中的 ID，非法或为 0 时返回 false
func ParamID(c *gin.Context, name string) (uint, bool) {
	id := MustParseUint(c.Param(name))
	return id, id != 0
}

// QueryInt 读取查询参数，缺省或非法时使用默认值
func QueryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// ClampPageSize 分页大小限制在 [1, MaxPageSize]
func ClampPageSize(limit int) int {
	switch {
	case limit < 1:
		return DefaultPageSize
	case limit > MaxPageSize:
		return MaxPageSize
	}
	return limit
}

// PageQuery 读取 page/limit 查询参数，limit 超出上限时截断
func PageQuery(c *gin.Context) (page, limit int) {
	return QueryInt(c, "page", 1), ClampPageSize(QueryInt(c, "limit", DefaultPageSize))
}
