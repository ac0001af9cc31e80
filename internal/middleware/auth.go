package middleware

import (
	"campus_quest_backend/internal/config"
	"campus_quest_backend/internal/model"
	"campus_quest_backend/internal/util"
	"campus_quest_backend/pkg/logger"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// bearerToken 优先读取 Authorization 头；图片链接直接放进 <img> 时无法带 Header，退回 ?token=
func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return c.Query("token")
}

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			util.Fail(c, util.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, util.ErrTokenExpired) {
				util.Fail(c, util.ErrTokenExpired)
			} else {
				logger.Log.Debug("JWT解析错误", zap.String("path", c.FullPath()), zap.Error(err))
				util.Fail(c, util.ErrUnauthorized)
			}
			c.Abort()
			return
		}

		c.Set(util.ContextUserKey, claims)
		c.Next()
	}
}

// RoleMiddleware 需在 AuthMiddleware 之后使用；管理员可访问所有角色的接口
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	allowed := make(map[model.UserRole]bool, len(roles)+1)
	for _, role := range roles {
		allowed[role] = true
	}
	allowed[model.RoleAdmin] = true

	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Fail(c, util.ErrUnauthorized)
			c.Abort()
			return
		}

		if !allowed[user.Role] {
			util.Fail(c, util.ErrPermissionDenied)
			c.Abort()
			return
		}
		c.Next()
	}
}
