package controller

import (
	"campus_quest_backend/internal/model"
	"campus_quest_backend/internal/service"
	"campus_quest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthManager interface {
	Register(req *service.RegisterRequest) (*model.User, error)
	Login(req *service.LoginRequest) (*service.LoginResult, error)
	GetUser(id uint) (*model.User, error)
}

type AuthController struct {
	AuthService AuthManager
}

func NewAuthController(authService AuthManager) *AuthController {
	return &AuthController{AuthService: authService}
}

// Register godoc
// @Summary 注册新用户
// @Description 使用提供的信息注册新用户
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterRequest true "用户注册信息"
// @Success 201 {object} util.Response{data=model.User} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱或用户名已被注册"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Register(&req)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Created(ctx, user)
}

// Login godoc
// @Summary 用户登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=service.LoginResult}
// @Failure 401 {object} util.Response "邮箱或密码错误"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Login(&req)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 当前用户信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.AuthService.GetUser(user.UserID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, profile)
}
