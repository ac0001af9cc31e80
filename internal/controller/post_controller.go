package controller

import (
	"campus_quest_backend/internal/model"
	"campus_quest_backend/internal/service"
	"campus_quest_backend/internal/util"
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PostManager interface {
	CreatePostForQuest(ctx context.Context, userID, questID uint, caption string, image []byte) (*service.PostResult, error)
	ListPosts(page, limit int) ([]service.PostView, int64, error)
	ListFriendPosts(userID uint, page, limit int) ([]service.PostView, int64, error)
	ListUserPosts(userID uint, page, limit int) ([]service.PostView, int64, error)
	GetPost(id uint) (*service.PostView, error)
	OpenImage(ctx context.Context, postID uint) (io.ReadCloser, string, error)
	React(ctx context.Context, userID, postID uint, reactionType model.ReactionType) (*service.ReactionResult, error)
}

type PostController struct {
	PostService    PostManager
	AttemptService AttemptTracker
	MaxImageBytes  int64
}

func NewPostController(postService PostManager, attemptService AttemptTracker, maxImageBytes int64) *PostController {
	return &PostController{
		PostService:    postService,
		AttemptService: attemptService,
		MaxImageBytes:  maxImageBytes,
	}
}

// ReactionRequest 点赞/点踩
type ReactionRequest struct {
	ReactionType model.ReactionType `json:"reactionType" binding:"required,oneof=like dislike"`
}

// @Summary 提交任务证明帖子
// @Description 上传 JPEG/PNG 图片，任务记录与帖子同时创建
// @Tags 帖子
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param questId formData int true "任务ID"
// @Param caption formData string false "描述，最多255字符"
// @Param image formData file true "图片"
// @Success 201 {object} util.Response{data=service.PostResult}
// @Failure 400 {object} util.Response "图片无效"
// @Failure 409 {object} util.Response "已提交"
// @Failure 413 {object} util.Response "图片过大"
// @Router /api/posts [post]
func (c *PostController) CreatePost(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	questID := util.MustParseUint(ctx.PostForm("questId"))
	if questID == 0 {
		util.BadRequest(ctx, "questId is required")
		return
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		util.BadRequest(ctx, "image is required")
		return
	}
	if fileHeader.Size > c.MaxImageBytes {
		util.Fail(ctx, util.ErrFileTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	// 多读一个字节用于判断是否超限
	data, err := io.ReadAll(io.LimitReader(file, c.MaxImageBytes+1))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	result, err := c.PostService.CreatePostForQuest(ctx.Request.Context(), user.UserID, questID, ctx.PostForm("caption"), data)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// @Summary 动态列表
// @Tags 帖子
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/posts [get]
func (c *PostController) ListPosts(ctx *gin.Context) {
	page, limit := util.PageQuery(ctx)

	posts, total, err := c.PostService.ListPosts(page, limit)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Page(ctx, posts, total, page, limit)
}

// @Summary 好友动态
// @Tags 帖子
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/posts/friends [get]
func (c *PostController) ListFriendPosts(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	page, limit := util.PageQuery(ctx)

	posts, total, err := c.PostService.ListFriendPosts(user.UserID, page, limit)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Page(ctx, posts, total, page, limit)
}

// @Summary 用户的帖子
// @Tags 帖子
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/users/{id}/posts [get]
func (c *PostController) ListUserPosts(ctx *gin.Context) {
	userID, ok := util.ParamID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid user id")
		return
	}
	page, limit := util.PageQuery(ctx)

	posts, total, err := c.PostService.ListUserPosts(userID, page, limit)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Page(ctx, posts, total, page, limit)
}

// @Summary 帖子详情
// @Tags 帖子
// @Produce json
// @Security BearerAuth
// @Param id path int true "帖子ID"
// @Success 200 {object} util.Response{data=service.PostView}
// @Router /api/posts/{id} [get]
func (c *PostController) GetPost(ctx *gin.Context) {
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid post id")
		return
	}

	post, err := c.PostService.GetPost(id)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, post)
}

// @Summary 帖子图片
// @Tags 帖子
// @Produce image/jpeg
// @Security BearerAuth
// @Param id path int true "帖子ID"
// @Success 200 {file} binary
// @Router /api/posts/{id}/image [get]
func (c *PostController) GetPostImage(ctx *gin.Context) {
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid post id")
		return
	}

	rc, contentType, err := c.PostService.OpenImage(ctx.Request.Context(), id)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	defer rc.Close()

	ctx.Header("Cache-Control", "private, max-age=86400")
	ctx.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}

// @Summary 撤回帖子
// @Description 删除帖子及其任务记录，可重新提交
// @Tags 帖子
// @Security BearerAuth
// @Param id path int true "帖子ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "非作者"
// @Router /api/posts/{id} [delete]
func (c *PostController) DeletePost(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid post id")
		return
	}

	if err := c.AttemptService.DeleteAttempt(ctx.Request.Context(), id, user.UserID); err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// @Summary 点赞/点踩
// @Description 同类型再次提交会取消
// @Tags 帖子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "帖子ID"
// @Param body body ReactionRequest true "类型"
// @Success 200 {object} util.Response{data=service.ReactionResult}
// @Router /api/posts/{id}/reactions [post]
func (c *PostController) React(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid post id")
		return
	}

	var req ReactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.PostService.React(ctx.Request.Context(), user.UserID, id, req.ReactionType)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, result)
}
