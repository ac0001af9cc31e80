package controller

import (
	"campus_quest_backend/internal/model"
	"campus_quest_backend/internal/service"
	"campus_quest_backend/internal/util"
	"context"

	"github.com/gin-gonic/gin"
)

type QuestCatalog interface {
	CreateQuest(req *service.QuestRequest) (*model.Quest, error)
	UpdateQuest(id uint, req *service.QuestRequest) (*model.Quest, error)
	DeleteQuest(id uint) error
	GetQuest(id uint) (*model.Quest, error)
	ListQuests(page, limit int) ([]model.Quest, int64, error)
}

type AttemptTracker interface {
	StartAttempt(ctx context.Context, userID, questID uint) (*model.QuestAttempt, error)
	CompleteAttempt(ctx context.Context, userID, questID uint) (*service.CompletionResult, error)
	ListUserAttempts(userID uint) ([]model.QuestAttempt, error)
	DeleteAttempt(ctx context.Context, postID, userID uint) error
}

type QuestController struct {
	QuestService   QuestCatalog
	AttemptService AttemptTracker
}

func NewQuestController(questService QuestCatalog, attemptService AttemptTracker) *QuestController {
	return &QuestController{QuestService: questService, AttemptService: attemptService}
}

// @Summary 任务列表
// @Tags 任务
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/quests [get]
func (c *QuestController) ListQuests(ctx *gin.Context) {
	page, limit := util.PageQuery(ctx)

	quests, total, err := c.QuestService.ListQuests(page, limit)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Page(ctx, quests, total, page, limit)
}

// @Summary 任务详情
// @Tags 任务
// @Produce json
// @Security BearerAuth
// @Param id path int true "任务ID"
// @Success 200 {object} util.Response{data=model.Quest}
// @Failure 404 {object} util.Response
// @Router /api/quests/{id} [get]
func (c *QuestController) GetQuest(ctx *gin.Context) {
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid quest id")
		return
	}

	quest, err := c.QuestService.GetQuest(id)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, quest)
}

// @Summary 创建任务
// @Tags 任务管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.QuestRequest true "任务信息"
// @Success 201 {object} util.Response{data=model.Quest}
// @Router /api/admin/quests [post]
func (c *QuestController) CreateQuest(ctx *gin.Context) {
	var req service.QuestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quest, err := c.QuestService.CreateQuest(&req)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Created(ctx, quest)
}

// @Summary 更新任务
// @Tags 任务管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "任务ID"
// @Param body body service.QuestRequest true "任务信息"
// @Success 200 {object} util.Response{data=model.Quest}
// @Router /api/admin/quests/{id} [put]
func (c *QuestController) UpdateQuest(ctx *gin.Context) {
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid quest id")
		return
	}

	var req service.QuestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quest, err := c.QuestService.UpdateQuest(id, &req)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, quest)
}

// @Summary 删除任务
// @Tags 任务管理
// @Security BearerAuth
// @Param id path int true "任务ID"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "已有用户参与"
// @Router /api/admin/quests/{id} [delete]
func (c *QuestController) DeleteQuest(ctx *gin.Context) {
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid quest id")
		return
	}

	if err := c.QuestService.DeleteQuest(id); err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// @Summary 开始任务
// @Tags 任务
// @Produce json
// @Security BearerAuth
// @Param questId path int true "任务ID"
// @Success 201 {object} util.Response{data=model.QuestAttempt}
// @Failure 409 {object} util.Response "已开始"
// @Router /api/quests/start/{questId} [post]
func (c *QuestController) StartQuest(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	questID, ok := util.ParamID(ctx, "questId")
	if !ok {
		util.BadRequest(ctx, "invalid quest id")
		return
	}

	attempt, err := c.AttemptService.StartAttempt(ctx.Request.Context(), user.UserID, questID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Created(ctx, attempt)
}

// @Summary 完成任务
// @Tags 任务
// @Produce json
// @Security BearerAuth
// @Param questId path int true "任务ID"
// @Success 200 {object} util.Response{data=service.CompletionResult}
// @Router /api/quests/complete/{questId} [put]
func (c *QuestController) CompleteQuest(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	questID, ok := util.ParamID(ctx, "questId")
	if !ok {
		util.BadRequest(ctx, "invalid quest id")
		return
	}

	result, err := c.AttemptService.CompleteAttempt(ctx.Request.Context(), user.UserID, questID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 用户的任务记录
// @Tags 任务
// @Produce json
// @Security BearerAuth
// @Param userId path int true "用户ID"
// @Success 200 {object} util.Response{data=[]model.QuestAttempt}
// @Router /api/quests/user/{userId} [get]
func (c *QuestController) ListUserAttempts(ctx *gin.Context) {
	userID, ok := util.ParamID(ctx, "userId")
	if !ok {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	attempts, err := c.AttemptService.ListUserAttempts(userID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}
