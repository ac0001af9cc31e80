package controller

import (
	"campus_quest_backend/internal/service"
	"campus_quest_backend/internal/util"
	"context"

	"github.com/gin-gonic/gin"
)

type QuestVerifier interface {
	VerifyUserQuest(ctx context.Context, questID, targetUserID, verifierID uint) (*service.VerificationResult, error)
	GetStatus(questID, targetUserID, viewerID uint) (*service.VerificationStatus, error)
}

type VerificationController struct {
	VerificationService QuestVerifier
}

func NewVerificationController(verificationService QuestVerifier) *VerificationController {
	return &VerificationController{VerificationService: verificationService}
}

func verifyParams(ctx *gin.Context) (questID, targetUserID uint, ok bool) {
	questID, ok = util.ParamID(ctx, "questId")
	if !ok {
		return
	}
	targetUserID, ok = util.ParamID(ctx, "targetUserId")
	return
}

// @Summary 验证他人的任务
// @Description 两位不同用户验证后任务标记为已验证；已验证后重复提交返回当前状态
// @Tags 验证
// @Produce json
// @Security BearerAuth
// @Param questId path int true "任务ID"
// @Param targetUserId path int true "完成任务的用户ID"
// @Success 200 {object} util.Response{data=service.VerificationResult}
// @Failure 400 {object} util.Response "不能验证自己/任务未完成"
// @Failure 409 {object} util.Response "重复验证"
// @Router /api/quest/verify/{questId}/{targetUserId} [post]
func (c *VerificationController) Verify(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	questID, targetUserID, ok := verifyParams(ctx)
	if !ok {
		util.BadRequest(ctx, "invalid quest or user id")
		return
	}

	result, err := c.VerificationService.VerifyUserQuest(ctx.Request.Context(), questID, targetUserID, user.UserID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 任务验证状态
// @Tags 验证
// @Produce json
// @Security BearerAuth
// @Param questId path int true "任务ID"
// @Param targetUserId path int true "完成任务的用户ID"
// @Success 200 {object} util.Response{data=service.VerificationStatus}
// @Router /api/quest/verify/{questId}/{targetUserId} [get]
func (c *VerificationController) Status(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	questID, targetUserID, ok := verifyParams(ctx)
	if !ok {
		util.BadRequest(ctx, "invalid quest or user id")
		return
	}

	status, err := c.VerificationService.GetStatus(questID, targetUserID, user.UserID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, status)
}
