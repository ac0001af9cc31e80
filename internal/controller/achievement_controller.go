package controller

import (
	"campus_quest_backend/internal/model"
	"campus_quest_backend/internal/service"
	"campus_quest_backend/internal/util"
	"context"

	"github.com/gin-gonic/gin"
)

type AchievementManager interface {
	EvaluateAndAward(ctx context.Context, userID uint) ([]model.Achievement, error)
	ListCatalog() ([]model.Achievement, error)
	ListUserAchievements(userID uint) ([]model.UserAchievement, error)
	GetLeaderboard(limit int) ([]service.LeaderboardEntry, error)
	GetProfile(ctx context.Context, userID uint) (*service.ProfileStats, error)
}

type AchievementController struct {
	AchievementService AchievementManager
}

func NewAchievementController(achievementService AchievementManager) *AchievementController {
	return &AchievementController{AchievementService: achievementService}
}

// @Summary 成就目录
// @Tags 成就系统
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Achievement}
// @Router /api/achievements [get]
func (c *AchievementController) ListCatalog(ctx *gin.Context) {
	achievements, err := c.AchievementService.ListCatalog()
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, achievements)
}

// @Summary 获取用户成就
// @Tags 成就系统
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response{data=[]model.UserAchievement}
// @Router /api/users/{id}/achievements [get]
func (c *AchievementController) GetUserAchievements(ctx *gin.Context) {
	userID, ok := util.ParamID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	achievements, err := c.AchievementService.ListUserAchievements(userID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, achievements)
}

// @Summary 获取排行榜
// @Description 按代币数排序
// @Tags 成就系统
// @Produce json
// @Security BearerAuth
// @Param limit query int false "返回数量" default(10)
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry}
// @Router /api/achievements/leaderboard [get]
func (c *AchievementController) GetLeaderboard(ctx *gin.Context) {
	limit := util.QueryInt(ctx, "limit", 10)
	if limit > 100 {
		limit = 100
	}

	leaderboard, err := c.AchievementService.GetLeaderboard(limit)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, leaderboard)
}

// @Summary 重新评估成就
// @Tags 成就系统
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Achievement}
// @Router /api/achievements/evaluate [post]
func (c *AchievementController) Evaluate(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	awarded, err := c.AchievementService.EvaluateAndAward(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"newAchievements": awarded})
}

// @Summary 用户主页统计
// @Tags 成就系统
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response{data=service.ProfileStats}
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/users/{id}/profile [get]
func (c *AchievementController) GetProfile(ctx *gin.Context) {
	userID, ok := util.ParamID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	profile, err := c.AchievementService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, profile)
}
