package controller

import (
	"campus_quest_backend/internal/model"
	"campus_quest_backend/internal/service"
	"campus_quest_backend/internal/util"
	"context"

	"github.com/gin-gonic/gin"
)

type FriendManager interface {
	AddFriend(ctx context.Context, userID, friendID uint) (*service.FriendResult, error)
	RemoveFriend(userID, friendID uint) error
	ListFriends(userID uint) ([]model.User, error)
	MutualFriends(userID, otherID uint) ([]model.User, error)
}

type FriendshipController struct {
	FriendshipService FriendManager
}

func NewFriendshipController(friendshipService FriendManager) *FriendshipController {
	return &FriendshipController{FriendshipService: friendshipService}
}

// @Summary 添加好友
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Param friendId path int true "好友ID"
// @Success 201 {object} util.Response{data=service.FriendResult}
// @Failure 409 {object} util.Response "已经是好友"
// @Router /api/friends/{friendId} [post]
func (c *FriendshipController) AddFriend(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	friendID, ok := util.ParamID(ctx, "friendId")
	if !ok {
		util.BadRequest(ctx, "invalid friend id")
		return
	}

	result, err := c.FriendshipService.AddFriend(ctx.Request.Context(), user.UserID, friendID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// @Summary 删除好友
// @Tags 好友
// @Security BearerAuth
// @Param friendId path int true "好友ID"
// @Success 200 {object} util.Response
// @Router /api/friends/{friendId} [delete]
func (c *FriendshipController) RemoveFriend(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	friendID, ok := util.ParamID(ctx, "friendId")
	if !ok {
		util.BadRequest(ctx, "invalid friend id")
		return
	}

	if err := c.FriendshipService.RemoveFriend(user.UserID, friendID); err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"friendId": friendID})
}

// @Summary 好友列表
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/friends [get]
func (c *FriendshipController) ListFriends(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	friends, err := c.FriendshipService.ListFriends(user.UserID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, friends)
}

// @Summary 共同好友
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Param friendId path int true "对方ID"
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/friends/mutuals/{friendId} [get]
func (c *FriendshipController) MutualFriends(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	otherID, ok := util.ParamID(ctx, "friendId")
	if !ok {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	mutuals, err := c.FriendshipService.MutualFriends(user.UserID, otherID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, mutuals)
}
