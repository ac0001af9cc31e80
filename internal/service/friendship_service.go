package service

import (
	"campus_quest_backend/internal/model"
	"campus_quest_backend/internal/repository"
	"campus_quest_backend/internal/util"
	"campus_quest_backend/pkg/tracing"
	"context"
)

type FriendshipService struct {
	FriendRepo   *repository.FriendshipRepository
	UserRepo     *repository.UserRepository
	Achievements *AchievementService
}

func NewFriendshipService(friendRepo *repository.FriendshipRepository, userRepo *repository.UserRepository, achievements *AchievementService) *FriendshipService {
	return &FriendshipService{
		FriendRepo:   friendRepo,
		UserRepo:     userRepo,
		Achievements: achievements,
	}
}

type FriendResult struct {
	Friend          *model.User         `json:"friend"`
	NewAchievements []model.Achievement `json:"newAchievements"`
}

// AddFriend 直接建立好友关系，双方都会重新评估成就
func (s *FriendshipService) AddFriend(ctx context.Context, userID, friendID uint) (*FriendResult, error) {
	ctx, span := tracing.Start(ctx, "FriendshipService.AddFriend", tracing.UserID(userID))
	defer span.End()

	if userID == friendID {
		return nil, util.ErrSelfFriendship
	}

	friend, err := s.UserRepo.FindByID(friendID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	isFriend, err := s.FriendRepo.IsFriend(userID, friendID)
	if err != nil {
		return nil, err
	}
	if isFriend {
		return nil, util.ErrAlreadyFriends
	}

	if err := s.FriendRepo.CreateFriendship(userID, friendID); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, util.ErrAlreadyFriends
		}
		return nil, err
	}

	awarded := s.Achievements.evaluateQuietly(ctx, userID)
	s.Achievements.evaluateQuietly(ctx, friendID)

	return &FriendResult{Friend: friend, NewAchievements: awarded}, nil
}

// RemoveFriend 删除双向关系，已发放的成就不回收
func (s *FriendshipService) RemoveFriend(userID, friendID uint) error {
	removed, err := s.FriendRepo.DeleteFriendship(userID, friendID)
	if err != nil {
		return err
	}
	if !removed {
		return util.ErrNotFriends
	}
	return nil
}

func (s *FriendshipService) ListFriends(userID uint) ([]model.User, error) {
	return s.FriendRepo.GetFriends(userID)
}

func (s *FriendshipService) MutualFriends(userID, otherID uint) ([]model.User, error) {
	exists, err := s.UserRepo.Exists(otherID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, util.ErrUserNotFound
	}
	return s.FriendRepo.GetMutualFriends(userID, otherID)
}
