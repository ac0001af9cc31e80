package service

import (
	"campus_quest_backend/internal/model"
	"campus_quest_backend/internal/repository"
	"campus_quest_backend/internal/util"
	"campus_quest_backend/pkg/logger"
	"campus_quest_backend/pkg/monitoring"
	"campus_quest_backend/pkg/tracing"
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuestAttemptService struct {
	DB               *gorm.DB
	QuestRepo        *repository.QuestRepository
	AttemptRepo      *repository.QuestAttemptRepository
	PostRepo         *repository.PostRepository
	ReactionRepo     *repository.ReactionRepository
	VerificationRepo *repository.VerificationRepository
	UserRepo         *repository.UserRepository
	Storage          *StorageService
	Achievements     *AchievementService
}

func NewQuestAttemptService(
	db *gorm.DB,
	questRepo *repository.QuestRepository,
	attemptRepo *repository.QuestAttemptRepository,
	postRepo *repository.PostRepository,
	reactionRepo *repository.ReactionRepository,
	verificationRepo *repository.VerificationRepository,
	userRepo *repository.UserRepository,
	storage *StorageService,
	achievements *AchievementService,
) *QuestAttemptService {
	return &QuestAttemptService{
		DB:               db,
		QuestRepo:        questRepo,
		AttemptRepo:      attemptRepo,
		PostRepo:         postRepo,
		ReactionRepo:     reactionRepo,
		VerificationRepo: verificationRepo,
		UserRepo:         userRepo,
		Storage:          storage,
		Achievements:     achievements,
	}
}

type CompletionResult struct {
	Attempt         *model.QuestAttempt `json:"attempt"`
	NewAchievements []model.Achievement `json:"newAchievements"`
}

func (s *QuestAttemptService) requireQuest(questID uint) error {
	exists, err := s.QuestRepo.Exists(questID)
	if err != nil {
		return err
	}
	if !exists {
		return util.ErrQuestNotFound
	}
	return nil
}

// StartAttempt 创建一条未完成的任务记录
func (s *QuestAttemptService) StartAttempt(ctx context.Context, userID, questID uint) (*model.QuestAttempt, error) {
	_, span := tracing.Start(ctx, "QuestAttemptService.StartAttempt", tracing.UserID(userID))
	defer span.End()

	if err := s.requireQuest(questID); err != nil {
		return nil, err
	}

	if _, err := s.AttemptRepo.FindByUserAndQuest(userID, questID); err == nil {
		return nil, util.ErrDuplicateAttempt
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	attempt := &model.QuestAttempt{UserID: userID, QuestID: questID}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, util.ErrDuplicateAttempt
		}
		return nil, err
	}
	return attempt, nil
}

// CompleteAttempt 将已开始的任务标记完成并评估成就
func (s *QuestAttemptService) CompleteAttempt(ctx context.Context, userID, questID uint) (*CompletionResult, error) {
	ctx, span := tracing.Start(ctx, "QuestAttemptService.CompleteAttempt", tracing.UserID(userID))
	defer span.End()

	attempt, err := s.AttemptRepo.FindByUserAndQuest(userID, questID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.IsDone {
		return nil, util.ErrAlreadyCompleted
	}

	now := time.Now()
	changed, err := s.AttemptRepo.MarkDone(attempt.ID, now)
	if err != nil {
		return nil, err
	}
	// 并发请求已先一步完成
	if !changed {
		return nil, util.ErrAlreadyCompleted
	}
	attempt.IsDone = true
	attempt.DateCompleted = &now
	monitoring.QuestCompletions.Inc()

	return &CompletionResult{
		Attempt:         attempt,
		NewAchievements: s.Achievements.evaluateQuietly(ctx, userID),
	}, nil
}

// DeleteAttempt 作者撤回帖子：帖子、任务记录及其点赞和验证票一起删除
func (s *QuestAttemptService) DeleteAttempt(ctx context.Context, postID, userID uint) error {
	ctx, span := tracing.Start(ctx, "QuestAttemptService.DeleteAttempt", tracing.UserID(userID))
	defer span.End()

	post, err := s.PostRepo.FindByID(postID)
	if err != nil {
		if repository.IsNotFound(err) {
			return util.ErrPostNotFound
		}
		return err
	}
	if post.UserID != userID {
		return util.ErrNotPostOwner
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ReactionRepo.WithTx(tx).DeleteByPost(post.ID); err != nil {
			return err
		}
		if err := s.VerificationRepo.WithTx(tx).DeleteByAttempt(post.QuestAttemptID); err != nil {
			return err
		}
		if err := s.PostRepo.WithTx(tx).Delete(post.ID); err != nil {
			return err
		}
		return s.AttemptRepo.WithTx(tx).Delete(post.QuestAttemptID)
	})
	if err != nil {
		return err
	}

	if post.ImageKey != "" {
		if err := s.Storage.Delete(ctx, post.ImageKey); err != nil {
			logger.Log.Warn("Failed to delete post image",
				zap.Uint("postID", post.ID), zap.String("key", post.ImageKey), zap.Error(err))
		}
	}
	return nil
}

func (s *QuestAttemptService) ListUserAttempts(userID uint) ([]model.QuestAttempt, error) {
	exists, err := s.UserRepo.Exists(userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, util.ErrUserNotFound
	}
	return s.AttemptRepo.FindByUser(userID)
}

func (s *QuestAttemptService) GetAttempt(userID, questID uint) (*model.QuestAttempt, error) {
	attempt, err := s.AttemptRepo.FindByUserAndQuest(userID, questID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	return attempt, nil
}
