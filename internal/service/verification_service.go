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

// VerificationService 社交验证：两位不同的非本人用户投票后任务变为已验证
type VerificationService struct {
	DB               *gorm.DB
	AttemptRepo      *repository.QuestAttemptRepository
	VerificationRepo *repository.VerificationRepository
	Achievements     *AchievementService
}

func NewVerificationService(
	db *gorm.DB,
	attemptRepo *repository.QuestAttemptRepository,
	verificationRepo *repository.VerificationRepository,
	achievements *AchievementService,
) *VerificationService {
	return &VerificationService{
		DB:               db,
		AttemptRepo:      attemptRepo,
		VerificationRepo: verificationRepo,
		Achievements:     achievements,
	}
}

type VerificationResult struct {
	AttemptID         uint                `json:"attemptId"`
	VerificationCount int64               `json:"verificationCount"`
	IsVerified        bool                `json:"isVerified"`
	JustVerified      bool                `json:"justVerified"`
	AlreadyVerified   bool                `json:"alreadyVerified"`
	NewAchievements   []model.Achievement `json:"newAchievements"`
}

type VerificationStatus struct {
	AttemptID         uint  `json:"attemptId"`
	IsDone            bool  `json:"isDone"`
	IsVerified        bool  `json:"isVerified"`
	VerificationCount int64 `json:"verificationCount"`
	VerifiedByMe      bool  `json:"verifiedByMe"`
}

func (s *VerificationService) findAttempt(questID, targetUserID uint) (*model.QuestAttempt, error) {
	attempt, err := s.AttemptRepo.FindByUserAndQuest(targetUserID, questID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	return attempt, nil
}

// VerifyUserQuest 按 (任务, 目标用户) 定位尝试记录后投票
func (s *VerificationService) VerifyUserQuest(ctx context.Context, questID, targetUserID, verifierID uint) (*VerificationResult, error) {
	attempt, err := s.findAttempt(questID, targetUserID)
	if err != nil {
		return nil, err
	}
	return s.SubmitVerification(ctx, attempt.ID, verifierID)
}

// SubmitVerification records one vote. Checks run in order: existence,
// self vote, completion, repeat vote. The attempt row stays locked while the
// vote is inserted and recounted so the quorum flips exactly once.
func (s *VerificationService) SubmitVerification(ctx context.Context, attemptID, verifierID uint) (*VerificationResult, error) {
	ctx, span := tracing.Start(ctx, "VerificationService.SubmitVerification", tracing.UserID(verifierID))
	defer span.End()

	result := &VerificationResult{AttemptID: attemptID, NewAchievements: []model.Achievement{}}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attemptRepo := s.AttemptRepo.WithTx(tx)
		voteRepo := s.VerificationRepo.WithTx(tx)

		attempt, err := attemptRepo.FindByIDForUpdate(attemptID)
		if err != nil {
			if repository.IsNotFound(err) {
				return util.ErrAttemptNotFound
			}
			return err
		}
		if attempt.UserID == verifierID {
			return util.ErrSelfVerification
		}
		if !attempt.IsDone {
			return util.ErrNotDoneYet
		}

		voted, err := voteRepo.Exists(attemptID, verifierID)
		if err != nil {
			return err
		}
		if voted {
			if !attempt.IsVerified {
				return util.ErrDuplicateVerification
			}
			result.AlreadyVerified = true
			result.IsVerified = true
			result.VerificationCount, err = voteRepo.CountByAttempt(attemptID)
			return err
		}

		vote := &model.QuestVerification{
			QuestAttemptID: attemptID,
			VerifierID:     verifierID,
			VerifiedAt:     time.Now(),
		}
		if err := voteRepo.Create(vote); err != nil {
			if repository.IsUniqueViolation(err) {
				return util.ErrDuplicateVerification
			}
			return err
		}

		count, err := voteRepo.CountByAttempt(attemptID)
		if err != nil {
			return err
		}
		result.VerificationCount = count
		result.IsVerified = attempt.IsVerified

		if !attempt.IsVerified && count >= util.VerificationQuorum {
			if err := attemptRepo.MarkVerified(attemptID); err != nil {
				return err
			}
			result.IsVerified = true
			result.JustVerified = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.AlreadyVerified {
		return result, nil
	}

	monitoring.VerificationVotes.Inc()
	if result.JustVerified {
		monitoring.QuestsVerified.Inc()
		logger.Log.Info("Quest attempt verified",
			zap.Uint("attemptID", attemptID),
			zap.Int64("votes", result.VerificationCount))
	}

	result.NewAchievements = s.Achievements.evaluateQuietly(ctx, verifierID)
	return result, nil
}

func (s *VerificationService) GetStatus(questID, targetUserID, viewerID uint) (*VerificationStatus, error) {
	attempt, err := s.findAttempt(questID, targetUserID)
	if err != nil {
		return nil, err
	}

	count, err := s.VerificationRepo.CountByAttempt(attempt.ID)
	if err != nil {
		return nil, err
	}
	mine, err := s.VerificationRepo.Exists(attempt.ID, viewerID)
	if err != nil {
		return nil, err
	}

	return &VerificationStatus{
		AttemptID:         attempt.ID,
		IsDone:            attempt.IsDone,
		IsVerified:        attempt.IsVerified,
		VerificationCount: count,
		VerifiedByMe:      mine,
	}, nil
}
