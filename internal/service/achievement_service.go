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
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// AchievementService 里程碑评估与成就发放
type AchievementService struct {
	DB               *gorm.DB
	AchievementRepo  *repository.AchievementRepository
	UserRepo         *repository.UserRepository
	AttemptRepo      *repository.QuestAttemptRepository
	PostRepo         *repository.PostRepository
	VerificationRepo *repository.VerificationRepository
	FriendshipRepo   *repository.FriendshipRepository
	Catalog          MilestoneCatalog
}

func NewAchievementService(
	db *gorm.DB,
	achievementRepo *repository.AchievementRepository,
	userRepo *repository.UserRepository,
	attemptRepo *repository.QuestAttemptRepository,
	postRepo *repository.PostRepository,
	verificationRepo *repository.VerificationRepository,
	friendshipRepo *repository.FriendshipRepository,
	catalog MilestoneCatalog,
) *AchievementService {
	return &AchievementService{
		DB:               db,
		AchievementRepo:  achievementRepo,
		UserRepo:         userRepo,
		AttemptRepo:      attemptRepo,
		PostRepo:         postRepo,
		VerificationRepo: verificationRepo,
		FriendshipRepo:   friendshipRepo,
		Catalog:          catalog,
	}
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Tokens   int    `json:"tokens"`
}

// ProfileStats 个人主页统计
type ProfileStats struct {
	UserID          uint   `json:"userId"`
	Username        string `json:"username"`
	Tokens          int    `json:"tokens"`
	Posts           int    `json:"posts"`
	PostIDs         []uint `json:"postIds"`
	LikesReceived   int64  `json:"likesReceived"`
	Achievements    int    `json:"achievements"`
	QuestsCompleted int64  `json:"questsCompleted"`
	Friends         int64  `json:"friends"`
	Verifications   int64  `json:"verifications"`
}

// GetProfile 里程碑计数加上帖子与成就数量
func (s *AchievementService) GetProfile(ctx context.Context, userID uint) (*ProfileStats, error) {
	ctx, span := tracing.Start(ctx, "AchievementService.GetProfile", tracing.UserID(userID))
	defer span.End()

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	counters, err := s.Counters(ctx, userID)
	if err != nil {
		return nil, err
	}
	postIDs, err := s.PostRepo.WithContext(ctx).FindIDsByUser(userID)
	if err != nil {
		return nil, err
	}
	awarded, err := s.AchievementRepo.FindAwardedIDs(userID)
	if err != nil {
		return nil, err
	}

	return &ProfileStats{
		UserID:          user.ID,
		Username:        user.Username,
		Tokens:          user.Tokens,
		Posts:           len(postIDs),
		PostIDs:         postIDs,
		LikesReceived:   counters.Likes,
		Achievements:    len(awarded),
		QuestsCompleted: counters.Quests,
		Friends:         counters.Friends,
		Verifications:   counters.Verifications,
	}, nil
}

// Counters 并发统计四个计数，任一失败即取消其余查询
func (s *AchievementService) Counters(ctx context.Context, userID uint) (MilestoneCounters, error) {
	ctx, span := tracing.Start(ctx, "AchievementService.Counters", tracing.UserID(userID))
	defer span.End()

	var c MilestoneCounters
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		c.Quests, err = s.AttemptRepo.WithContext(gctx).CountDoneByUser(userID)
		return
	})
	g.Go(func() (err error) {
		c.Friends, err = s.FriendshipRepo.WithContext(gctx).CountFriends(userID)
		return
	})
	g.Go(func() (err error) {
		c.Likes, err = s.PostRepo.WithContext(gctx).CountLikesReceived(userID)
		return
	})
	g.Go(func() (err error) {
		c.Verifications, err = s.VerificationRepo.WithContext(gctx).CountByVerifier(userID)
		return
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return MilestoneCounters{}, err
	}
	return c, nil
}

// EvaluateAndAward recounts the user's milestones and awards the newly
// crossed ones together with their tokens. Safe to call repeatedly.
func (s *AchievementService) EvaluateAndAward(ctx context.Context, userID uint) ([]model.Achievement, error) {
	ctx, span := tracing.Start(ctx, "AchievementService.EvaluateAndAward", tracing.UserID(userID))
	defer span.End()

	awarded, err := s.AchievementRepo.FindAwardedIDs(userID)
	if err != nil {
		return nil, err
	}

	counters, err := s.Counters(ctx, userID)
	if err != nil {
		return nil, err
	}

	newAchievements := []model.Achievement{}
	crossed := s.Catalog.Crossed(counters, awarded)
	if len(crossed) == 0 {
		return newAchievements, nil
	}

	totalTokens := 0
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 锁住用户行，同一用户的并发评估在此串行
		if _, err := s.UserRepo.WithTx(tx).LockByID(userID); err != nil {
			if repository.IsNotFound(err) {
				return util.ErrUserNotFound
			}
			return err
		}

		achievementRepo := s.AchievementRepo.WithTx(tx)
		current, err := achievementRepo.FindAwardedIDs(userID)
		if err != nil {
			return err
		}

		now := time.Now()
		for _, m := range crossed {
			if current[m.ID] {
				continue
			}
			inserted, err := achievementRepo.InsertIfAbsent(&model.UserAchievement{
				UserID:        userID,
				AchievementID: m.ID,
				DateAchieved:  now,
			})
			if err != nil {
				return err
			}
			if !inserted {
				continue
			}
			totalTokens += m.AwardTokens
			newAchievements = append(newAchievements, model.Achievement{
				ID:          m.ID,
				Description: m.Description,
				AwardTokens: m.AwardTokens,
				Category:    m.Category,
				Threshold:   int(m.Threshold),
			})
		}

		if totalTokens == 0 {
			return nil
		}
		return s.UserRepo.WithTx(tx).AddTokens(userID, totalTokens)
	})
	if err != nil {
		return nil, err
	}

	for _, a := range newAchievements {
		monitoring.AchievementsAwarded.WithLabelValues(string(a.Category)).Inc()
	}
	if totalTokens > 0 {
		monitoring.TokensAwarded.Add(float64(totalTokens))
		logger.Log.Info("Achievements awarded",
			zap.Uint("userID", userID),
			zap.Int("count", len(newAchievements)),
			zap.Int("tokens", totalTokens))
	}
	return newAchievements, nil
}

// evaluateQuietly 主操作已提交，评估失败只记日志
func (s *AchievementService) evaluateQuietly(ctx context.Context, userID uint) []model.Achievement {
	achievements, err := s.EvaluateAndAward(ctx, userID)
	if err != nil {
		logger.Log.Error("Milestone evaluation failed", zap.Uint("userID", userID), zap.Error(err))
		return []model.Achievement{}
	}
	return achievements
}

func (s *AchievementService) ListCatalog() ([]model.Achievement, error) {
	return s.AchievementRepo.FindAll()
}

func (s *AchievementService) ListUserAchievements(userID uint) ([]model.UserAchievement, error) {
	exists, err := s.UserRepo.Exists(userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, util.ErrUserNotFound
	}
	return s.AchievementRepo.FindByUserID(userID)
}

func (s *AchievementService) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	users, err := s.UserRepo.FindTopByTokens(limit)
	if err != nil {
		return nil, err
	}

	leaderboard := make([]LeaderboardEntry, len(users))
	for i, user := range users {
		leaderboard[i] = LeaderboardEntry{
			Rank:     i + 1,
			UserID:   user.ID,
			Username: user.Username,
			Tokens:   user.Tokens,
		}
	}
	return leaderboard, nil
}
