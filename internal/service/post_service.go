package service

import (
	"bytes"
	"campus_quest_backend/internal/model"
	"campus_quest_backend/internal/repository"
	"campus_quest_backend/internal/util"
	"campus_quest_backend/pkg/logger"
	"campus_quest_backend/pkg/monitoring"
	"campus_quest_backend/pkg/tracing"
	"context"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PostService struct {
	DB             *gorm.DB
	QuestRepo      *repository.QuestRepository
	AttemptRepo    *repository.QuestAttemptRepository
	PostRepo       *repository.PostRepository
	ReactionRepo   *repository.ReactionRepository
	FriendshipRepo *repository.FriendshipRepository
	UserRepo       *repository.UserRepository
	Storage        *StorageService
	Images         *ImageService
	Achievements   *AchievementService
}

func NewPostService(
	db *gorm.DB,
	questRepo *repository.QuestRepository,
	attemptRepo *repository.QuestAttemptRepository,
	postRepo *repository.PostRepository,
	reactionRepo *repository.ReactionRepository,
	friendshipRepo *repository.FriendshipRepository,
	userRepo *repository.UserRepository,
	storage *StorageService,
	images *ImageService,
	achievements *AchievementService,
) *PostService {
	return &PostService{
		DB:             db,
		QuestRepo:      questRepo,
		AttemptRepo:    attemptRepo,
		PostRepo:       postRepo,
		ReactionRepo:   reactionRepo,
		FriendshipRepo: friendshipRepo,
		UserRepo:       userRepo,
		Storage:        storage,
		Images:         images,
		Achievements:   achievements,
	}
}

type PostResult struct {
	Post            *model.Post         `json:"post"`
	NewAchievements []model.Achievement `json:"newAchievements"`
}

type PostView struct {
	model.Post
	Reactions repository.ReactionCounts `json:"reactions"`
}

type ReactionResult struct {
	PostID       uint                      `json:"postId"`
	Reaction     *model.ReactionType       `json:"reaction"`
	Reactions    repository.ReactionCounts `json:"reactions"`
	OwnerAwarded []model.Achievement       `json:"ownerNewAchievements"`
}

// CreatePostForQuest 提交任务证明：任务记录与帖子在同一事务内写入
func (s *PostService) CreatePostForQuest(ctx context.Context, userID, questID uint, caption string, image []byte) (*PostResult, error) {
	ctx, span := tracing.Start(ctx, "PostService.CreatePostForQuest", tracing.UserID(userID))
	defer span.End()

	if utf8.RuneCountInString(caption) > util.MaxCaptionLength {
		return nil, util.ErrInvalidCaption
	}

	exists, err := s.QuestRepo.Exists(questID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, util.ErrQuestNotFound
	}

	if attempt, err := s.AttemptRepo.FindByUserAndQuest(userID, questID); err == nil {
		hasPost, err := s.PostRepo.ExistsForAttempt(attempt.ID)
		if err != nil {
			return nil, err
		}
		if hasPost {
			return nil, util.ErrAlreadySubmitted
		}
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	processed, err := s.Images.Process(image)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("posts/%d/%s.jpg", userID, uuid.NewString())
	url, err := s.Storage.Upload(ctx, key, bytes.NewReader(processed.Data), int64(len(processed.Data)), processed.ContentType)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		UserID:   userID,
		Caption:  caption,
		ImageKey: key,
		ImageURL: url,
	}
	completed := false

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attemptRepo := s.AttemptRepo.WithTx(tx)
		postRepo := s.PostRepo.WithTx(tx)
		now := time.Now()

		attempt, err := attemptRepo.FindByUserAndQuest(userID, questID)
		switch {
		case repository.IsNotFound(err):
			attempt = &model.QuestAttempt{
				UserID:        userID,
				QuestID:       questID,
				IsDone:        true,
				DateCompleted: &now,
			}
			if err := attemptRepo.Create(attempt); err != nil {
				return err
			}
			completed = true
		case err != nil:
			return err
		default:
			hasPost, err := postRepo.ExistsForAttempt(attempt.ID)
			if err != nil {
				return err
			}
			if hasPost {
				return util.ErrAlreadySubmitted
			}
			if !attempt.IsDone {
				if completed, err = attemptRepo.MarkDone(attempt.ID, now); err != nil {
					return err
				}
				attempt.IsDone = true
				attempt.DateCompleted = &now
			}
		}

		post.QuestAttemptID = attempt.ID
		if err := postRepo.Create(post); err != nil {
			return err
		}
		post.QuestAttempt = *attempt
		return nil
	})
	if err != nil {
		if delErr := s.Storage.Delete(ctx, key); delErr != nil {
			logger.Log.Warn("Failed to remove orphaned upload", zap.String("key", key), zap.Error(delErr))
		}
		if repository.IsUniqueViolation(err) {
			return nil, util.ErrAlreadySubmitted
		}
		return nil, err
	}

	if completed {
		monitoring.QuestCompletions.Inc()
	}

	return &PostResult{
		Post:            post,
		NewAchievements: s.Achievements.evaluateQuietly(ctx, userID),
	}, nil
}

func pageOffset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

func (s *PostService) withReactions(posts []model.Post) ([]PostView, error) {
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	counts, err := s.ReactionRepo.CountByPosts(ids)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, len(posts))
	for i, p := range posts {
		views[i] = PostView{Post: p, Reactions: counts[p.ID]}
	}
	return views, nil
}

func (s *PostService) list(page, limit int, userIDs []uint) ([]PostView, int64, error) {
	limit = util.ClampPageSize(limit)
	posts, total, err := s.PostRepo.FindWithPagination(pageOffset(page, limit), limit, userIDs)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.withReactions(posts)
	return views, total, err
}

// ListPosts 全站动态，最新在前
func (s *PostService) ListPosts(page, limit int) ([]PostView, int64, error) {
	return s.list(page, limit, nil)
}

func (s *PostService) ListFriendPosts(userID uint, page, limit int) ([]PostView, int64, error) {
	ids, err := s.FriendshipRepo.GetFriendIDsCached(userID)
	if err != nil {
		return nil, 0, err
	}
	if ids == nil {
		ids = []uint{}
	}
	return s.list(page, limit, ids)
}

func (s *PostService) ListUserPosts(userID uint, page, limit int) ([]PostView, int64, error) {
	exists, err := s.UserRepo.Exists(userID)
	if err != nil {
		return nil, 0, err
	}
	if !exists {
		return nil, 0, util.ErrUserNotFound
	}
	return s.list(page, limit, []uint{userID})
}

func (s *PostService) GetPost(id uint) (*PostView, error) {
	post, err := s.PostRepo.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrPostNotFound
		}
		return nil, err
	}
	counts, err := s.ReactionRepo.CountByPost(id)
	if err != nil {
		return nil, err
	}
	return &PostView{Post: *post, Reactions: counts}, nil
}

// OpenImage 返回帖子图片内容，调用方负责关闭
func (s *PostService) OpenImage(ctx context.Context, postID uint) (io.ReadCloser, string, error) {
	post, err := s.PostRepo.FindByID(postID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, "", util.ErrPostNotFound
		}
		return nil, "", err
	}
	rc, err := s.Storage.Open(ctx, post.ImageKey)
	if err != nil {
		return nil, "", err
	}
	return rc, util.MimeJPEG, nil
}

// React 点赞/点踩切换：同类型再次提交即取消
func (s *PostService) React(ctx context.Context, userID, postID uint, reactionType model.ReactionType) (*ReactionResult, error) {
	ctx, span := tracing.Start(ctx, "PostService.React", tracing.UserID(userID))
	defer span.End()

	if reactionType != model.ReactionLike && reactionType != model.ReactionDislike {
		return nil, util.ErrInvalidReaction
	}

	post, err := s.PostRepo.FindByID(postID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrPostNotFound
		}
		return nil, err
	}

	var current *model.ReactionType
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.ReactionRepo.WithTx(tx)
		existing, err := repo.Find(postID, userID)
		switch {
		case repository.IsNotFound(err):
			current = &reactionType
			return repo.Create(&model.PostReaction{PostID: postID, UserID: userID, ReactionType: reactionType})
		case err != nil:
			return err
		case existing.ReactionType == reactionType:
			return repo.Delete(existing.ID)
		default:
			current = &reactionType
			return repo.UpdateType(existing.ID, reactionType)
		}
	})
	if err != nil {
		if !repository.IsUniqueViolation(err) {
			return nil, err
		}
		// 并发的同一用户请求已写入，按当前状态返回
		existing, findErr := s.ReactionRepo.Find(postID, userID)
		if findErr != nil {
			return nil, err
		}
		current = &existing.ReactionType
	}

	counts, err := s.ReactionRepo.CountByPost(postID)
	if err != nil {
		return nil, err
	}

	result := &ReactionResult{
		PostID:       postID,
		Reaction:     current,
		Reactions:    counts,
		OwnerAwarded: []model.Achievement{},
	}
	if current != nil && *current == model.ReactionLike {
		result.OwnerAwarded = s.Achievements.evaluateQuietly(ctx, post.UserID)
	}
	return result, nil
}
