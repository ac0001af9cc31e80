package service

import (
	"bytes"
	"campus_quest_backend/internal/config"
	"campus_quest_backend/internal/model"
	"campus_quest_backend/internal/repository"
	"campus_quest_backend/pkg/database"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var ctxBg = context.Background()

type testEnv struct {
	db            *gorm.DB
	users         *repository.UserRepository
	quests        *repository.QuestRepository
	attemptRepo   *repository.QuestAttemptRepository
	postRepo      *repository.PostRepository
	friendships   *repository.FriendshipRepository
	storage       *StorageService
	achievements  *AchievementService
	attempts      *QuestAttemptService
	posts         *PostService
	verifications *VerificationService
	friends       *FriendshipService
	questService  *QuestService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	catalog := DefaultMilestoneCatalog()
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedAchievements(db, catalog.Achievements()))

	questRepo, err := repository.NewQuestRepository(db, 16)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	attemptRepo := repository.NewQuestAttemptRepository(db)
	postRepo := repository.NewPostRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	friendshipRepo := repository.NewFriendshipRepository(db, nil)

	storage := &StorageService{Provider: &LocalStorageProvider{
		Config: &config.StorageConfig{LocalPath: t.TempDir()},
	}}
	images := NewImageService(5 << 20)

	achievements := NewAchievementService(db, achievementRepo, userRepo, attemptRepo, postRepo, verificationRepo, friendshipRepo, catalog)

	return &testEnv{
		db:            db,
		users:         userRepo,
		quests:        questRepo,
		attemptRepo:   attemptRepo,
		postRepo:      postRepo,
		friendships:   friendshipRepo,
		storage:       storage,
		achievements:  achievements,
		attempts:      NewQuestAttemptService(db, questRepo, attemptRepo, postRepo, reactionRepo, verificationRepo, userRepo, storage, achievements),
		posts:         NewPostService(db, questRepo, attemptRepo, postRepo, reactionRepo, friendshipRepo, userRepo, storage, images, achievements),
		verifications: NewVerificationService(db, attemptRepo, verificationRepo, achievements),
		friends:       NewFriendshipService(friendshipRepo, userRepo, achievements),
		questService:  NewQuestService(questRepo, attemptRepo),
	}
}

// serializeConnections 限制为单连接：sqlite 没有行锁，单连接下事务按顺序执行，
// 与 mysql/postgres 上 SELECT ... FOR UPDATE 的效果一致
func (e *testEnv) serializeConnections(t *testing.T) {
	t.Helper()
	sqlDB, err := e.db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
}

// fanOut 同时启动 n 个调用，返回每个调用的错误
func fanOut(n int, fn func(i int) error) []error {
	errs := make([]error, n)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = fn(i)
		}(i)
	}
	close(start)
	wg.Wait()
	return errs
}

func countErrors(errs []error, target error) (ok, matched int) {
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, target):
			matched++
		}
	}
	return ok, matched
}

func (e *testEnv) createUser(t *testing.T, name string) *model.User {
	t.Helper()
	user := &model.User{
		Username: name,
		Email:    name + "@campus.test",
		Password: "hashed",
		Role:     model.RoleUser,
	}
	require.NoError(t, e.users.Create(user))
	return user
}

func (e *testEnv) createQuest(t *testing.T, name string) *model.Quest {
	t.Helper()
	quest := &model.Quest{
		Name:        name,
		Description: "Find the " + name,
		Points:      10,
		StartDate:   time.Now().Add(-time.Hour),
	}
	require.NoError(t, e.quests.Create(quest))
	return quest
}

func (e *testEnv) createQuests(t *testing.T, n int) []*model.Quest {
	t.Helper()
	quests := make([]*model.Quest, n)
	for i := range quests {
		quests[i] = e.createQuest(t, fmt.Sprintf("quest-%d", i+1))
	}
	return quests
}

func (e *testEnv) tokensOf(t *testing.T, userID uint) int {
	t.Helper()
	user, err := e.users.FindByID(userID)
	require.NoError(t, err)
	return user.Tokens
}

// post submits a valid JPEG for the quest and requires success.
func (e *testEnv) post(t *testing.T, userID, questID uint) *PostResult {
	t.Helper()
	result, err := e.posts.CreatePostForQuest(ctxBg, userID, questID, "done", jpegImage(t, 10, 10))
	require.NoError(t, err)
	return result
}

func solidImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	return img
}

func jpegImage(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solidImage(w, h), nil))
	return buf.Bytes()
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidImage(w, h)))
	return buf.Bytes()
}

func achievementIDs(achievements []model.Achievement) []uint {
	ids := make([]uint, 0, len(achievements))
	for _, a := range achievements {
		ids = append(ids, a.ID)
	}
	return ids
}
